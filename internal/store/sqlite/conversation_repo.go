package sqlite

import (
	"context"
	"database/sql"
	"time"

	"parley/internal/domain"
)

type ConversationRepo struct {
	db *sql.DB
}

func NewConversationRepo(db *sql.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

var _ domain.ConversationRepository = (*ConversationRepo)(nil)

func (r *ConversationRepo) Create(ctx context.Context, c *domain.Conversation, participants []*domain.Participant) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return translate("begin tx", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO conversations (kind, name, created_at)
		VALUES (?, ?, ?)
	`, c.Kind, c.Name, c.CreatedAt.UnixNano())
	if err != nil {
		return translate("insert conversation", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return translate("last insert id", err)
	}
	c.ID = id

	for _, p := range participants {
		p.ConversationID = id
		res, err := tx.ExecContext(ctx, `
			INSERT INTO participants (conversation_id, user_id, role, joined_at)
			VALUES (?, ?, ?, ?)
		`, id, p.UserID, p.Role, p.JoinedAt.UnixNano())
		if err != nil {
			return translate("insert participant", err)
		}
		pid, err := res.LastInsertId()
		if err != nil {
			return translate("last insert id", err)
		}
		p.ID = pid
	}

	if err := tx.Commit(); err != nil {
		return translate("commit", err)
	}
	return nil
}

func (r *ConversationRepo) GetByID(ctx context.Context, id int64) (*domain.Conversation, error) {
	query := `
		SELECT id, kind, name, created_at
		FROM conversations
		WHERE id = ?
	`
	c := &domain.Conversation{}
	var nanos int64
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.Kind,
		&c.Name,
		&nanos,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, translate("get conversation", err)
	}
	c.CreatedAt = time.Unix(0, nanos).UTC()
	return c, nil
}

func (r *ConversationRepo) ListForUser(ctx context.Context, userID int64) ([]*domain.ConversationSummary, error) {
	query := `
		SELECT c.id, c.kind, c.name, c.created_at, MAX(m.created_at) AS last_message_at
		FROM conversations c
		JOIN participants p ON p.conversation_id = c.id AND p.user_id = ? AND p.left_at IS NULL
		LEFT JOIN messages m ON m.conversation_id = c.id
		GROUP BY c.id, c.kind, c.name, c.created_at
		ORDER BY COALESCE(MAX(m.created_at), c.created_at) DESC, c.id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, translate("list conversations", err)
	}
	defer rows.Close()

	var res []*domain.ConversationSummary
	for rows.Next() {
		s := &domain.ConversationSummary{}
		var createdNanos int64
		var lastNanos sql.NullInt64
		if err := rows.Scan(
			&s.ID,
			&s.Kind,
			&s.Name,
			&createdNanos,
			&lastNanos,
		); err != nil {
			return nil, translate("scan conversation", err)
		}
		s.CreatedAt = time.Unix(0, createdNanos).UTC()
		if lastNanos.Valid {
			at := time.Unix(0, lastNanos.Int64).UTC()
			s.LastMessageAt = &at
		}
		res = append(res, s)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list conversations", err)
	}
	return res, nil
}
