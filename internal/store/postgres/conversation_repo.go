package postgres

import (
	"context"
	"database/sql"

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

	err = tx.QueryRowContext(ctx, `
		INSERT INTO conversations (kind, name, created_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, c.Kind, c.Name, c.CreatedAt).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return translate("insert conversation", err)
	}

	for _, p := range participants {
		p.ConversationID = c.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO participants (conversation_id, user_id, role, joined_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id, joined_at
		`, c.ID, p.UserID, p.Role, p.JoinedAt).Scan(&p.ID, &p.JoinedAt)
		if err != nil {
			return translate("insert participant", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return translate("commit", err)
	}
	return nil
}

func (r *ConversationRepo) GetByID(ctx context.Context, id int64) (*domain.Conversation, error) {
	c := &domain.Conversation{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, kind, name, created_at
		FROM conversations
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Kind, &c.Name, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, translate("get conversation", err)
	}
	return c, nil
}

func (r *ConversationRepo) ListForUser(ctx context.Context, userID int64) ([]*domain.ConversationSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.kind, c.name, c.created_at, MAX(m.created_at) AS last_message_at
		FROM conversations c
		JOIN participants p ON p.conversation_id = c.id AND p.user_id = $1 AND p.left_at IS NULL
		LEFT JOIN messages m ON m.conversation_id = c.id
		GROUP BY c.id, c.kind, c.name, c.created_at
		ORDER BY COALESCE(MAX(m.created_at), c.created_at) DESC, c.id DESC
	`, userID)
	if err != nil {
		return nil, translate("list conversations", err)
	}
	defer rows.Close()

	var res []*domain.ConversationSummary
	for rows.Next() {
		s := &domain.ConversationSummary{}
		var last sql.NullTime
		if err := rows.Scan(&s.ID, &s.Kind, &s.Name, &s.CreatedAt, &last); err != nil {
			return nil, translate("scan conversation", err)
		}
		if last.Valid {
			at := last.Time
			s.LastMessageAt = &at
		}
		res = append(res, s)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list conversations", err)
	}
	return res, nil
}
