package sqlite

import (
	"context"
	"database/sql"
	"time"

	"parley/internal/domain"
)

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

var _ domain.MessageRepository = (*MessageRepo)(nil)

func (r *MessageRepo) Create(ctx context.Context, m *domain.Message) error {
	query := `
		INSERT INTO messages (conversation_id, sender_id, text, system_event, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	res, err := r.db.ExecContext(ctx, query,
		m.ConversationID,
		m.SenderID,
		m.Text,
		m.SystemEvent,
		m.CreatedAt.UnixNano(),
	)
	if err != nil {
		return translate("insert message", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return translate("last insert id", err)
	}
	m.ID = id
	return nil
}

func (r *MessageRepo) GetByID(ctx context.Context, id int64) (*domain.Message, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, conversation_id, sender_id, text, system_event, created_at
		FROM messages
		WHERE id = ?
	`, id)
	m, err := scanMessage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *MessageRepo) ListPage(ctx context.Context, conversationID int64, before *domain.MessageCursor, limit int) ([]*domain.Message, error) {
	query := `
		SELECT id, conversation_id, sender_id, text, system_event, created_at
		FROM messages
		WHERE conversation_id = ?
	`
	args := []any{conversationID}
	if before != nil {
		// Strictly-below keyset step: same ordering key as the ORDER BY, so
		// rows sharing the cursor's timestamp fall back to the id tiebreak.
		query += ` AND (created_at < ? OR (created_at = ? AND id < ?))`
		nanos := before.CreatedAt.UnixNano()
		args = append(args, nanos, nanos, before.ID)
	}
	query += `
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate("list messages", err)
	}
	defer rows.Close()

	var res []*domain.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list messages", err)
	}
	return res, nil
}

func scanMessage(row rowScanner) (*domain.Message, error) {
	m := &domain.Message{}
	var sender sql.NullInt64
	var event sql.NullString
	var nanos int64
	if err := row.Scan(
		&m.ID,
		&m.ConversationID,
		&sender,
		&m.Text,
		&event,
		&nanos,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, translate("scan message", err)
	}
	if sender.Valid {
		m.SenderID = &sender.Int64
	}
	if event.Valid {
		ev := domain.SystemEvent(event.String)
		m.SystemEvent = &ev
	}
	m.CreatedAt = time.Unix(0, nanos).UTC()
	return m, nil
}
