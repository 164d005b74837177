package postgres

import (
	"context"
	"database/sql"
	"fmt"

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
	// RETURNING created_at hands back the stored value, which postgres
	// truncates to microseconds; cursors must be built from that, not the
	// nanosecond value that went in.
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO messages (conversation_id, sender_id, text, system_event, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, m.ConversationID, m.SenderID, m.Text, m.SystemEvent, m.CreatedAt).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return translate("insert message", err)
	}
	return nil
}

func (r *MessageRepo) GetByID(ctx context.Context, id int64) (*domain.Message, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, conversation_id, sender_id, text, system_event, created_at
		FROM messages
		WHERE id = $1
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
		WHERE conversation_id = $1
	`
	args := []any{conversationID}
	if before != nil {
		// Row-value comparison matches the (created_at, id) ordering key.
		query += ` AND (created_at, id) < ($2, $3)`
		args = append(args, before.CreatedAt, before.ID)
	}
	query += fmt.Sprintf(`
		ORDER BY created_at DESC, id DESC
		LIMIT $%d
	`, len(args)+1)
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

func scanMessage(row interface{ Scan(dest ...any) error }) (*domain.Message, error) {
	m := &domain.Message{}
	var sender sql.NullInt64
	var event sql.NullString
	if err := row.Scan(
		&m.ID,
		&m.ConversationID,
		&sender,
		&m.Text,
		&event,
		&m.CreatedAt,
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
	return m, nil
}
