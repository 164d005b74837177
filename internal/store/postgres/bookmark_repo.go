package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"parley/internal/domain"
)

type BookmarkRepo struct {
	db *sql.DB
}

func NewBookmarkRepo(db *sql.DB) *BookmarkRepo {
	return &BookmarkRepo{db: db}
}

var _ domain.BookmarkRepository = (*BookmarkRepo)(nil)

func (r *BookmarkRepo) Create(ctx context.Context, b *domain.Bookmark) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO bookmarks (message_id, user_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, b.MessageID, b.UserID, b.CreatedAt).Scan(&b.CreatedAt)
	if err != nil {
		return translate("insert bookmark", err)
	}
	return nil
}

func (r *BookmarkRepo) Delete(ctx context.Context, messageID, userID int64) (*domain.Bookmark, error) {
	var createdAt time.Time
	err := r.db.QueryRowContext(ctx, `
		DELETE FROM bookmarks
		WHERE message_id = $1 AND user_id = $2
		RETURNING created_at
	`, messageID, userID).Scan(&createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("delete bookmark: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, translate("delete bookmark", err)
	}
	return &domain.Bookmark{
		MessageID: messageID,
		UserID:    userID,
		CreatedAt: createdAt,
	}, nil
}

func (r *BookmarkRepo) ListForUser(ctx context.Context, userID int64) ([]*domain.BookmarkedMessage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT b.message_id, b.user_id, b.created_at,
		       m.id, m.conversation_id, m.sender_id, m.text, m.system_event, m.created_at
		FROM bookmarks b
		JOIN messages m ON m.id = b.message_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC, b.message_id DESC
	`, userID)
	if err != nil {
		return nil, translate("list bookmarks", err)
	}
	defer rows.Close()

	var res []*domain.BookmarkedMessage
	for rows.Next() {
		bm := &domain.BookmarkedMessage{}
		var sender sql.NullInt64
		var event sql.NullString
		if err := rows.Scan(
			&bm.MessageID,
			&bm.UserID,
			&bm.CreatedAt,
			&bm.Message.ID,
			&bm.Message.ConversationID,
			&sender,
			&bm.Message.Text,
			&event,
			&bm.Message.CreatedAt,
		); err != nil {
			return nil, translate("scan bookmark", err)
		}
		if sender.Valid {
			bm.Message.SenderID = &sender.Int64
		}
		if event.Valid {
			ev := domain.SystemEvent(event.String)
			bm.Message.SystemEvent = &ev
		}
		res = append(res, bm)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list bookmarks", err)
	}
	return res, nil
}
