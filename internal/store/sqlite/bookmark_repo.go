package sqlite

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
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO bookmarks (message_id, user_id, created_at)
		VALUES (?, ?, ?)
	`, b.MessageID, b.UserID, b.CreatedAt.UnixNano())
	if err != nil {
		return translate("insert bookmark", err)
	}
	return nil
}

func (r *BookmarkRepo) Delete(ctx context.Context, messageID, userID int64) (*domain.Bookmark, error) {
	var nanos int64
	err := r.db.QueryRowContext(ctx, `
		DELETE FROM bookmarks
		WHERE message_id = ? AND user_id = ?
		RETURNING created_at
	`, messageID, userID).Scan(&nanos)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("delete bookmark: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, translate("delete bookmark", err)
	}

	return &domain.Bookmark{
		MessageID: messageID,
		UserID:    userID,
		CreatedAt: time.Unix(0, nanos).UTC(),
	}, nil
}

func (r *BookmarkRepo) ListForUser(ctx context.Context, userID int64) ([]*domain.BookmarkedMessage, error) {
	query := `
		SELECT b.message_id, b.user_id, b.created_at,
		       m.id, m.conversation_id, m.sender_id, m.text, m.system_event, m.created_at
		FROM bookmarks b
		JOIN messages m ON m.id = b.message_id
		WHERE b.user_id = ?
		ORDER BY b.created_at DESC, b.message_id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, translate("list bookmarks", err)
	}
	defer rows.Close()

	var res []*domain.BookmarkedMessage
	for rows.Next() {
		bm := &domain.BookmarkedMessage{}
		var bookmarkNanos, messageNanos int64
		var sender sql.NullInt64
		var event sql.NullString
		if err := rows.Scan(
			&bm.MessageID,
			&bm.UserID,
			&bookmarkNanos,
			&bm.Message.ID,
			&bm.Message.ConversationID,
			&sender,
			&bm.Message.Text,
			&event,
			&messageNanos,
		); err != nil {
			return nil, translate("scan bookmark", err)
		}
		bm.CreatedAt = time.Unix(0, bookmarkNanos).UTC()
		if sender.Valid {
			bm.Message.SenderID = &sender.Int64
		}
		if event.Valid {
			ev := domain.SystemEvent(event.String)
			bm.Message.SystemEvent = &ev
		}
		bm.Message.CreatedAt = time.Unix(0, messageNanos).UTC()
		res = append(res, bm)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list bookmarks", err)
	}
	return res, nil
}
