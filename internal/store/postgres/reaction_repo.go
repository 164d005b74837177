package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"parley/internal/domain"
)

type ReactionRepo struct {
	db *sql.DB
}

func NewReactionRepo(db *sql.DB) *ReactionRepo {
	return &ReactionRepo{db: db}
}

var _ domain.ReactionRepository = (*ReactionRepo)(nil)

func (r *ReactionRepo) Create(ctx context.Context, re *domain.Reaction) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO reactions (message_id, user_id, emoji, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, re.MessageID, re.UserID, re.Emoji, re.CreatedAt).Scan(&re.CreatedAt)
	if err != nil {
		return translate("insert reaction", err)
	}
	return nil
}

func (r *ReactionRepo) Delete(ctx context.Context, messageID, userID int64, emoji string) (*domain.Reaction, error) {
	var createdAt time.Time
	err := r.db.QueryRowContext(ctx, `
		DELETE FROM reactions
		WHERE message_id = $1 AND user_id = $2 AND emoji = $3
		RETURNING created_at
	`, messageID, userID, emoji).Scan(&createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("delete reaction: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, translate("delete reaction", err)
	}
	return &domain.Reaction{
		MessageID: messageID,
		UserID:    userID,
		Emoji:     emoji,
		CreatedAt: createdAt,
	}, nil
}

func (r *ReactionRepo) ListForMessages(ctx context.Context, messageIDs []int64) ([]*domain.Reaction, error) {
	if len(messageIDs) == 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT message_id, user_id, emoji, created_at
		FROM reactions
		WHERE message_id = ANY($1)
		ORDER BY created_at ASC, user_id ASC, emoji ASC
	`, messageIDs)
	if err != nil {
		return nil, translate("list reactions", err)
	}
	defer rows.Close()

	var res []*domain.Reaction
	for rows.Next() {
		re := &domain.Reaction{}
		if err := rows.Scan(&re.MessageID, &re.UserID, &re.Emoji, &re.CreatedAt); err != nil {
			return nil, translate("scan reaction", err)
		}
		res = append(res, re)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list reactions", err)
	}
	return res, nil
}
