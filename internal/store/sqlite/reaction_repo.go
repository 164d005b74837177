package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
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
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reactions (message_id, user_id, emoji, created_at)
		VALUES (?, ?, ?, ?)
	`, re.MessageID, re.UserID, re.Emoji, re.CreatedAt.UnixNano())
	if err != nil {
		return translate("insert reaction", err)
	}
	return nil
}

func (r *ReactionRepo) Delete(ctx context.Context, messageID, userID int64, emoji string) (*domain.Reaction, error) {
	// One statement, so a concurrent remove cannot slip between a check and
	// the delete; the loser sees no row.
	var nanos int64
	err := r.db.QueryRowContext(ctx, `
		DELETE FROM reactions
		WHERE message_id = ? AND user_id = ? AND emoji = ?
		RETURNING created_at
	`, messageID, userID, emoji).Scan(&nanos)
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
		CreatedAt: time.Unix(0, nanos).UTC(),
	}, nil
}

func (r *ReactionRepo) ListForMessages(ctx context.Context, messageIDs []int64) ([]*domain.Reaction, error) {
	if len(messageIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT message_id, user_id, emoji, created_at
		FROM reactions
		WHERE message_id IN (?` + strings.Repeat(",?", len(messageIDs)-1) + `)
		ORDER BY created_at ASC, user_id ASC, emoji ASC
	`
	args := make([]any, len(messageIDs))
	for i, id := range messageIDs {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate("list reactions", err)
	}
	defer rows.Close()

	var res []*domain.Reaction
	for rows.Next() {
		re := &domain.Reaction{}
		var nanos int64
		if err := rows.Scan(&re.MessageID, &re.UserID, &re.Emoji, &nanos); err != nil {
			return nil, translate("scan reaction", err)
		}
		re.CreatedAt = time.Unix(0, nanos).UTC()
		res = append(res, re)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list reactions", err)
	}
	return res, nil
}
