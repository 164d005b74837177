package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"parley/internal/domain"
)

type ParticipantRepo struct {
	db *sql.DB
}

func NewParticipantRepo(db *sql.DB) *ParticipantRepo {
	return &ParticipantRepo{db: db}
}

var _ domain.ParticipantRepository = (*ParticipantRepo)(nil)

func (r *ParticipantRepo) Create(ctx context.Context, p *domain.Participant) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO participants (conversation_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, joined_at
	`, p.ConversationID, p.UserID, p.Role, p.JoinedAt).Scan(&p.ID, &p.JoinedAt)
	if err != nil {
		return translate("insert participant", err)
	}
	return nil
}

func (r *ParticipantRepo) ListForConversation(ctx context.Context, conversationID int64) ([]*domain.Participant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, conversation_id, user_id, role, joined_at, left_at
		FROM participants
		WHERE conversation_id = $1
		ORDER BY joined_at ASC, id ASC
	`, conversationID)
	if err != nil {
		return nil, translate("list participants", err)
	}
	defer rows.Close()

	var res []*domain.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list participants", err)
	}
	return res, nil
}

func (r *ParticipantRepo) GetActive(ctx context.Context, conversationID, userID int64) (*domain.Participant, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, conversation_id, user_id, role, joined_at, left_at
		FROM participants
		WHERE conversation_id = $1 AND user_id = $2 AND left_at IS NULL
	`, conversationID, userID)
	p, err := scanParticipant(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ParticipantRepo) HasAny(ctx context.Context, conversationID, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM participants
			WHERE conversation_id = $1 AND user_id = $2
		)
	`, conversationID, userID).Scan(&exists)
	if err != nil {
		return false, translate("has participant row", err)
	}
	return exists, nil
}

func (r *ParticipantRepo) SetLeft(ctx context.Context, conversationID, userID int64, when time.Time) (*domain.Participant, error) {
	// Matching on left_at IS NULL makes a second leave lose cleanly, even
	// against a concurrent one.
	row := r.db.QueryRowContext(ctx, `
		UPDATE participants
		SET left_at = $3
		WHERE conversation_id = $1 AND user_id = $2 AND left_at IS NULL
		RETURNING id, conversation_id, user_id, role, joined_at, left_at
	`, conversationID, userID, when)
	p, err := scanParticipant(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("set left: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func scanParticipant(row interface{ Scan(dest ...any) error }) (*domain.Participant, error) {
	p := &domain.Participant{}
	var left sql.NullTime
	if err := row.Scan(
		&p.ID,
		&p.ConversationID,
		&p.UserID,
		&p.Role,
		&p.JoinedAt,
		&left,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, translate("scan participant", err)
	}
	if left.Valid {
		at := left.Time
		p.LeftAt = &at
	}
	return p, nil
}
