package sqlite

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
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO participants (conversation_id, user_id, role, joined_at)
		VALUES (?, ?, ?, ?)
	`, p.ConversationID, p.UserID, p.Role, p.JoinedAt.UnixNano())
	if err != nil {
		return translate("insert participant", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return translate("last insert id", err)
	}
	p.ID = id
	return nil
}

func (r *ParticipantRepo) ListForConversation(ctx context.Context, conversationID int64) ([]*domain.Participant, error) {
	query := `
		SELECT id, conversation_id, user_id, role, joined_at, left_at
		FROM participants
		WHERE conversation_id = ?
		ORDER BY joined_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, conversationID)
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
		WHERE conversation_id = ? AND user_id = ? AND left_at IS NULL
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
	var exists int
	err := r.db.QueryRowContext(ctx, `
		SELECT 1
		FROM participants
		WHERE conversation_id = ? AND user_id = ?
		LIMIT 1
	`, conversationID, userID).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, translate("has participant row", err)
	}
	return true, nil
}

func (r *ParticipantRepo) SetLeft(ctx context.Context, conversationID, userID int64, when time.Time) (*domain.Participant, error) {
	// The left_at IS NULL guard keeps a concurrent leave from winning twice.
	row := r.db.QueryRowContext(ctx, `
		UPDATE participants
		SET left_at = ?
		WHERE conversation_id = ? AND user_id = ? AND left_at IS NULL
		RETURNING id, conversation_id, user_id, role, joined_at, left_at
	`, when.UnixNano(), conversationID, userID)
	p, err := scanParticipant(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("set left: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanParticipant(row rowScanner) (*domain.Participant, error) {
	p := &domain.Participant{}
	var joinedNanos int64
	var leftNanos sql.NullInt64
	if err := row.Scan(
		&p.ID,
		&p.ConversationID,
		&p.UserID,
		&p.Role,
		&joinedNanos,
		&leftNanos,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, translate("scan participant", err)
	}
	p.JoinedAt = time.Unix(0, joinedNanos).UTC()
	if leftNanos.Valid {
		at := time.Unix(0, leftNanos.Int64).UTC()
		p.LeftAt = &at
	}
	return p, nil
}
