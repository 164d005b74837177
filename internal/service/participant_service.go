package service

import (
	"context"
	"fmt"
	"time"

	"parley/internal/domain"
)

// ParticipantService owns membership changes: joining a group and leaving.
type ParticipantService struct {
	conversations domain.ConversationRepository
	participants  domain.ParticipantRepository
}

func NewParticipantService(
	conversations domain.ConversationRepository,
	participants domain.ParticipantRepository,
) *ParticipantService {
	return &ParticipantService{
		conversations: conversations,
		participants:  participants,
	}
}

// Add creates an active membership for userID in a group conversation. An
// empty role defaults to member. Direct conversations are sealed after
// creation; adding to one fails with ErrInvalidInput. A user who already
// holds an active row fails with ErrConflict, while a user who left earlier
// simply gets a fresh row.
func (s *ParticipantService) Add(ctx context.Context, conversationID, userID int64, role domain.ParticipantRole) (*domain.Participant, error) {
	if role == "" {
		role = domain.RoleMember
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: role must be member or admin", domain.ErrInvalidInput)
	}

	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, fmt.Errorf("conversation %d: %w", conversationID, domain.ErrNotFound)
	}
	if conv.Kind != domain.KindGroup {
		return nil, fmt.Errorf("%w: participants can only be added to group conversations", domain.ErrInvalidInput)
	}

	p := &domain.Participant{
		ConversationID: conversationID,
		UserID:         userID,
		Role:           role,
		JoinedAt:       time.Now().UTC(),
	}
	if err := s.participants.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// MarkLeft closes the user's active membership. The row survives with left_at
// set so history access keeps working. A user with no active membership,
// including one who already left, gets ErrNotFound.
func (s *ParticipantService) MarkLeft(ctx context.Context, conversationID, userID int64) (*domain.Participant, error) {
	return s.participants.SetLeft(ctx, conversationID, userID, time.Now().UTC())
}

// Active returns the user's current membership, or (nil, nil) when none.
func (s *ParticipantService) Active(ctx context.Context, conversationID, userID int64) (*domain.Participant, error) {
	return s.participants.GetActive(ctx, conversationID, userID)
}
