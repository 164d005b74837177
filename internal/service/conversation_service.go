package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"parley/internal/domain"
)

// ConversationService owns the conversation shape rules and retrieval.
type ConversationService struct {
	conversations domain.ConversationRepository
	participants  domain.ParticipantRepository
}

func NewConversationService(
	conversations domain.ConversationRepository,
	participants domain.ParticipantRepository,
) *ConversationService {
	return &ConversationService{
		conversations: conversations,
		participants:  participants,
	}
}

type ConversationCreateInput struct {
	Kind           domain.ConversationKind
	Name           *string
	ParticipantIDs []int64
}

// Create validates the shape rules and persists the conversation together
// with one active member row per participant, atomically.
//
// Direct conversations take exactly two participants and no name; group
// conversations take two or more participants and a required name.
func (s *ConversationService) Create(ctx context.Context, in ConversationCreateInput) (*domain.Conversation, error) {
	if !in.Kind.Valid() {
		return nil, fmt.Errorf("%w: kind must be direct or group", domain.ErrInvalidInput)
	}

	// participantIDs is a set; duplicates collapse, first occurrence wins.
	uniqueIDs := make([]int64, 0, len(in.ParticipantIDs))
	seen := make(map[int64]struct{}, len(in.ParticipantIDs))
	for _, id := range in.ParticipantIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniqueIDs = append(uniqueIDs, id)
	}

	switch in.Kind {
	case domain.KindDirect:
		if len(uniqueIDs) != 2 {
			return nil, fmt.Errorf("%w: direct conversations need exactly two participants", domain.ErrInvalidInput)
		}
		if in.Name != nil {
			return nil, fmt.Errorf("%w: direct conversations cannot be named", domain.ErrInvalidInput)
		}
	case domain.KindGroup:
		if len(uniqueIDs) < 2 {
			return nil, fmt.Errorf("%w: group conversations need at least two participants", domain.ErrInvalidInput)
		}
		if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
			return nil, fmt.Errorf("%w: group conversations require a name", domain.ErrInvalidInput)
		}
	}

	now := time.Now().UTC()
	conv := &domain.Conversation{
		Kind:      in.Kind,
		Name:      in.Name,
		CreatedAt: now,
	}
	members := make([]*domain.Participant, len(uniqueIDs))
	for i, id := range uniqueIDs {
		members[i] = &domain.Participant{
			UserID:   id,
			Role:     domain.RoleMember,
			JoinedAt: now,
		}
	}

	if err := s.conversations.Create(ctx, conv, members); err != nil {
		return nil, err
	}
	return conv, nil
}

// Get returns the conversation with its full participant history, the rows of
// members who left included.
func (s *ConversationService) Get(ctx context.Context, conversationID int64) (*domain.ConversationDetail, error) {
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, fmt.Errorf("conversation %d: %w", conversationID, domain.ErrNotFound)
	}

	parts, err := s.participants.ListForConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	return &domain.ConversationDetail{
		Conversation: *conv,
		Participants: parts,
	}, nil
}

// ListForUser returns the caller's active conversations, most recently
// active first.
func (s *ConversationService) ListForUser(ctx context.Context, userID int64) ([]*domain.ConversationSummary, error) {
	return s.conversations.ListForUser(ctx, userID)
}
