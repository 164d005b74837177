package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"parley/internal/domain"
)

const maxEmojiRunes = 32

// ReactionService owns attaching and removing emoji reactions.
type ReactionService struct {
	messages  domain.MessageRepository
	reactions domain.ReactionRepository
}

func NewReactionService(messages domain.MessageRepository, reactions domain.ReactionRepository) *ReactionService {
	return &ReactionService{
		messages:  messages,
		reactions: reactions,
	}
}

// Add attaches emoji to the message for userID. The same user re-adding the
// same emoji fails with ErrConflict; remove first to toggle.
func (s *ReactionService) Add(ctx context.Context, messageID, userID int64, emoji string) (*domain.Reaction, error) {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return nil, fmt.Errorf("%w: emoji cannot be empty", domain.ErrInvalidInput)
	}
	if len([]rune(emoji)) > maxEmojiRunes {
		return nil, fmt.Errorf("%w: emoji must be a single emoji or a short code", domain.ErrInvalidInput)
	}

	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, fmt.Errorf("message %d: %w", messageID, domain.ErrNotFound)
	}

	r := &domain.Reaction{
		MessageID: messageID,
		UserID:    userID,
		Emoji:     emoji,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.reactions.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Remove deletes the user's exact reaction and returns it as the
// acknowledgement. ErrNotFound when it never existed, message included.
func (s *ReactionService) Remove(ctx context.Context, messageID, userID int64, emoji string) (*domain.Reaction, error) {
	return s.reactions.Delete(ctx, messageID, userID, strings.TrimSpace(emoji))
}
