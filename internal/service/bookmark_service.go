package service

import (
	"context"
	"fmt"
	"time"

	"parley/internal/domain"
)

// BookmarkService owns per-user message saves. Bookmarks are private: every
// operation is keyed by the calling user and nothing here is visible to
// anyone else.
type BookmarkService struct {
	messages  domain.MessageRepository
	bookmarks domain.BookmarkRepository
}

func NewBookmarkService(messages domain.MessageRepository, bookmarks domain.BookmarkRepository) *BookmarkService {
	return &BookmarkService{
		messages:  messages,
		bookmarks: bookmarks,
	}
}

// Add saves the message for userID. Saving twice fails with ErrConflict.
func (s *BookmarkService) Add(ctx context.Context, messageID, userID int64) (*domain.Bookmark, error) {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, fmt.Errorf("message %d: %w", messageID, domain.ErrNotFound)
	}

	b := &domain.Bookmark{
		MessageID: messageID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.bookmarks.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Remove drops the user's bookmark on the message, or ErrNotFound.
func (s *BookmarkService) Remove(ctx context.Context, messageID, userID int64) (*domain.Bookmark, error) {
	return s.bookmarks.Delete(ctx, messageID, userID)
}

// ListForUser returns the user's saved messages, most recently saved first.
func (s *BookmarkService) ListForUser(ctx context.Context, userID int64) ([]*domain.BookmarkedMessage, error) {
	return s.bookmarks.ListForUser(ctx, userID)
}
