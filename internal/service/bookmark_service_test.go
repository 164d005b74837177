package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"parley/internal/domain"
	"parley/internal/service"
)

func TestAddBookmark(t *testing.T) {
	ctx := context.Background()
	sender := int64(2)
	msg := &domain.Message{ID: 41, ConversationID: 5, SenderID: &sender, Text: "keep this", CreatedAt: time.Now().UTC()}

	t.Run("Success", func(t *testing.T) {
		msgs := new(MockMessageRepo)
		marks := new(MockBookmarkRepo)
		svc := service.NewBookmarkService(msgs, marks)

		msgs.On("GetByID", mock.Anything, int64(41)).Return(msg, nil)
		marks.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Bookmark) bool {
			return b.MessageID == 41 && b.UserID == 9 && !b.CreatedAt.IsZero()
		})).Return(nil)

		b, err := svc.Add(ctx, 41, 9)

		assert.NoError(t, err)
		assert.Equal(t, int64(41), b.MessageID)
		marks.AssertExpectations(t)
	})

	t.Run("MessageMissing", func(t *testing.T) {
		msgs := new(MockMessageRepo)
		marks := new(MockBookmarkRepo)
		svc := service.NewBookmarkService(msgs, marks)

		msgs.On("GetByID", mock.Anything, int64(404)).Return(nil, nil)

		_, err := svc.Add(ctx, 404, 9)

		assert.ErrorIs(t, err, domain.ErrNotFound)
		marks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("DuplicateConflicts", func(t *testing.T) {
		msgs := new(MockMessageRepo)
		marks := new(MockBookmarkRepo)
		svc := service.NewBookmarkService(msgs, marks)

		msgs.On("GetByID", mock.Anything, int64(41)).Return(msg, nil)
		marks.On("Create", mock.Anything, mock.Anything).Return(domain.ErrConflict)

		_, err := svc.Add(ctx, 41, 9)

		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestRemoveBookmark(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		msgs := new(MockMessageRepo)
		marks := new(MockBookmarkRepo)
		svc := service.NewBookmarkService(msgs, marks)

		removed := &domain.Bookmark{MessageID: 41, UserID: 9, CreatedAt: time.Now().UTC()}
		marks.On("Delete", mock.Anything, int64(41), int64(9)).Return(removed, nil)

		b, err := svc.Remove(ctx, 41, 9)

		assert.NoError(t, err)
		assert.Equal(t, removed, b)
	})

	t.Run("AbsentBookmark", func(t *testing.T) {
		msgs := new(MockMessageRepo)
		marks := new(MockBookmarkRepo)
		svc := service.NewBookmarkService(msgs, marks)

		marks.On("Delete", mock.Anything, int64(41), int64(9)).Return(nil, domain.ErrNotFound)

		_, err := svc.Remove(ctx, 41, 9)

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestListBookmarksForUser(t *testing.T) {
	ctx := context.Background()
	msgs := new(MockMessageRepo)
	marks := new(MockBookmarkRepo)
	svc := service.NewBookmarkService(msgs, marks)

	now := time.Now().UTC()
	sender := int64(2)
	saved := []*domain.BookmarkedMessage{
		{
			Bookmark: domain.Bookmark{MessageID: 41, UserID: 9, CreatedAt: now},
			Message:  domain.Message{ID: 41, ConversationID: 5, SenderID: &sender, Text: "keep this", CreatedAt: now.Add(-time.Hour)},
		},
	}
	marks.On("ListForUser", mock.Anything, int64(9)).Return(saved, nil)

	got, err := svc.ListForUser(ctx, 9)

	assert.NoError(t, err)
	assert.Equal(t, saved, got)
}
