package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"parley/internal/domain"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockConversationRepo struct {
	mock.Mock
}

func (m *MockConversationRepo) Create(ctx context.Context, c *domain.Conversation, participants []*domain.Participant) error {
	args := m.Called(ctx, c, participants)
	return args.Error(0)
}

func (m *MockConversationRepo) GetByID(ctx context.Context, id int64) (*domain.Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *MockConversationRepo) ListForUser(ctx context.Context, userID int64) ([]*domain.ConversationSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ConversationSummary), args.Error(1)
}

type MockParticipantRepo struct {
	mock.Mock
}

func (m *MockParticipantRepo) Create(ctx context.Context, p *domain.Participant) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockParticipantRepo) ListForConversation(ctx context.Context, conversationID int64) ([]*domain.Participant, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Participant), args.Error(1)
}

func (m *MockParticipantRepo) GetActive(ctx context.Context, conversationID, userID int64) (*domain.Participant, error) {
	args := m.Called(ctx, conversationID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Participant), args.Error(1)
}

func (m *MockParticipantRepo) HasAny(ctx context.Context, conversationID, userID int64) (bool, error) {
	args := m.Called(ctx, conversationID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockParticipantRepo) SetLeft(ctx context.Context, conversationID, userID int64, when time.Time) (*domain.Participant, error) {
	args := m.Called(ctx, conversationID, userID, when)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Participant), args.Error(1)
}

type MockMessageRepo struct {
	mock.Mock
}

func (m *MockMessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageRepo) GetByID(ctx context.Context, id int64) (*domain.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *MockMessageRepo) ListPage(ctx context.Context, conversationID int64, before *domain.MessageCursor, limit int) ([]*domain.Message, error) {
	args := m.Called(ctx, conversationID, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Message), args.Error(1)
}

type MockReactionRepo struct {
	mock.Mock
}

func (m *MockReactionRepo) Create(ctx context.Context, r *domain.Reaction) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReactionRepo) Delete(ctx context.Context, messageID, userID int64, emoji string) (*domain.Reaction, error) {
	args := m.Called(ctx, messageID, userID, emoji)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reaction), args.Error(1)
}

func (m *MockReactionRepo) ListForMessages(ctx context.Context, messageIDs []int64) ([]*domain.Reaction, error) {
	args := m.Called(ctx, messageIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Reaction), args.Error(1)
}

type MockBookmarkRepo struct {
	mock.Mock
}

func (m *MockBookmarkRepo) Create(ctx context.Context, b *domain.Bookmark) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookmarkRepo) Delete(ctx context.Context, messageID, userID int64) (*domain.Bookmark, error) {
	args := m.Called(ctx, messageID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bookmark), args.Error(1)
}

func (m *MockBookmarkRepo) ListForUser(ctx context.Context, userID int64) ([]*domain.BookmarkedMessage, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.BookmarkedMessage), args.Error(1)
}
