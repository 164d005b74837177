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

func TestAddParticipant(t *testing.T) {
	ctx := context.Background()
	group := &domain.Conversation{ID: 5, Kind: domain.KindGroup, Name: strPtr("ops"), CreatedAt: time.Now().UTC()}

	t.Run("DefaultsToMember", func(t *testing.T) {
		convs := new(MockConversationRepo)
		parts := new(MockParticipantRepo)
		svc := service.NewParticipantService(convs, parts)

		convs.On("GetByID", mock.Anything, int64(5)).Return(group, nil)
		parts.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Participant) bool {
			return p.ConversationID == 5 && p.UserID == 9 &&
				p.Role == domain.RoleMember && !p.JoinedAt.IsZero() && p.LeftAt == nil
		})).Return(nil)

		p, err := svc.Add(ctx, 5, 9, "")

		assert.NoError(t, err)
		assert.Equal(t, domain.RoleMember, p.Role)
		parts.AssertExpectations(t)
	})

	t.Run("AdminRole", func(t *testing.T) {
		convs := new(MockConversationRepo)
		parts := new(MockParticipantRepo)
		svc := service.NewParticipantService(convs, parts)

		convs.On("GetByID", mock.Anything, int64(5)).Return(group, nil)
		parts.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Participant) bool {
			return p.Role == domain.RoleAdmin
		})).Return(nil)

		p, err := svc.Add(ctx, 5, 9, domain.RoleAdmin)

		assert.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, p.Role)
	})

	t.Run("InvalidRole", func(t *testing.T) {
		convs := new(MockConversationRepo)
		parts := new(MockParticipantRepo)
		svc := service.NewParticipantService(convs, parts)

		_, err := svc.Add(ctx, 5, 9, domain.ParticipantRole("owner"))

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		convs.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("ConversationMissing", func(t *testing.T) {
		convs := new(MockConversationRepo)
		parts := new(MockParticipantRepo)
		svc := service.NewParticipantService(convs, parts)

		convs.On("GetByID", mock.Anything, int64(404)).Return(nil, nil)

		_, err := svc.Add(ctx, 404, 9, "")

		assert.ErrorIs(t, err, domain.ErrNotFound)
		parts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("DirectConversationSealed", func(t *testing.T) {
		convs := new(MockConversationRepo)
		parts := new(MockParticipantRepo)
		svc := service.NewParticipantService(convs, parts)

		direct := &domain.Conversation{ID: 2, Kind: domain.KindDirect}
		convs.On("GetByID", mock.Anything, int64(2)).Return(direct, nil)

		_, err := svc.Add(ctx, 2, 9, "")

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		parts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("ActiveDuplicateConflicts", func(t *testing.T) {
		convs := new(MockConversationRepo)
		parts := new(MockParticipantRepo)
		svc := service.NewParticipantService(convs, parts)

		convs.On("GetByID", mock.Anything, int64(5)).Return(group, nil)
		parts.On("Create", mock.Anything, mock.Anything).Return(domain.ErrConflict)

		_, err := svc.Add(ctx, 5, 9, "")

		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestMarkLeft(t *testing.T) {
	ctx := context.Background()

	t.Run("ClosesMembership", func(t *testing.T) {
		convs := new(MockConversationRepo)
		parts := new(MockParticipantRepo)
		svc := service.NewParticipantService(convs, parts)

		left := time.Now().UTC()
		closed := &domain.Participant{ID: 1, ConversationID: 5, UserID: 9, Role: domain.RoleMember, LeftAt: &left}
		parts.On("SetLeft", mock.Anything, int64(5), int64(9), mock.AnythingOfType("time.Time")).
			Return(closed, nil)

		p, err := svc.MarkLeft(ctx, 5, 9)

		assert.NoError(t, err)
		assert.NotNil(t, p.LeftAt)
	})

	t.Run("NoActiveRow", func(t *testing.T) {
		convs := new(MockConversationRepo)
		parts := new(MockParticipantRepo)
		svc := service.NewParticipantService(convs, parts)

		parts.On("SetLeft", mock.Anything, int64(5), int64(9), mock.AnythingOfType("time.Time")).
			Return(nil, domain.ErrNotFound)

		_, err := svc.MarkLeft(ctx, 5, 9)

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
