package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"parley/internal/domain"
	"parley/internal/security"
	"parley/internal/service"
)

func newAuthService(users *MockUserRepo) *service.AuthService {
	tokens := security.NewTokenService("test-secret", time.Hour)
	hasher := security.NewPasswordHasher(bcrypt.MinCost)
	return service.NewAuthService(users, tokens, hasher)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		users := new(MockUserRepo)
		svc := newAuthService(users)

		users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Username == "alice" && u.HashedPassword != "" && u.HashedPassword != "hunter2hunter2"
		})).Return(nil)

		user, err := svc.Register(ctx, service.RegisterInput{Username: "alice", Password: "hunter2hunter2"})

		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, "alice", user.Username)
		assert.False(t, user.CreatedAt.IsZero())
		users.AssertExpectations(t)
	})

	t.Run("UsernameTaken", func(t *testing.T) {
		users := new(MockUserRepo)
		svc := newAuthService(users)

		users.On("Create", mock.Anything, mock.Anything).Return(domain.ErrConflict)

		user, err := svc.Register(ctx, service.RegisterInput{Username: "alice", Password: "hunter2hunter2"})

		assert.Nil(t, user)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("MissingFields", func(t *testing.T) {
		users := new(MockUserRepo)
		svc := newAuthService(users)

		_, err := svc.Register(ctx, service.RegisterInput{Username: "", Password: "hunter2hunter2"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = svc.Register(ctx, service.RegisterInput{Username: "alice", Password: ""})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("PasswordTooShort", func(t *testing.T) {
		users := new(MockUserRepo)
		svc := newAuthService(users)

		_, err := svc.Register(ctx, service.RegisterInput{Username: "alice", Password: "short"})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	hasher := security.NewPasswordHasher(bcrypt.MinCost)
	hashed, _ := hasher.Hash("hunter2hunter2")
	stored := &domain.User{ID: 1, Username: "alice", HashedPassword: hashed, CreatedAt: time.Now().UTC()}

	t.Run("Success", func(t *testing.T) {
		users := new(MockUserRepo)
		svc := newAuthService(users)

		users.On("GetByUsername", mock.Anything, "alice").Return(stored, nil)

		resp, err := svc.Login(ctx, service.LoginInput{Username: "alice", Password: "hunter2hunter2"})

		assert.NoError(t, err)
		assert.NotNil(t, resp)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "bearer", resp.TokenType)
		assert.Equal(t, stored, resp.User)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		users := new(MockUserRepo)
		svc := newAuthService(users)

		users.On("GetByUsername", mock.Anything, "ghost").Return(nil, nil)

		resp, err := svc.Login(ctx, service.LoginInput{Username: "ghost", Password: "hunter2hunter2"})

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		users := new(MockUserRepo)
		svc := newAuthService(users)

		users.On("GetByUsername", mock.Anything, "alice").Return(stored, nil)

		resp, err := svc.Login(ctx, service.LoginInput{Username: "alice", Password: "not-the-password"})

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("TokenRoundTrip", func(t *testing.T) {
		users := new(MockUserRepo)
		tokens := security.NewTokenService("test-secret", time.Hour)
		svc := service.NewAuthService(users, tokens, hasher)

		users.On("GetByUsername", mock.Anything, "alice").Return(stored, nil)

		resp, err := svc.Login(ctx, service.LoginInput{Username: "alice", Password: "hunter2hunter2"})
		assert.NoError(t, err)

		subject, err := tokens.Parse(resp.AccessToken)
		assert.NoError(t, err)
		assert.Equal(t, "alice", subject)
	})
}
