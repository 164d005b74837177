package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"parley/internal/domain"
	"parley/internal/security"
	"parley/internal/service"
)

type contextKey string

const userContextKey contextKey = "currentUser"

// WithUser returns a new context carrying the current user.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// CurrentUser extracts the current user from context, if any.
func CurrentUser(r *http.Request) *domain.User {
	if u, ok := r.Context().Value(userContextKey).(*domain.User); ok {
		return u
	}
	return nil
}

// AuthMiddleware validates the Bearer token and attaches the account to the
// request context.
func AuthMiddleware(tokens *security.TokenService, auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
				writeError(w, r, fmt.Errorf("%w: missing or invalid Authorization header", domain.ErrUnauthorized))
				return
			}
			tokenStr := strings.TrimSpace(header[len("Bearer "):])

			username, err := tokens.Parse(tokenStr)
			if err != nil {
				writeError(w, r, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized))
				return
			}

			user, err := auth.UserByUsername(r.Context(), username)
			if err != nil {
				writeError(w, r, err)
				return
			}
			if user == nil {
				// Token subject outlived the account.
				writeError(w, r, fmt.Errorf("%w: unknown account", domain.ErrUnauthorized))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}
