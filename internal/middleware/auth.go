// Package middleware provides HTTP middleware for authentication, response
// caching, and rate limiting.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/contactd/contactd/internal/domain/user"
)

type authUserCtxKey struct{}

// TokenValidator verifies a bearer token and returns its claims.
// *service.AuthService satisfies this.
type TokenValidator interface {
	ValidateAccessToken(token string) (*user.TokenClaims, error)
}

// Auth returns middleware that validates a Bearer access token and injects
// the authenticated user into the request context. It runs before the
// response cache, so unauthenticated requests never touch cached data.
func Auth(authSvc TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, `{"error":"authorization required"}`, http.StatusUnauthorized)
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == authHeader {
				http.Error(w, `{"error":"invalid authorization header"}`, http.StatusUnauthorized)
				return
			}

			claims, err := authSvc.ValidateAccessToken(token)
			if err != nil {
				http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusUnauthorized)
				return
			}

			u := &user.User{
				ID:       claims.UserID,
				Username: claims.Username,
				Email:    claims.Email,
				Role:     claims.Role,
			}
			ctx := context.WithValue(r.Context(), authUserCtxKey{}, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin returns middleware that rejects non-admin users. It must run
// after Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		if !ok || u.Role != user.RoleAdmin {
			http.Error(w, `{"error":"admin access required"}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext returns the authenticated user set by Auth.
func UserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(authUserCtxKey{}).(*user.User)
	return u, ok
}

// ContextWithUser injects a user, for handler tests that bypass Auth.
func ContextWithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, authUserCtxKey{}, u)
}
