// Package middleware guards protected routes: it verifies the session
// token, resolves the user through the cache-aside protocol, and attaches
// the identity to the request context.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danial-baraty/express-todo-api/internal/server/auth"
	"github.com/danial-baraty/express-todo-api/internal/server/cache"
	"github.com/danial-baraty/express-todo-api/internal/server/users"
)

// TokenCookie is the cookie carrying the session token. The
// Authorization Bearer header is the fallback transport; the cookie wins
// when both are present.
const TokenCookie = "jwt"

// UserCache is the slice of the session cache the gate needs. It is
// satisfied by *cache.UserCache.
type UserCache interface {
	Lookup(ctx context.Context, id string) (*users.User, cache.LookupState, error)
	Put(ctx context.Context, user *users.User) error
}

type userContextKey struct{}

// UserFromContext returns the identity attached by Guard. Downstream
// handlers can rely on ok being true behind the middleware.
func UserFromContext(ctx context.Context) (*users.User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*users.User)
	return user, ok
}

// Guard returns middleware enforcing the authentication gate: token
// extraction, verification, and user resolution via cache with
// degrade-to-store fallback.
//
// The cache is repopulated only after a confirmed miss, never after the
// cache just demonstrated it is unreachable; repopulation failures are
// logged and swallowed. A request is never rejected solely because the
// cache was down, provided the store lookup succeeds.
func Guard(tokens *auth.Manager, userCache UserCache, repo users.Repository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extractToken(r)
			if !ok {
				reject(w, http.StatusUnauthorized, "Not authorized, token missing.")
				return
			}

			userID, err := tokens.Verify(token)
			if err != nil {
				// Expired, bad signature, and malformed all read the
				// same to the caller.
				logger.Debug("token rejected", "error", err)
				reject(w, http.StatusUnauthorized, "Invalid or expired token.")
				return
			}

			ctx := r.Context()
			user, state, err := userCache.Lookup(ctx, userID)
			if err != nil {
				logger.Warn("cache lookup failed, falling back to store", "error", err)
			}

			if state != cache.Hit {
				user, err = repo.GetByID(ctx, userID)
				if err != nil {
					if errors.Is(err, users.ErrNotFound) {
						// Token was structurally valid but the subject is
						// gone; same class as an invalid token.
						reject(w, http.StatusUnauthorized, "User not found.")
						return
					}
					logger.Error("store lookup failed", "userId", userID, "error", err)
					reject(w, http.StatusInternalServerError, "Internal server error.")
					return
				}

				if state == cache.Miss {
					if err := userCache.Put(ctx, user); err != nil {
						logger.Warn("cache repopulation failed", "userId", userID, "error", err)
					}
				}
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, userContextKey{}, user)))
		})
	}
}

func extractToken(r *http.Request) (string, bool) {
	if c, err := r.Cookie(TokenCookie); err == nil && c.Value != "" {
		return c.Value, true
	}
	return bearerToken(r.Header.Get("Authorization"))
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}

func reject(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
