// Package middleware provides HTTP middleware components for the loan service API.
package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mido/loan-service/internal/auth"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the authenticated caller attached to the request context
type Identity struct {
	Username  string
	AccountID int64
	IsAdmin   bool
}

// IdentityFrom extracts the authenticated caller from the context
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// WithIdentity returns a context carrying the given caller identity.
// Exported for handler tests.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

type authErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Authenticate creates middleware that verifies the Bearer token and
// attaches the caller identity to the request context.
func Authenticate(tokens *auth.TokenManager, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "authorization header is required")
				return
			}

			tokenString := strings.TrimPrefix(header, "Bearer ")

			claims, err := tokens.Parse(tokenString)
			if err != nil {
				logger.Debug("rejected token", "error", err)
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}

			accountID, err := claims.AccountID()
			if err != nil {
				logger.Debug("rejected token subject", "error", err)
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}

			identity := Identity{
				AccountID: accountID,
				Username:  claims.Username,
				IsAdmin:   claims.IsAdmin,
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireAdmin creates middleware that rejects non-admin callers.
// It must run after Authenticate.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFrom(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
				return
			}
			if !identity.IsAdmin {
				writeAuthError(w, http.StatusForbidden, "forbidden", "admin capability required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	//nolint:errcheck // Best effort response writing
	json.NewEncoder(w).Encode(authErrorResponse{
		Error:   code,
		Message: message,
	})
}
