package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	h "conferencescheduler/internal/delivery/http/helpers"
	"conferencescheduler/internal/domain"
)

type contextKey string

const (
	usernameKey  contextKey = "username"
	requestIDKey contextKey = "requestID"
)

// SetUsername returns a context carrying the authenticated username.
func SetUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey, username)
}

// UsernameFromContext returns the authenticated username, if present.
func UsernameFromContext(ctx context.Context) (string, bool) {
	u, ok := ctx.Value(usernameKey).(string)
	return u, ok && u != ""
}

// RequireAuth validates the Bearer token and puts the username in the request context.
// If the token is missing or invalid, it responds with 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authorization header")
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing token")
				return
			}
			username, err := verifier.Verify(token)
			if err != nil {
				logger.DebugContext(r.Context(), "token rejected", "err", err)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			next(w, r.WithContext(SetUsername(r.Context(), username)))
		}
	}
}

// AccountLookup resolves the account behind an authenticated username.
type AccountLookup interface {
	Get(ctx context.Context, username string) (*domain.Account, error)
}

// RequireAccountType lets the request through only when the authenticated account has one
// of the given types. It must run inside RequireAuth.
func RequireAccountType(accounts AccountLookup, logger *slog.Logger, types ...domain.AccountType) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			username, ok := UsernameFromContext(r.Context())
			if !ok {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
				return
			}
			account, err := accounts.Get(r.Context(), username)
			if err != nil {
				// the token outlived its account, e.g. across a restore without a snapshot
				logger.WarnContext(r.Context(), "account lookup failed", "username", username, "err", err)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unknown account")
				return
			}
			if !slices.Contains(types, account.Type) {
				h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, string(account.Type)+" accounts may not do this")
				return
			}
			next(w, r)
		}
	}
}
