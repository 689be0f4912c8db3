package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/V4T54L/shopmetrics/internal/pkg/token"
	"github.com/google/uuid"
)

type contextKey string

const adminIDKey contextKey = "admin_id"

// AuthCookieName is the session cookie carried by the dashboard.
const AuthCookieName = "auth_token"

// AdminIDFromContext returns the authenticated admin id set by Auth.
func AdminIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(adminIDKey).(uuid.UUID)
	return id, ok
}

// WithAdminID returns a context carrying the admin id. Exported for handler
// tests.
func WithAdminID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, adminIDKey, id)
}

// Auth is a middleware factory that validates the session JWT from the
// Authorization header or the auth cookie and stores the admin id in the
// request context. The core trusts the id; credential issuance lives
// outside this service.
func Auth(secret string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				if cookie, err := r.Cookie(AuthCookieName); err == nil {
					raw = cookie.Value
				}
			}
			if raw == "" {
				http.Error(w, `{"msg":"Not authenticated"}`, http.StatusUnauthorized)
				return
			}

			claims, err := token.Validate(raw, secret)
			if err != nil {
				logger.Warn("invalid session token", "remote_addr", r.RemoteAddr, "error", err)
				http.Error(w, `{"msg":"Invalid or expired token"}`, http.StatusUnauthorized)
				return
			}

			ctx := WithAdminID(r.Context(), claims.AdminID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
