package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	apierrors "github.com/narvanalabs/scalingo-dashboard/internal/api/errors"
	"github.com/narvanalabs/scalingo-dashboard/internal/session"
	"github.com/narvanalabs/scalingo-dashboard/pkg/logger"
)

type contextKey string

// ClaimsKey is the context key for the validated session claims.
const ClaimsKey contextKey = "session_claims"

// GetClaims extracts the session claims from the request context.
func GetClaims(ctx context.Context) *session.Claims {
	if v, ok := ctx.Value(ClaimsKey).(*session.Claims); ok {
		return v
	}
	return nil
}

// GetActor returns the email of the signed-in user, or "".
func GetActor(ctx context.Context) string {
	if c := GetClaims(ctx); c != nil {
		return c.Email
	}
	return ""
}

// AuthMiddleware validates dashboard session tokens.
type AuthMiddleware struct {
	sessions *session.Manager
	logger   *slog.Logger
}

// NewAuthMiddleware creates a new authentication middleware.
func NewAuthMiddleware(sessions *session.Manager, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions, logger: logger}
}

func (m *AuthMiddleware) claims(r *http.Request) (*session.Claims, error) {
	token := session.TokenFromRequest(r)
	if token == "" {
		return nil, session.ErrInvalidToken
	}
	return m.sessions.Validate(token)
}

func withClaims(r *http.Request, claims *session.Claims) *http.Request {
	ctx := context.WithValue(r.Context(), ClaimsKey, claims)
	ctx = logger.ContextWithActor(ctx, claims.Email)
	return r.WithContext(ctx)
}

// Authenticate rejects API requests without a valid session token.
// The token may come from a Bearer header, the auth-token cookie or the
// X-Auth-Token header.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if session.TokenFromRequest(r) == "" {
			apierrors.WriteError(w, apierrors.NewUnauthorizedError("Unauthorized - Authentication required"))
			return
		}
		claims, err := m.claims(r)
		if err != nil {
			m.logger.Debug("session validation failed", "error", err, "path", r.URL.Path)
			if errors.Is(err, session.ErrExpiredToken) {
				apierrors.WriteError(w, apierrors.NewUnauthorizedError("Token has expired"))
				return
			}
			apierrors.WriteError(w, apierrors.NewUnauthorizedError("Invalid token"))
			return
		}
		next.ServeHTTP(w, withClaims(r, claims))
	})
}

// RequireSession redirects page requests without a valid session to loginPath.
func (m *AuthMiddleware) RequireSession(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := m.claims(r)
			if err != nil {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, withClaims(r, claims))
		})
	}
}
