package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/narvanalabs/scalingo-dashboard/internal/api/middleware"
	"github.com/narvanalabs/scalingo-dashboard/internal/session"
)

// AuthHandler handles dashboard sign-in.
type AuthHandler struct {
	sessions     *session.Manager
	secureCookie bool
	logger       *slog.Logger
}

// NewAuthHandler creates a new auth handler. secureCookie marks the session
// cookie Secure and should be set when the dashboard is served over TLS.
func NewAuthHandler(sessions *session.Manager, secureCookie bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		sessions:     sessions,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

// LoginRequest is the body of a login call.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued session token.
type LoginResponse struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login handles POST /auth/login. It accepts a JSON body or a form post and
// sets the auth-token cookie on success.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteBadRequest(w, r, "Invalid request body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			WriteBadRequest(w, r, "Invalid request body")
			return
		}
		req.Email = r.PostFormValue("email")
		req.Password = r.PostFormValue("password")
	}

	if req.Email == "" || req.Password == "" {
		WriteBadRequest(w, r, "email and password required")
		return
	}

	token, claims, err := h.sessions.Login(req.Email, req.Password)
	if err != nil {
		WriteServiceError(w, r, h.logger, "login failed", err)
		return
	}

	session.SetCookie(w, token, claims.ExpiresAt, h.secureCookie)
	h.logger.Info("user signed in", "email", claims.Email)

	WriteJSON(w, http.StatusOK, LoginResponse{
		Token:     token,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt,
	})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session.ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /auth/me and returns the signed-in user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		WriteUnauthorized(w, r, "Unauthorized - Authentication required")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"email":      claims.Email,
		"expires_at": claims.ExpiresAt,
	})
}
