// Package session provides dashboard login and signed session tokens.
package session

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Where session tokens are looked up on incoming requests.
const (
	CookieName = "auth-token"
	HeaderName = "X-Auth-Token"
)

// Common errors returned by the session manager.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrMissingClaims      = errors.New("missing required claims")
)

// Claims identifies the signed-in user of a session.
type Claims struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Config holds session configuration.
type Config struct {
	Secret            []byte
	Expiry            time.Duration
	AdminEmail        string
	AdminPasswordHash string
}

// Manager issues and validates dashboard sessions.
type Manager struct {
	secret       []byte
	expiry       time.Duration
	adminEmail   string
	passwordHash []byte
	logger       *slog.Logger
	now          func() time.Time
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// NewManager creates a new session manager.
func NewManager(cfg Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		secret:       cfg.Secret,
		expiry:       cfg.Expiry,
		adminEmail:   strings.ToLower(strings.TrimSpace(cfg.AdminEmail)),
		passwordHash: []byte(cfg.AdminPasswordHash),
		logger:       logger,
		now:          time.Now,
	}
}

// Login checks the credentials against the configured administrator and
// returns a signed session token.
func (m *Manager) Login(email, password string) (string, *Claims, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(m.adminEmail)) == 1
	pwErr := bcrypt.CompareHashAndPassword(m.passwordHash, []byte(password))

	if !emailOK || pwErr != nil || m.adminEmail == "" {
		m.logger.Warn("login rejected", "email", email)
		return "", nil, ErrInvalidCredentials
	}

	return m.Issue(email)
}

// Issue creates a session token for email.
func (m *Manager) Issue(email string) (string, *Claims, error) {
	if email == "" {
		return "", nil, ErrMissingClaims
	}

	now := m.now()
	exp := now.Add(m.expiry)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		m.logger.Error("failed to sign session", "error", err)
		return "", nil, fmt.Errorf("signing session: %w", err)
	}

	return signed, &Claims{Email: email, ExpiresAt: time.Unix(exp.Unix(), 0)}, nil
}

// Validate checks a session token and returns its claims.
func (m *Manager) Validate(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Email == "" {
		return nil, ErrMissingClaims
	}

	return &Claims{Email: claims.Email, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// TokenFromRequest returns the session token carried by r, looking at the
// Authorization bearer, the auth-token cookie and the X-Auth-Token header in turn.
func TokenFromRequest(r *http.Request) string {
	if token := ExtractBearerToken(r.Header.Get("Authorization")); token != "" {
		return token
	}
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return strings.TrimSpace(r.Header.Get(HeaderName))
}

// ExtractBearerToken extracts the token from a Bearer authorization header.
func ExtractBearerToken(authHeader string) string {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// SetCookie stores token in the session cookie.
func SetCookie(w http.ResponseWriter, token string, expires time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// HashPassword returns the bcrypt hash to put in DASHBOARD_ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}
