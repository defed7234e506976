package scalingo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultBearerTTL is used when the exchanged bearer carries no expiry.
	DefaultBearerTTL = 30 * time.Minute
	// refreshMargin is how long before expiry a bearer is considered stale.
	refreshMargin = time.Minute
)

// ErrNoAPIToken is returned when exchanging without an API token.
var ErrNoAPIToken = errors.New("scalingo API token is not set")

// TokenProvider supplies bearer tokens for API requests.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenProvider returning a fixed bearer.
type StaticToken string

// Token implements TokenProvider.
func (s StaticToken) Token(context.Context) (string, error) {
	return string(s), nil
}

type exchangeResponse struct {
	Token string `json:"token"`
}

// TokenSource exchanges a personal API token for short-lived bearer tokens
// and caches them until shortly before they expire. It is safe for concurrent use.
type TokenSource struct {
	apiToken string
	http     *resty.Client
	now      func() time.Time

	mu        sync.RWMutex
	bearer    string
	expiresAt time.Time
}

// NewTokenSource creates a TokenSource exchanging apiToken at authURL.
func NewTokenSource(authURL, apiToken string, timeout time.Duration) *TokenSource {
	client := resty.New().
		SetBaseURL(strings.TrimRight(authURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	return &TokenSource{
		apiToken: apiToken,
		http:     client,
		now:      time.Now,
	}
}

// HTTPClient returns the underlying resty client.
func (ts *TokenSource) HTTPClient() *resty.Client {
	return ts.http
}

// Token returns a valid bearer token, exchanging the API token when the cached
// bearer is missing or about to expire.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.RLock()
	if ts.valid() {
		bearer := ts.bearer
		ts.mu.RUnlock()
		return bearer, nil
	}
	ts.mu.RUnlock()

	ts.mu.Lock()
	defer ts.mu.Unlock()

	// Double-check after acquiring write lock
	if ts.valid() {
		return ts.bearer, nil
	}

	bearer, err := ts.exchange(ctx)
	if err != nil {
		return "", err
	}

	ts.bearer = bearer
	ts.expiresAt = ts.expiry(bearer)
	return bearer, nil
}

// Invalidate drops the cached bearer so the next call exchanges again.
func (ts *TokenSource) Invalidate() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.bearer = ""
	ts.expiresAt = time.Time{}
}

func (ts *TokenSource) valid() bool {
	return ts.bearer != "" && ts.now().Before(ts.expiresAt.Add(-refreshMargin))
}

func (ts *TokenSource) exchange(ctx context.Context) (string, error) {
	if ts.apiToken == "" {
		return "", ErrNoAPIToken
	}

	resp, err := ts.http.R().
		SetContext(ctx).
		SetBasicAuth("", ts.apiToken).
		SetResult(&exchangeResponse{}).
		Post("/v1/tokens/exchange")
	if err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("token exchange: %w", &Error{StatusCode: resp.StatusCode(), Body: string(resp.Body())})
	}

	result := resp.Result().(*exchangeResponse)
	if result.Token == "" {
		return "", fmt.Errorf("token exchange: empty token in response")
	}
	return result.Token, nil
}

// expiry reads the exp claim of bearer without verifying its signature.
func (ts *TokenSource) expiry(bearer string) time.Time {
	token, _, err := jwt.NewParser().ParseUnverified(bearer, jwt.MapClaims{})
	if err == nil {
		if exp, err := token.Claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}
	return ts.now().Add(DefaultBearerTTL)
}
