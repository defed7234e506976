package scalingo

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned when the upstream resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when the API token or bearer token is rejected.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidAction is returned for lifecycle actions other than restart, stop and start.
	ErrInvalidAction = errors.New("invalid action")
	// ErrOutputNotAvailable is returned when a deployment has no build output to show.
	ErrOutputNotAvailable = fmt.Errorf("deployment not found or output not available: %w", ErrNotFound)
	// ErrNoLogsURL is returned when the logs endpoint does not return a logs URL.
	ErrNoLogsURL = errors.New("no logs url returned")
)

// Error is a non-2xx response from the Scalingo API.
type Error struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("scalingo API error (%d)", e.StatusCode)
	}
	return fmt.Sprintf("scalingo API error (%d): %s", e.StatusCode, e.Body)
}

// Unwrap maps well-known status codes to sentinel errors.
func (e *Error) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return nil
	}
}

// StatusCode returns the upstream status code carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
