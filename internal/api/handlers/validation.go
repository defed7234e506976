package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"

	"github.com/narvanalabs/scalingo-dashboard/internal/scalingo"
)

// Limits of numeric query parameters.
const (
	MaxPage  = 1000
	MaxLines = 1000
	MaxLimit = 100
)

var (
	applicationIDPattern = regexp.MustCompile(
		`^[a-fA-F0-9]{8}-[a-fA-F0-9]{4}-[a-fA-F0-9]{4}-[a-fA-F0-9]{4}-[a-fA-F0-9]{12}$` +
			`|^[a-fA-F0-9]{24}$` +
			`|^[a-zA-Z0-9_-]{6,50}$`)
	deploymentIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// ValidApplicationID reports whether id looks like a Scalingo application ID:
// a UUID, a 24 character hex ObjectId or 6 to 50 URL-safe characters.
func ValidApplicationID(id string) bool {
	return len(id) >= 6 && len(id) <= 50 && applicationIDPattern.MatchString(id)
}

// ValidDeploymentID reports whether id is a non-empty run of URL-safe characters.
func ValidDeploymentID(id string) bool {
	return deploymentIDPattern.MatchString(id)
}

// queryInt reads the integer parameter name from q. A missing or empty value
// yields def; anything else must be an integer in [min, max].
func queryInt(q url.Values, name string, def, min, max int) (int, bool) {
	raw := q.Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		return 0, false
	}
	return n, true
}

func rangeMessage(name string, min, max int) string {
	return fmt.Sprintf("Bad Request - Invalid %s parameter (must be between %d and %d)", name, min, max)
}

func scalingoNotFound(err error) bool {
	return errors.Is(err, scalingo.ErrNotFound)
}
