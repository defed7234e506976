package logs

import (
	"strings"
	"sync"

	"github.com/narvanalabs/scalingo-dashboard/internal/models"
)

const (
	// DefaultMaxLines is the default maximum number of log entries to keep.
	DefaultMaxLines = 1000
)

// Container maintains a bounded collection of log entries for one application
// together with the raw window last fetched from upstream.
type Container struct {
	mu       sync.RWMutex
	entries  []models.LogEntry
	window   []string
	maxLines int
}

// NewContainer creates a new log container with the specified max lines.
func NewContainer(maxLines int) *Container {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}
	return &Container{
		entries:  make([]models.LogEntry, 0, maxLines),
		maxLines: maxLines,
	}
}

// Fresh records raw as the latest upstream window and returns the lines that
// were not part of the previous window. Upstream always returns the tail of the
// log, so the new lines are whatever follows the longest overlap between the
// end of the previous window and the start of this one.
func (c *Container) Fresh(raw string) []string {
	lines := splitLines(raw)

	c.mu.Lock()
	defer c.mu.Unlock()

	overlap := overlapLen(c.window, lines)
	c.window = lines
	return lines[overlap:]
}

// Add adds log entries to the container.
// If the container is at capacity, the oldest entries are removed.
func (c *Container) Add(entries ...models.LogEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, entry := range entries {
		if len(c.entries) >= c.maxLines {
			// Remove the oldest 10% to avoid frequent removals
			removeCount := c.maxLines / 10
			if removeCount < 1 {
				removeCount = 1
			}
			c.entries = c.entries[removeCount:]
		}
		c.entries = append(c.entries, entry)
	}
}

// Entries returns a copy of the stored entries, oldest first.
func (c *Container) Entries() []models.LogEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.LogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of stored entries.
func (c *Container) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// splitLines returns the non-blank lines of raw.
func splitLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// overlapLen returns the largest k such that the last k lines of prev equal
// the first k lines of next.
func overlapLen(prev, next []string) int {
	k := len(prev)
	if len(next) < k {
		k = len(next)
	}
	for ; k > 0; k-- {
		if equalLines(prev[len(prev)-k:], next[:k]) {
			return k
		}
	}
	return 0
}

func equalLines(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
