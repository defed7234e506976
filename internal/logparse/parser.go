// Package logparse turns raw Scalingo log output into structured log entries.
//
// Lines in the router format
//
//	2025-07-15 12:10:47.951404 +0200 CEST [web-1] Database connection established
//
// are split into their time, instance and message. Any other line is kept
// verbatim with a best-effort source and time, so no line is ever dropped.
package logparse

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/narvanalabs/scalingo-dashboard/internal/models"
)

var (
	// date, time.fraction, offset, zone name, [instance], message
	linePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2}\.\d+)\s+([+-]\d{4})\s+(\w+)\s+\[([^\]]+)\]\s+(.*)$`)

	instancePattern = regexp.MustCompile(`\[([^\]]+)\]`)
	clockPattern    = regexp.MustCompile(`(\d{2}:\d{2}:\d{2})`)
)

var (
	errorKeywords = []string{"error", "failed", "exception"}
	warnKeywords  = []string{"warn", "warning", "deprecated"}
)

// Parser parses raw log text. The zero value is ready to use.
type Parser struct {
	// Now supplies the time recorded for lines carrying no time of their own.
	// Defaults to time.Now.
	Now func() time.Time

	// NewID generates entry identifiers. Defaults to uuid.NewString.
	NewID func() string
}

var defaultParser = &Parser{}

// Parse parses raw with the wall clock as the fallback time source.
func Parse(raw string) []models.LogEntry {
	return defaultParser.Parse(raw)
}

// Parse converts raw into one entry per non-blank line, in input order.
// A line is blank when it holds only whitespace; blank lines produce no
// entry. Whitespace-only input yields an empty, non-nil slice.
func (p *Parser) Parse(raw string) []models.LogEntry {
	entries := []models.LogEntry{}
	if strings.TrimSpace(raw) == "" {
		return entries
	}

	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entries = append(entries, p.parseLine(line))
	}
	return entries
}

func (p *Parser) parseLine(line string) models.LogEntry {
	if m := linePattern.FindStringSubmatch(line); m != nil {
		message := strings.TrimSpace(m[5])
		return models.LogEntry{
			ID:        p.newID(),
			Timestamp: clockOf(m[1]),
			Level:     ClassifyLevel(message),
			Message:   message,
			Source:    "[" + m[4] + "]",
		}
	}

	source := models.UnknownSource
	if m := instancePattern.FindStringSubmatch(line); m != nil {
		source = "[" + m[1] + "]"
	}

	timestamp := p.now().Format("15:04:05")
	if m := clockPattern.FindStringSubmatch(line); m != nil {
		timestamp = m[1]
	}

	return models.LogEntry{
		ID:        p.newID(),
		Timestamp: timestamp,
		Level:     models.LogLevelInfo,
		Message:   strings.TrimSpace(line),
		Source:    source,
	}
}

// ClassifyLevel infers a coarse level from keywords in message.
// Error keywords win over warning keywords; anything else is info.
func ClassifyLevel(message string) models.LogLevel {
	lower := strings.ToLower(message)
	if containsAny(lower, errorKeywords) {
		return models.LogLevelError
	}
	if containsAny(lower, warnKeywords) {
		return models.LogLevelWarn
	}
	return models.LogLevelInfo
}

// clockOf returns the HH:MM:SS part of "YYYY-MM-DD HH:MM:SS.ffffff".
func clockOf(stamp string) string {
	fields := strings.Fields(stamp)
	clock := fields[len(fields)-1]
	if i := strings.IndexByte(clock, '.'); i >= 0 {
		clock = clock[:i]
	}
	return clock
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func (p *Parser) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Parser) newID() string {
	if p.NewID != nil {
		return p.NewID()
	}
	return uuid.NewString()
}
