package logparse

import (
	"strings"
	"testing"
	"time"

	"github.com/narvanalabs/scalingo-dashboard/internal/models"
)

func fixedClock() time.Time {
	return time.Date(2025, 7, 15, 9, 5, 3, 0, time.UTC)
}

func TestParseRouterFormat(t *testing.T) {
	tests := []struct {
		name string
		line string
		want models.LogEntry
	}{
		{
			name: "info line",
			line: "2025-07-15 12:10:47.951404 +0200 CEST [web-1] Database connection established",
			want: models.LogEntry{Timestamp: "12:10:47", Source: "[web-1]", Level: models.LogLevelInfo, Message: "Database connection established"},
		},
		{
			name: "failed is an error",
			line: "2025-07-15 12:10:47.951404 +0200 CEST [web-1] Failed to connect to Redis, retrying...",
			want: models.LogEntry{Timestamp: "12:10:47", Source: "[web-1]", Level: models.LogLevelError, Message: "Failed to connect to Redis, retrying..."},
		},
		{
			name: "exception is an error",
			line: "2025-07-15 08:00:01.1 -0500 EST [worker-2] Unhandled EXCEPTION in job",
			want: models.LogEntry{Timestamp: "08:00:01", Source: "[worker-2]", Level: models.LogLevelError, Message: "Unhandled EXCEPTION in job"},
		},
		{
			name: "deprecated is a warning",
			line: "2025-07-15 23:59:59.000001 +0000 UTC [router] Deprecated header used",
			want: models.LogEntry{Timestamp: "23:59:59", Source: "[router]", Level: models.LogLevelWarn, Message: "Deprecated header used"},
		},
		{
			name: "error wins over warning",
			line: "2025-07-15 10:00:00.5 +0200 CEST [web-1] warning: error budget exhausted",
			want: models.LogEntry{Timestamp: "10:00:00", Source: "[web-1]", Level: models.LogLevelError, Message: "warning: error budget exhausted"},
		},
		{
			name: "message is trimmed",
			line: "2025-07-15 10:00:00.5 +0200 CEST [web-1] padded   ",
			want: models.LogEntry{Timestamp: "10:00:00", Source: "[web-1]", Level: models.LogLevelInfo, Message: "padded"},
		},
	}

	p := &Parser{Now: fixedClock}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := p.Parse(tt.line)
			if len(entries) != 1 {
				t.Fatalf("expected 1 entry, got %d", len(entries))
			}
			got := entries[0]
			if got.ID == "" {
				t.Error("entry has no identifier")
			}
			got.ID = ""
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseFallback(t *testing.T) {
	tests := []struct {
		name string
		line string
		want models.LogEntry
	}{
		{
			name: "no structure uses the clock",
			line: "something went wrong here",
			want: models.LogEntry{Timestamp: "09:05:03", Source: "unknown", Level: models.LogLevelInfo, Message: "something went wrong here"},
		},
		{
			name: "bracketed label is the source",
			line: "  boot [scheduler-1] starting  ",
			want: models.LogEntry{Timestamp: "09:05:03", Source: "[scheduler-1]", Level: models.LogLevelInfo, Message: "boot [scheduler-1] starting"},
		},
		{
			name: "embedded clock is the timestamp",
			line: "at 14:22:09 the error was logged",
			want: models.LogEntry{Timestamp: "14:22:09", Source: "unknown", Level: models.LogLevelInfo, Message: "at 14:22:09 the error was logged"},
		},
		{
			name: "missing fraction falls back",
			line: "2025-07-15 12:10:47 +0200 CEST [web-1] Failed hard",
			want: models.LogEntry{Timestamp: "12:10:47", Source: "[web-1]", Level: models.LogLevelInfo, Message: "2025-07-15 12:10:47 +0200 CEST [web-1] Failed hard"},
		},
	}

	p := &Parser{Now: fixedClock}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := p.Parse(tt.line)
			if len(entries) != 1 {
				t.Fatalf("expected 1 entry, got %d", len(entries))
			}
			got := entries[0]
			got.ID = ""
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseFallbackUsesWallClock(t *testing.T) {
	before := time.Now().Format("15:04:05")
	entries := Parse("something went wrong here")
	after := time.Now().Format("15:04:05")

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if ts := entries[0].Timestamp; ts != before && ts != after {
		t.Errorf("timestamp %q is not the current time (%s..%s)", ts, before, after)
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, raw := range []string{"", " ", "\n\n", "\t \r\n  "} {
		entries := Parse(raw)
		if entries == nil {
			t.Errorf("Parse(%q) returned nil, want empty slice", raw)
		}
		if len(entries) != 0 {
			t.Errorf("Parse(%q) returned %d entries, want 0", raw, len(entries))
		}
	}
}

func TestParseKeepsOrderAndSkipsBlankLines(t *testing.T) {
	raw := strings.Join([]string{
		"2025-07-15 12:10:47.951404 +0200 CEST [web-1] first",
		"",
		"   ",
		"second",
		"2025-07-15 12:10:49.000000 +0200 CEST [web-2] third",
	}, "\n")

	entries := (&Parser{Now: fixedClock}).Parse(raw)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, want := range []string{"first", "second", "third"} {
		if entries[i].Message != want {
			t.Errorf("entry %d message = %q, want %q", i, entries[i].Message, want)
		}
	}
	if entries[0].ID == entries[2].ID {
		t.Error("entries share an identifier")
	}
}

func TestParserCustomID(t *testing.T) {
	n := 0
	p := &Parser{Now: fixedClock, NewID: func() string {
		n++
		return strings.Repeat("x", n)
	}}

	entries := p.Parse("a\nb")
	if entries[0].ID != "x" || entries[1].ID != "xx" {
		t.Errorf("unexpected ids %q, %q", entries[0].ID, entries[1].ID)
	}
}

func TestClassifyLevel(t *testing.T) {
	tests := map[string]models.LogLevel{
		"all good":               models.LogLevelInfo,
		"ERROR: boom":            models.LogLevelError,
		"request failed":         models.LogLevelError,
		"NullPointerException":   models.LogLevelError,
		"WARN low disk":          models.LogLevelWarn,
		"Warning: retrying":      models.LogLevelWarn,
		"this API is deprecated": models.LogLevelWarn,
		"warn then error":        models.LogLevelError,
		"":                       models.LogLevelInfo,
	}

	for message, want := range tests {
		if got := ClassifyLevel(message); got != want {
			t.Errorf("ClassifyLevel(%q) = %s, want %s", message, got, want)
		}
	}
}
