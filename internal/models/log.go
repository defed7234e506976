package models

// LogLevel is a coarse severity inferred from a log message.
// It is a display hint only and must not be relied on for alerting.
type LogLevel string

const (
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// UnknownSource is the source recorded for lines without an instance label.
const UnknownSource = "unknown"

// LogEntry represents a single parsed line of application output.
type LogEntry struct {
	ID        string   `json:"id"`
	Timestamp string   `json:"timestamp"` // HH:MM:SS
	Level     LogLevel `json:"level"`
	Message   string   `json:"message"`
	Source    string   `json:"source"` // "[web-1]" or "unknown"
}
