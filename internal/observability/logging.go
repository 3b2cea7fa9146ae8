// Package observability provides structured logging setup shared by the
// CLI and the training core.
package observability

import (
	"io"
	"log/slog"
	"strings"
)

// NewJSONHandler creates a JSON log handler with the specified output and
// level. JSON format is the default for non-interactive runs.
func NewJSONHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
}

// NewTextHandler creates a human-readable text log handler.
func NewTextHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
}

// NewLogger builds a component-tagged logger from a format ("json" or
// "text") and level name. Unknown values fall back to text at info level.
func NewLogger(w io.Writer, format, level, component string) *slog.Logger {
	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = NewJSONHandler(w, ParseLevel(level))
	} else {
		handler = NewTextHandler(w, ParseLevel(level))
	}

	logger := slog.New(handler)
	if component != "" {
		logger = logger.With(slog.String("component", component))
	}
	return logger
}

// ParseLevel maps a config level name to a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
