// Package logging builds the process-wide slog logger: JSON in production,
// colored tint output for local development.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// New returns a logger writing to stdout and installs it as the slog default.
func New(isProduction bool, level string) *slog.Logger {
	logger := slog.New(NewHandler(os.Stdout, isProduction, ParseLevel(level)))
	slog.SetDefault(logger)
	return logger
}

// NewHandler picks the handler for the environment.
func NewHandler(w io.Writer, isProduction bool, level slog.Level) slog.Handler {
	if isProduction {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})
}

// ParseLevel maps debug, info, warn and error; anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
