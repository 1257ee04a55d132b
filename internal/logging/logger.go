// Package logging sets up the slog logger used across mvnprep.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Levels lists the accepted level names, lowest first.
var Levels = []string{"debug", "info", "warn", "error"}

// New returns a text logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// ParseLevel parses a log level string into slog.Level.
// Unknown strings fall back to info.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
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

// ValidateLevel returns an error if levelStr is not one of Levels.
// An empty string is accepted and means info.
func ValidateLevel(levelStr string) error {
	s := strings.ToLower(strings.TrimSpace(levelStr))
	if s == "" {
		return nil
	}
	for _, l := range Levels {
		if s == l {
			return nil
		}
	}
	return fmt.Errorf("unknown log level %q: must be one of %s", levelStr, strings.Join(Levels, ", "))
}

// InfoAdapter exposes a slog.Logger through a single Info(message) method.
type InfoAdapter struct {
	Logger *slog.Logger
}

// Info logs message at info level.
func (a InfoAdapter) Info(message string) {
	a.Logger.Info(message)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return New(io.Discard, slog.LevelError+1)
}
