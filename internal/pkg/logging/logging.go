// Package logging builds the service's structured logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/labstack/gommon/log"
)

// New returns a JSON logger writing to stdout at the named level.
func New(level string) *slog.Logger {
	return NewWithWriter(os.Stdout, level)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, level string) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	return slog.New(h)
}

// ParseLevel maps debug, info, warn and error to slog levels. Anything else
// is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// EchoLevel is the gommon level matching level, for echo's own logger.
func EchoLevel(level string) log.Lvl {
	switch ParseLevel(level) {
	case slog.LevelDebug:
		return log.DEBUG
	case slog.LevelWarn:
		return log.WARN
	case slog.LevelError:
		return log.ERROR
	default:
		return log.INFO
	}
}
