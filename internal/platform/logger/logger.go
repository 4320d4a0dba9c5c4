// Package logger builds the process-wide slog logger. All wellspring services
// log JSON to stdout with a constant "service" attribute; request-scoped
// attributes (request_id) are attached by the HTTP middleware, and audit
// events carry "event" and "log_type" keys on top of this base logger.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// New returns the base structured logger. The level is taken from
// WELLSPRING_LOG_LEVEL (debug|info|warn|error) and defaults to info.
func New() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: levelFromEnv(),
	}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler).With("service", "wellspring")
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("WELLSPRING_LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
