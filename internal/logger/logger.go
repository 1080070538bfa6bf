// Package logger configures the process-wide slog logger and carries the
// request ID through contexts.
package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/contactd/contactd/internal/config"
)

var levels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// New builds a JSON logger on stdout. Every record carries the service
// name; source locations are added only at debug level.
func New(cfg config.Logging) *slog.Logger {
	level, ok := levels[strings.ToLower(cfg.Level)]
	if !ok {
		level = slog.LevelInfo
	}

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	})
	return slog.New(h).With("service", cfg.Service)
}
