// Package logging configures the process-wide slog logger
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/config"
)

// Init installs the default logger described by cfg, writing to stdout
func Init(cfg config.LoggingSettings) {
	InitWriter(cfg, os.Stdout)
}

// InitWriter installs the default logger described by cfg, writing to w
func InitWriter(cfg config.LoggingSettings, w io.Writer) {
	slog.SetDefault(slog.New(NewHandler(cfg, w)))

	logger := slog.With("component", "logger")
	logger.Debug("Logger initialized",
		"level", cfg.Level,
		"json_format", cfg.JSON,
	)
}

// NewHandler builds a JSON or text handler at the configured level
func NewHandler(cfg config.LoggingSettings, w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if cfg.JSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// ParseLevel maps a level name to a slog level; unknown names mean info
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
