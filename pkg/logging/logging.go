// Package logging configures the process-wide slog logger.
//
// Two handlers are supported: JSON for machine consumption
// (CI pipelines, in-cluster runs) and text for interactive use.
// Both write to stderr by default; stdout is reserved for command output.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLogLevel is the environment variable consulted for the log level.
const EnvLogLevel = "LOG_LEVEL"

// Options controls logger construction.
type Options struct {
	// Module and Version are attached to every record of the structured logger.
	Module  string
	Version string

	// Level is one of debug, info, warn, error. Empty falls back to LOG_LEVEL, then info.
	Level string

	// JSON selects the JSON handler instead of the text handler.
	JSON bool

	// Writer defaults to os.Stderr.
	Writer io.Writer
}

// ParseLogLevel converts a level name to a slog.Level. Unknown names map to info.
func ParseLogLevel(level string) slog.Level {
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

// New builds a logger from the given options without installing it.
func New(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	level := opts.Level
	if level == "" {
		level = os.Getenv(EnvLogLevel)
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     ParseLogLevel(level),
		AddSource: ParseLogLevel(level) == slog.LevelDebug,
	}

	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(w, handlerOpts)
	} else {
		h = slog.NewTextHandler(w, handlerOpts)
	}

	logger := slog.New(h)
	if opts.Module != "" {
		logger = logger.With(slog.String("module", opts.Module))
	}
	if opts.Version != "" {
		logger = logger.With(slog.String("version", opts.Version))
	}
	return logger
}

// SetDefault builds a logger from opts and installs it as the slog default.
func SetDefault(opts Options) {
	slog.SetDefault(New(opts))
}
