// Package logging builds the process logger from configuration.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-viewer/engine/config"
)

// New builds a logger writing to w with the configured level and format.
//
// Parameters:
//   - cfg: level and format; File is ignored
//   - w: the destination
//
// Returns:
//   - *slog.Logger: the logger
//   - error: an error if the level or format is unknown
func New(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text", "":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	return slog.New(handler), nil
}

// Setup builds the logger described by cfg, opening cfg.File for appending when set, and
// installs it as the slog default.
//
// Parameters:
//   - cfg: the log configuration
//
// Returns:
//   - *slog.Logger: the installed logger
//   - func() error: closes the log file, a no-op for stderr
//   - error: an error if the file cannot be opened or the config is invalid
func Setup(cfg config.LogConfig) (*slog.Logger, func() error, error) {
	var w io.Writer = os.Stderr
	closer := func() error { return nil }

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("logging: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("logging: open %s: %w", cfg.File, err)
		}
		w = f
		closer = f.Close
	}

	logger, err := New(cfg, w)
	if err != nil {
		_ = closer()
		return nil, nil, fmt.Errorf("logging: %w", err)
	}
	slog.SetDefault(logger)
	return logger, closer, nil
}
