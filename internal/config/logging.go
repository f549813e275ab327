package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// ParseLevel maps a settings level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("logging.level must be debug, info, warn or error, got %q", name)
}

// NewLogger returns a tint-formatted logger writing to w. Colour is only
// used when color is set.
func NewLogger(w io.Writer, level slog.Level, color bool) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    !color,
	}))
}

// OpenDiagnosticsLog opens the diagnostics file for appending and returns a
// logger writing to it. The caller closes the file.
func OpenDiagnosticsLog(level slog.Level) (*slog.Logger, *os.File, error) {
	if err := EnsureGlobalLogsDir(); err != nil {
		return nil, nil, fmt.Errorf("failed to ensure logs dir: %w", err)
	}
	path, err := DiagnosticsFile()
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open diagnostics log: %w", err)
	}
	return NewLogger(f, level, false), f, nil
}
