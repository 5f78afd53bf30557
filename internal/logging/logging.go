package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Logger is the global slog instance for the application. It discards
// until Init succeeds.
var Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// DefaultPath is ~/.phaseline/logs/phaseline.log.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".phaseline", "logs", "phaseline.log"), nil
}

// Init points Logger at a log file. An empty path means PHASELINE_LOG, then
// DefaultPath. Logs never go to the terminal so they cannot corrupt the TUI.
// Uses text format for human readability.
func Init(path, level string) (io.Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = os.Getenv("PHASELINE_LOG")
	}
	if path == "" {
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	Logger = slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(Logger)
	return file, nil
}

// ParseLevel accepts debug, info, warn and error, case-insensitively.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
