// ABOUTME: Structured logging configuration using log/slog.
// ABOUTME: Logs to stderr for CLI commands and to a file while the TUI owns the terminal.

package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LogFileName is the file written inside the config directory in TUI mode
const LogFileName = "debug.log"

// Init configures the default slog logger to write to w.
// LOG_LEVEL: debug, info, warn, error (default: info)
// LOG_FORMAT: text, json (default: text)
func Init(w io.Writer) *slog.Logger {
	level := parseLevel(os.Getenv("LOG_LEVEL"))
	format := strings.ToLower(os.Getenv("LOG_FORMAT"))

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}

// InitFile configures the default logger to append to debug.log in configDir.
// If configDir is empty, logs are discarded.
// The returned closer must be called on shutdown.
func InitFile(configDir string) (*slog.Logger, io.Closer, error) {
	if configDir == "" {
		return Init(io.Discard), io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return Init(io.Discard), io.NopCloser(nil), fmt.Errorf("failed to create config dir: %w", err)
	}

	logPath := filepath.Join(configDir, LogFileName)
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return Init(io.Discard), io.NopCloser(nil), fmt.Errorf("failed to open log file: %w", err)
	}

	return Init(f), f, nil
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
