// Package debug provides opt-in debug logging using log/slog.
package debug

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	enabled bool
	logger  = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// Init initializes the debug logger. When enable is true, debug logs are
// written to stderr; otherwise they are silently discarded.
func Init(enable bool) {
	mu.Lock()
	defer mu.Unlock()

	enabled = enable
	if enable {
		opts := &slog.HandlerOptions{Level: slog.LevelDebug}
		logger = slog.New(slog.NewTextHandler(os.Stderr, opts))
	} else {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Debug logs a debug message with key/value attributes.
func Debug(msg string, args ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Debug(msg, args...)
}

// Warn logs a warning message with key/value attributes.
func Warn(msg string, args ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Warn(msg, args...)
}
