// Package watch re-runs a callback when a watched directory changes.
package watch

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a directory for changes
type Watcher struct {
	dir      string
	callback func() error
	watcher  *fsnotify.Watcher
	done     chan bool
}

// NewWatcher creates a new directory watcher
func NewWatcher(dir string, callback func() error) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	absPath, err := filepath.Abs(dir)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	if err := watcher.Add(absPath); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	return &Watcher{
		dir:      absPath,
		callback: callback,
		watcher:  watcher,
		done:     make(chan bool),
	}, nil
}

// Start runs the callback once, then again after each debounced burst of
// filesystem events, until Stop is called.
func (w *Watcher) Start() error {
	if err := w.callback(); err != nil {
		return fmt.Errorf("initial callback failed: %w", err)
	}

	debounceTimer := time.NewTimer(500 * time.Millisecond)
	debounceTimer.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				debounceTimer.Reset(500 * time.Millisecond)
			}
		case <-debounceTimer.C:
			if err := w.callback(); err != nil {
				return err
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch error: %w", err)
		case <-w.done:
			return nil
		}
	}
}

// Stop stops watching
func (w *Watcher) Stop() {
	close(w.done)
	w.watcher.Close()
}
