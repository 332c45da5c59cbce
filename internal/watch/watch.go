// Package watch reports changes made to a file by other programs.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bethropolis/prism/internal/logger"
)

// DefaultSettle is how long a burst of events must be quiet before it is reported.
const DefaultSettle = 100 * time.Millisecond

// Watcher calls a function after the watched file was written, created or
// replaced. The file's directory is watched so atomic renames are seen.
type Watcher struct {
	fs     *fsnotify.Watcher
	path   string
	settle time.Duration
	notify func(path string)
}

// New watches path. notify runs on the watcher goroutine.
func New(path string, settle time.Duration, notify func(path string)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Watcher{fs: fw, path: abs, settle: settle, notify: notify}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Run delivers notifications until ctx is done or Close is called.
func (w *Watcher) Run(ctx context.Context) error {
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove) {
				logger.DebugTagf("watch", "Watch: %s %s", ev.Op, ev.Name)
				timer.Reset(w.settle)
			}
		case <-timer.C:
			w.notify(w.path)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("Watch: %s: %v", w.path, err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
