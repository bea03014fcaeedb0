// Package preview provides the development watch loop: it rebuilds the
// site in development mode whenever a source file changes.
package preview

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// debounce coalesces editor save bursts into one rebuild.
const debounce = 250 * time.Millisecond

// Watcher triggers rebuilds when any watched source directory changes.
type Watcher struct {
	dirs    []string
	rebuild func() error
}

// NewWatcher creates a Watcher over the given source directories.
func NewWatcher(dirs []string, rebuild func() error) *Watcher {
	return &Watcher{dirs: dirs, rebuild: rebuild}
}

// Run blocks watching for changes until ctx is canceled. It performs an
// initial build before watching. Rebuild failures are logged, not fatal:
// the watch continues so the next save can fix the problem.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.rebuild(); err != nil {
		slog.Error("Initial build failed", logfields.Error(err))
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	watched := 0
	for _, dir := range w.dirs {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		watched++
	}
	if watched == 0 {
		return fmt.Errorf("no source directories to watch")
	}
	slog.Info("Watching for changes", "directories", watched)

	var timer *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			slog.Debug("Source changed", logfields.Path(event.Name))
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watch error", logfields.Error(err))
		case <-pending:
			if err := w.rebuild(); err != nil {
				slog.Error("Rebuild failed", logfields.Error(err))
			}
		}
	}
}
