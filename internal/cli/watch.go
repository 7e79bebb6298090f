package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of events editors emit for one save.
const watchDebounce = 200 * time.Millisecond

// watchFile calls fn whenever the file at path changes, until ctx ends.
//
// The parent directory is watched rather than the file itself so that
// editors that save by renaming a temporary file over the original keep
// being observed. Errors from fn are logged and do not stop the watch.
func watchFile(ctx context.Context, path string, logger *log.Logger, fn func() error) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	logger.Info("watching for changes", "file", path)

	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isChange(ev, abs) {
				continue
			}
			logger.Debug("file event", "op", ev.Op.String(), "file", ev.Name)
			timer.Reset(watchDebounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)

		case <-timer.C:
			if err := fn(); err != nil {
				logger.Error("rebuild failed", "err", err)
			}
		}
	}
}

// isChange reports whether ev modifies the watched file.
func isChange(ev fsnotify.Event, abs string) bool {
	if filepath.Clean(ev.Name) != abs {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}
