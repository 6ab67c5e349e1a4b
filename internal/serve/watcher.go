// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package serve

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchedExts are the source file extensions that trigger a rebuild.
var watchedExts = map[string]bool{
	".md":   true,
	".yml":  true,
	".yaml": true,
}

// Watch observes sourceDir (and the build configuration it contains or
// sits next to) and invokes rebuild after changes, debounced by the given
// quiet period. A failed rebuild is logged and watching continues: watch
// mode exists to iterate on broken sources.
//
// extraPaths lists files outside sourceDir that also participate, such as
// book.yaml at the project root.
func Watch(ctx context.Context, sourceDir string, extraPaths []string, debounce time.Duration, logger *slog.Logger, rebuild func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, sourceDir); err != nil {
		return err
	}
	for _, p := range extraPaths {
		if err := w.Add(p); err != nil {
			logger.Warn("watch: cannot watch extra path",
				slog.String("path", p), slog.String("error", err.Error()))
		}
	}

	logger.Info("watch: started", slog.String("root", sourceDir))

	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watch: stopped")
			return nil

		case <-timerCh:
			logger.Info("watch: rebuilding")
			if err := rebuild(); err != nil {
				logger.Error("watch: rebuild failed", slog.String("error", err.Error()))
			} else {
				logger.Info("watch: rebuild done")
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			// New directories created at runtime join the watch list.
			if ev.Op&fsnotify.Create != 0 {
				if addErr := addDirsRecursive(w, ev.Name); addErr == nil {
					logger.Debug("watch: watching new path", slog.String("path", ev.Name))
				}
			}

			if !watchedExts[strings.ToLower(filepath.Ext(ev.Name))] {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("watch: change", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
