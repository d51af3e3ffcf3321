package commands

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// queryWatcher reports changed query files in batches.
type queryWatcher struct {
	watcher  *fsnotify.Watcher
	dirs     []string        // directory roots, watched recursively
	files    map[string]bool // files named explicitly
	exts     []string
	debounce time.Duration
	logger   *slog.Logger
}

// newQueryWatcher starts watching paths. Directories are watched
// recursively; for a file, its parent directory is watched.
func newQueryWatcher(paths []string, exts []string, debounce time.Duration, logger *slog.Logger) (*queryWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &queryWatcher{
		watcher:  watcher,
		files:    make(map[string]bool),
		exts:     exts,
		debounce: debounce,
		logger:   logger,
	}

	for _, path := range paths {
		path = filepath.Clean(path)
		info, err := os.Stat(path)
		if err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", path, err)
		}
		if info.IsDir() {
			w.dirs = append(w.dirs, path)
			err = w.watchDir(path)
		} else {
			w.files[path] = true
			err = watcher.Add(filepath.Dir(path))
		}
		if err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", path, err)
		}
	}
	return w, nil
}

// watchDir recursively adds a directory to the watcher.
func (w *queryWatcher) watchDir(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

// matches reports whether a change to path should trigger a check.
func (w *queryWatcher) matches(path string) bool {
	if w.files[path] {
		return true
	}
	return hasQueryExt(path, w.exts) && w.underDirs(path)
}

// Run handles file system events until ctx is done. Changes are collected
// until no event arrives for the debounce interval, then passed to onChange
// sorted by path.
func (w *queryWatcher) Run(ctx context.Context, onChange func(paths []string)) error {
	var debounceTimer *time.Timer
	var fire <-chan time.Time
	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			// Only handle write/create events
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			path := filepath.Clean(event.Name)
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(path); err == nil && info.IsDir() && w.underDirs(path) {
					if err := w.watchDir(path); err != nil {
						w.logger.Warn("failed to watch new directory", "path", path, "error", err)
					}
					continue
				}
			}
			if !w.matches(path) {
				continue
			}

			w.logger.Debug("change detected", "path", path, "op", event.Op.String())
			pending[path] = true

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.NewTimer(w.debounce)
			fire = debounceTimer.C

		case <-fire:
			fire = nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				if _, err := os.Stat(p); err == nil {
					paths = append(paths, p)
				}
			}
			clear(pending)
			sort.Strings(paths)
			if len(paths) > 0 {
				onChange(paths)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *queryWatcher) underDirs(path string) bool {
	for _, dir := range w.dirs {
		if dir == "." || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Close stops watching.
func (w *queryWatcher) Close() error {
	return w.watcher.Close()
}
