package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/grafana/grafana-app-sdk/logging"
	"github.com/tidal-dl-ng/agentcheck/internal/logs"
)

const debounceInterval = 100 * time.Millisecond

// Watcher notifies about changes made to a set of files and directories.
// Changes happening in quick succession are batched together.
type Watcher struct {
	ctx      context.Context
	watcher  *fsnotify.Watcher
	onChange func(files []string)

	mu    sync.RWMutex
	files map[string]bool
	dirs  map[string]bool
}

func NewWatcher(ctx context.Context, onChange func(files []string)) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create watcher: %w", err)
	}

	return &Watcher{
		ctx:      ctx,
		watcher:  watcher,
		onChange: onChange,
		files:    map[string]bool{},
		dirs:     map[string]bool{},
	}, nil
}

// Add starts watching the given paths. Files are watched through their
// parent directory so that files replaced by editors, or created after the
// watch started, are noticed. Directories are watched recursively, except for
// hidden directories and bytecode caches.
func (w *Watcher) Add(paths ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}

		info, err := os.Stat(abs)
		switch {
		case err == nil && info.IsDir():
			if err := w.addTree(abs); err != nil {
				return fmt.Errorf("could not watch '%s': %w", path, err)
			}

			continue
		case err == nil, errors.Is(err, os.ErrNotExist):
			w.files[abs] = true
		default:
			return err
		}

		if err := w.watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("could not watch '%s': %w", path, err)
		}

		logging.FromContext(w.ctx).Debug("Watching path", slog.String("path", abs))
	}

	return nil
}

// addTree watches root and its subdirectories. The caller holds w.mu.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !entry.IsDir() {
			return nil
		}

		if path != root && skippedDir(entry.Name()) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			return err
		}

		w.dirs[path] = true
		logging.FromContext(w.ctx).Debug("Watching path", slog.String("path", path))

		return nil
	})
}

func skippedDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "__pycache__"
}

// Watch listens for changes until the context is cancelled.
func (w *Watcher) Watch() {
	defer w.watcher.Close()

	logger := logging.FromContext(w.ctx)
	pending := map[string]bool{}

	var flush <-chan time.Time

	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Op == fsnotify.Chmod || !w.watched(event.Name) {
				continue
			}

			if event.Has(fsnotify.Create) {
				w.addCreatedDir(event.Name)
			}

			logger.Debug("File changed", slog.String("file", event.Name), slog.String("op", event.Op.String()))

			pending[event.Name] = true
			flush = time.After(debounceInterval)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			logger.Warn("Error watching files", logs.Err(err))
		case <-flush:
			changed := slices.Sorted(maps.Keys(pending))
			clear(pending)
			flush = nil

			w.onChange(changed)
		}
	}
}

// addCreatedDir extends the watch to directories created inside a watched directory.
func (w *Watcher) addCreatedDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || skippedDir(info.Name()) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.addTree(path); err != nil {
		logging.FromContext(w.ctx).Warn("Could not watch directory", slog.String("path", path), logs.Err(err))
	}
}

func (w *Watcher) watched(file string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.files[file] || w.dirs[filepath.Dir(file)]
}
