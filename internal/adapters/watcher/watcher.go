// Package watcher rebuilds on source changes using fsnotify.
package watcher

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/wasmship/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceWatcher = (*Watcher)(nil)

// DefaultDebounceWindow is the quiet period after the last change before a batch is delivered.
const DefaultDebounceWindow = 300 * time.Millisecond

// skippedDirs are never watched. target holds build output, which the
// rebuild itself rewrites.
var skippedDirs = []string{".git", ".jj", "target"}

// Watcher implements ports.SourceWatcher.
type Watcher struct {
	logger ports.Logger
	window time.Duration
}

// NewWatcher creates a Watcher with the default debounce window.
func NewWatcher(logger ports.Logger) *Watcher {
	return NewWatcherWithWindow(logger, DefaultDebounceWindow)
}

// NewWatcherWithWindow creates a Watcher with a custom debounce window.
func NewWatcherWithWindow(logger ports.Logger, window time.Duration) *Watcher {
	return &Watcher{logger: logger, window: window}
}

// Watch watches root recursively until ctx is done.
//
//nolint:cyclop // event loop multiplexes fsnotify events, errors and batches
func (w *Watcher) Watch(ctx context.Context, root string, onChange func(ctx context.Context, paths []string)) error {
	if _, err := os.Stat(root); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to watch sources"), "path", root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, "failed to create file watcher")
	}
	defer func() { _ = fsw.Close() }()

	for dir := range watchRecursively(root) {
		if err := fsw.Add(dir); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to watch directory"), "path", dir)
		}
	}

	// One slot: a batch that arrives while another is pending is dropped,
	// since the pending rebuild already covers it.
	batches := make(chan []string, 1)
	debouncer := NewDebouncer(w.window, func(paths []string) {
		select {
		case batches <- paths:
		default:
		}
	})
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() && !skipped(info.Name()) {
					for dir := range watchRecursively(event.Name) {
						_ = fsw.Add(dir)
					}
				}
			}
			debouncer.Add(event.Name)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err.Error())

		case paths := <-batches:
			onChange(ctx, paths)
		}
	}
}

func watchRecursively(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // unreadable directories are not watched
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && skipped(d.Name()) {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func skipped(name string) bool {
	return slices.Contains(skippedDirs, name)
}
