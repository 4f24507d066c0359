package source

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	cerrors "contentsync/internal/errors"
)

// EventKind classifies a filesystem change.
type EventKind string

const (
	EventCreate EventKind = "create"
	EventUpdate EventKind = "update"
	EventDelete EventKind = "delete"
	EventOther  EventKind = "other"
)

// Event is one change to a Markdown file under the source tree. Path is
// absolute.
type Event struct {
	Path string
	Kind EventKind
}

// OnChange registers a listener for Markdown change events. Must be called
// before Watch; listeners run on the watcher goroutine and should hand off
// quickly.
func (s *Store) OnChange(fn func(Event)) {
	s.listeners = append(s.listeners, fn)
}

// Watch starts watching the source tree recursively and dispatches Markdown
// change events to registered listeners until ctx is cancelled. It returns
// once the watcher is running.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return cerrors.Wrap(err, cerrors.CategoryFileSystem, cerrors.SeverityFatal, "create filesystem watcher")
	}

	if err := addRecursive(watcher, s.sourceDir); err != nil {
		_ = watcher.Close()
		return err
	}

	go func() {
		defer func() {
			_ = watcher.Close()
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				s.dispatch(watcher, ev)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("Watcher error", "error", err)
			}
		}
	}()

	slog.Info("Watching for changes", "dir", s.sourceDir)
	return nil
}

func (s *Store) dispatch(watcher *fsnotify.Watcher, ev fsnotify.Event) {
	// New directories must be added while they are still empty, before
	// files land in them.
	if ev.Op.Has(fsnotify.Create) {
		if err := addIfDir(watcher, ev.Name); err != nil {
			slog.Warn("Failed to watch new directory", "path", ev.Name, "error", err)
		}
	}

	if !strings.HasSuffix(ev.Name, ".md") {
		return
	}

	event := Event{Path: ev.Name, Kind: classify(ev.Op)}
	slog.Debug("Source event", "path", event.Path, "kind", event.Kind)
	for _, fn := range s.listeners {
		fn(event)
	}
}

func classify(op fsnotify.Op) EventKind {
	switch {
	case op.Has(fsnotify.Create):
		return EventCreate
	case op.Has(fsnotify.Write):
		return EventUpdate
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return EventDelete
	default:
		return EventOther
	}
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return cerrors.Wrap(err, cerrors.CategoryFileSystem, cerrors.SeverityFatal, "watch source tree").
			WithContext("dir", root)
	}
	return nil
}

func addIfDir(watcher *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return nil
	}
	return addRecursive(watcher, path)
}
