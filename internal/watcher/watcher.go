// Package watcher reports note changes made under the storage root,
// whether by the kb tools or by the user editing files directly.
package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/recall/internal/checksum"
	"github.com/starford/recall/internal/parser"
	"github.com/starford/recall/internal/storage"
)

// Event kinds.
const (
	Created = "created"
	Updated = "updated"
	Deleted = "deleted"
)

// Event describes a change to one note.
type Event struct {
	Kind  string
	Path  string // slash-separated, relative to root
	Title string // empty for deletions
}

// EventCallback is called for every reported change.
type EventCallback func(ev Event)

// Watch starts an fsnotify watcher on root and reports note changes until
// ctx is cancelled. Hidden entries and the guidelines file are ignored.
// Write events that leave a note's content unchanged are not reported.
//
// New directories created at runtime are added to the watch list and
// any notes already inside them are reported as created.
func Watch(ctx context.Context, root string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	// Digests of known notes, used to drop duplicate write events and to
	// tell updates from creations.
	seen := checksum.NewSet()
	for _, n := range storage.CollectNotes(ctx, root, root) {
		if rel, ok := relNote(root, n.Absolute); ok {
			if data, readErr := os.ReadFile(n.Absolute); readErr == nil {
				seen.Observe(rel, data)
			}
		}
	}
	logger.Debug("watcher: seeded", slog.Int("notes", seen.Len()))

	emit := func(kind, rel string, data []byte) {
		ev := Event{Kind: kind, Path: rel}
		if data != nil {
			ev.Title = parser.Parse(data).Title()
		}
		logger.Debug("watcher: change", slog.String("path", rel), slog.String("op", kind))
		if cb != nil {
			cb(ev)
		}
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			rel, ok := relNote(root, ev.Name)

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if !watchable(root, ev.Name) {
						continue
					}
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
						continue
					}
					logger.Debug("watcher: watching new dir", slog.String("path", ev.Name))
					for _, n := range storage.CollectNotes(ctx, ev.Name, root) {
						data, readErr := os.ReadFile(n.Absolute)
						if readErr != nil {
							continue
						}
						if _, changed := seen.Observe(n.Relative, data); changed {
							emit(Created, n.Relative, data)
						}
					}
					continue
				}
			}

			if !ok {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				data, readErr := os.ReadFile(ev.Name)
				if readErr != nil {
					logger.Warn("watcher: read failed", slog.String("path", rel), slog.String("error", readErr.Error()))
					continue
				}
				known, changed := seen.Observe(rel, data)
				if !changed {
					continue
				}
				kind := Created
				if known {
					kind = Updated
				}
				emit(kind, rel, data)

			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				// Rename fires on the old path only; the new path arrives as Create.
				if !seen.Known(rel) {
					continue
				}
				seen.Forget(rel)
				emit(Deleted, rel, nil)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// relNote maps an absolute path to its note path relative to root,
// reporting false for anything that is not a visible note.
func relNote(root, abs string) (string, bool) {
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if !storage.IsNote(rel) || storage.HasHiddenSegment(rel) || storage.HasTraversal(rel) {
		return "", false
	}
	if rel == storage.GuidelinesFile {
		return "", false
	}
	return rel, true
}

func watchable(root, dir string) bool {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return false
	}
	return rel == "." || !storage.HasHiddenSegment(rel)
}

// addDirsRecursive adds root and all its visible subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, never fatal.
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && storage.IsHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil && path == root {
			return err
		}
		return nil
	})
}
