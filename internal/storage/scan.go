package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/starford/recall/internal/models"
)

// CollectNotes walks dir depth-first and returns every note file below it,
// with paths relative to root. Hidden entries are skipped at every depth.
//
// A directory that cannot be read contributes nothing, so one bad subtree
// never aborts the listing. When ctx is cancelled the walk stops and the
// notes gathered so far are returned. Order is unspecified.
func CollectNotes(ctx context.Context, dir, root string) []models.NoteFile {
	if ctx.Err() != nil {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var out []models.NoteFile
	for _, e := range entries {
		if IsHidden(e.Name()) {
			continue
		}
		full := filepath.Join(dir, e.Name())
		// Stat rather than the dirent type so symlinked notes and folders count.
		info, err := os.Stat(full)
		if err != nil {
			continue
		}
		if info.IsDir() {
			out = append(out, CollectNotes(ctx, full, root)...)
			continue
		}
		if !IsNote(e.Name()) {
			continue
		}
		rel, err := filepath.Rel(root, full)
		if err != nil {
			continue
		}
		out = append(out, models.NoteFile{Absolute: full, Relative: filepath.ToSlash(rel)})
	}
	return out
}
