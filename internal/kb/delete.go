package kb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/recall/internal/storage"
)

// DeleteParams are the inputs of Delete.
type DeleteParams struct {
	RelativePath string
}

// Delete removes a single note and then prunes ancestor directories that
// became empty, stopping below root. Pruning is best effort.
func Delete(_ context.Context, root string, p DeleteParams) (string, error) {
	rel := p.RelativePath

	if strings.TrimSpace(rel) == "" {
		return `Missing required parameter "relativePath". Provide the path of the file to delete, e.g. "old-notes.md" or "subdir/file.md".`, nil
	}
	if storage.HasTraversal(rel) {
		return `Invalid path: ".." traversal is not allowed.`, nil
	}
	if storage.HasHiddenSegment(rel) {
		return "Cannot delete hidden files or files in hidden directories.", nil
	}

	target := filepath.FromSlash(rel)
	if !filepath.IsAbs(target) {
		target = filepath.Join(root, target)
	}
	target = filepath.Clean(target)
	if !storage.WithinStrict(root, target) {
		return fmt.Sprintf(MsgOutside, "path"), nil
	}
	if storage.IsGuidelines(root, target) {
		return "Cannot delete " + storage.GuidelinesFile + ": it contains organizational guidelines for the knowledge base.", nil
	}

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Sprintf("File not found: \"%s\". Use kbList to see available entries.", rel), nil
	}
	if !info.Mode().IsRegular() {
		return fmt.Sprintf("\"%s\" is not a file. Only files can be deleted.", rel), nil
	}

	if err := os.Remove(target); err != nil {
		return "", fmt.Errorf("kb: delete %s: %w", rel, err)
	}
	pruneEmptyParents(root, filepath.Dir(target))

	return "Deleted: " + rel, nil
}

// pruneEmptyParents removes dir and its ancestors while they are empty.
// root is never removed, and the walk stops at the first directory that
// is non-empty, unreadable or cannot be removed.
func pruneEmptyParents(root, dir string) {
	for storage.WithinStrict(root, dir) {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}
