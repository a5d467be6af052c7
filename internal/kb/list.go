package kb

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/starford/recall/internal/storage"
)

// Tree-drawing connectors.
const (
	branch      = "├── "
	lastBranch  = "└── "
	pipeIndent  = "│   "
	spaceIndent = "    "
)

// List renders the note tree under root as an ASCII diagram.
func List(ctx context.Context, root string) (string, error) {
	lines := Tree(ctx, root, root, "")
	if len(lines) == 0 {
		return MsgEmpty, nil
	}
	return strings.Join(lines, "\n"), nil
}

// Tree returns the diagram lines for dir, each prefixed with prefix.
// Sub-directories come first, then notes, both in lexical order.
// An unreadable directory renders as empty.
func Tree(ctx context.Context, dir, root, prefix string) []string {
	if ctx.Err() != nil {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var dirs, files []string
	for _, e := range entries {
		name := e.Name()
		if excluded(dir, root, name) {
			continue
		}
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		switch {
		case info.IsDir():
			dirs = append(dirs, name)
		case storage.IsNote(name):
			files = append(files, name)
		}
	}
	sort.Strings(dirs)
	sort.Strings(files)

	var lines []string
	total := len(dirs) + len(files)
	for i, name := range append(dirs, files...) {
		connector, childPrefix := branch, pipeIndent
		if i == total-1 {
			connector, childPrefix = lastBranch, spaceIndent
		}
		if i < len(dirs) {
			lines = append(lines, prefix+connector+name+"/")
			lines = append(lines, Tree(ctx, filepath.Join(dir, name), root, prefix+childPrefix)...)
			continue
		}
		lines = append(lines, prefix+connector+name)
	}
	return lines
}

func excluded(dir, root, name string) bool {
	if storage.IsHidden(name) {
		return true
	}
	switch name {
	case storage.InstructionsDir, ".obsidian":
		return true
	case storage.GuidelinesFile:
		return filepath.Clean(dir) == filepath.Clean(root)
	}
	return false
}
