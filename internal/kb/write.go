package kb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/starford/recall/internal/parser"
	"github.com/starford/recall/internal/storage"
)

var nonSlugRe = regexp.MustCompile(`[^a-z0-9]+`)

// WriteParams are the inputs of Write.
type WriteParams struct {
	Title     string
	Content   string
	Tags      []string
	Directory string
}

// Write creates or fully overwrites the note derived from p.Title inside
// p.Directory. The header is regenerated on every call, so an update
// resets the created timestamp as well.
func Write(_ context.Context, root string, p WriteParams) (string, error) {
	return write(root, p, time.Now())
}

func write(root string, p WriteParams, now time.Time) (string, error) {
	directory := strings.TrimSpace(p.Directory)

	if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Content) == "" {
		return `Missing required parameters. Provide both a "title" and "content" to save an entry.`, nil
	}
	if directory != "" {
		if storage.HasTraversal(directory) {
			return `Invalid directory: ".." traversal is not allowed.`, nil
		}
		if storage.HasHiddenSegment(directory) {
			return `Invalid directory: hidden directories (starting with ".") are not allowed.`, nil
		}
	}

	targetDir := filepath.Join(root, filepath.FromSlash(directory))
	if !storage.Within(root, targetDir) {
		return fmt.Sprintf(MsgOutside, "directory"), nil
	}

	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", fmt.Errorf("kb: create directory: %w", err)
	}

	filename := Slug(p.Title, now) + storage.NoteExt
	abs := filepath.Join(targetDir, filename)
	existed := storage.Exists(abs)

	doc := parser.Render(parser.NewHeader(p.Title, p.Tags, now), p.Content)
	if err := storage.WriteFile(abs, []byte(doc)); err != nil {
		return "", fmt.Errorf("kb: write %s: %w", filename, err)
	}

	rel := filename
	if directory != "" {
		rel = filepath.ToSlash(filepath.Join(filepath.FromSlash(directory), filename))
	}
	if existed {
		return "Updated existing entry: " + rel, nil
	}
	return "Created new entry: " + rel, nil
}

// Slug lower-cases title and collapses every run of characters outside
// [a-z0-9] into a single hyphen. A title without any such character yields
// a time-based stem.
func Slug(title string, now time.Time) string {
	slug := strings.Trim(nonSlugRe.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if slug == "" {
		return fmt.Sprintf("entry-%d", now.UnixMilli())
	}
	return slug
}
