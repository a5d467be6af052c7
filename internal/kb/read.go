package kb

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/starford/recall/internal/models"
	"github.com/starford/recall/internal/storage"
)

// ReadParams are the inputs of Read.
type ReadParams struct {
	Query string
}

// Read returns the most recent notes when the query is blank, otherwise the
// notes ranked by keyword score.
func Read(ctx context.Context, root string, p ReadParams) (string, error) {
	files := visibleNotes(storage.CollectNotes(ctx, root, root))
	if len(files) == 0 {
		return MsgEmpty, nil
	}

	if strings.TrimSpace(p.Query) == "" {
		notes := loadNotes(ctx, files)
		sort.SliceStable(notes, func(i, j int) bool {
			if !notes[i].ModTime.Equal(notes[j].ModTime) {
				return notes[i].ModTime.After(notes[j].ModTime)
			}
			return notes[i].Path < notes[j].Path
		})
		top := notes[:min(RecentLimit, len(notes))]
		header := fmt.Sprintf("Showing %d most recent entries (%d total). Use a query for targeted search.",
			len(top), len(files))
		return header + "\n\n" + render(top), nil
	}

	keywords := Keywords(p.Query)
	var matches []models.Note
	for _, n := range loadNotes(ctx, files) {
		n.Score = Score(keywords, n.Path, n.Content)
		if n.Score > 0 {
			matches = append(matches, n)
		}
	}
	if len(matches) == 0 {
		return fmt.Sprintf("No entries found matching \"%s\". Try different keywords or use kbList to see available topics.", p.Query), nil
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Path < matches[j].Path
	})
	top := matches[:min(SearchLimit, len(matches))]
	header := fmt.Sprintf("Found %d matching entries. Showing top %d:", len(matches), len(top))
	return header + "\n\n" + render(top), nil
}

// Keywords splits a query into lower-cased, non-empty tokens.
func Keywords(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// Score sums, for each keyword, its case-insensitive occurrences in content
// (overlaps included) plus PathBonus when the keyword appears in path.
func Score(keywords []string, path, content string) int {
	contentLower := strings.ToLower(content)
	pathLower := strings.ToLower(path)

	score := 0
	for _, kw := range keywords {
		score += countOverlapping(contentLower, kw)
		if strings.Contains(pathLower, kw) {
			score += PathBonus
		}
	}
	return score
}

func countOverlapping(s, sub string) int {
	if sub == "" {
		return 0
	}
	n := 0
	for {
		i := strings.Index(s, sub)
		if i < 0 {
			return n
		}
		n++
		s = s[i+1:]
	}
}

// visibleNotes drops internal files that the scanner does not filter itself.
func visibleNotes(files []models.NoteFile) []models.NoteFile {
	out := files[:0:0]
	for _, f := range files {
		if f.Relative == storage.GuidelinesFile {
			continue
		}
		out = append(out, f)
	}
	return out
}

// loadNotes reads content and mtime for each file. Files that vanish or
// cannot be read between the scan and the read are skipped.
func loadNotes(ctx context.Context, files []models.NoteFile) []models.Note {
	notes := make([]models.Note, 0, len(files))
	for _, f := range files {
		if ctx.Err() != nil {
			break
		}
		info, err := os.Stat(f.Absolute)
		if err != nil {
			continue
		}
		data, err := os.ReadFile(f.Absolute)
		if err != nil {
			continue
		}
		notes = append(notes, models.Note{Path: f.Relative, Content: string(data), ModTime: info.ModTime()})
	}
	return notes
}

func render(notes []models.Note) string {
	parts := make([]string, len(notes))
	for i, n := range notes {
		parts[i] = fmt.Sprintf("## %s\n\n%s\n\n---\n", n.Path, n.Content)
	}
	return strings.Join(parts, "\n")
}
