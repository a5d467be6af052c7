package storage

import (
	"path/filepath"
	"strings"
)

// Reserved names inside the storage root.
const (
	NoteExt          = ".md"
	HiddenMarker     = "."
	GuidelinesFile   = "LIBRARIAN.md"
	InstructionsDir  = ".instructions"
	InstructionsFile = "agent-recall.instructions.md"
)

// segments splits p on both separator styles so a Windows-style path
// cannot slip a segment past the checks below.
func segments(p string) []string {
	return strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' })
}

// HasTraversal reports whether any segment of p is "..".
func HasTraversal(p string) bool {
	for _, s := range segments(p) {
		if s == ".." {
			return true
		}
	}
	return false
}

// HasHiddenSegment reports whether any segment of p starts with the hidden marker.
func HasHiddenSegment(p string) bool {
	for _, s := range segments(p) {
		if IsHidden(s) {
			return true
		}
	}
	return false
}

// IsHidden reports whether a single entry name is hidden.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, HiddenMarker)
}

// IsNote reports whether name carries the note extension.
func IsNote(name string) bool {
	return strings.HasSuffix(name, NoteExt)
}

// Within reports whether target is root itself or lies below it.
func Within(root, target string) bool {
	rel, ok := relative(root, target)
	return ok && (rel == "." || !escapes(rel))
}

// WithinStrict reports whether target lies below root, excluding root itself.
func WithinStrict(root, target string) bool {
	rel, ok := relative(root, target)
	return ok && rel != "." && !escapes(rel)
}

func relative(root, target string) (string, bool) {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(target))
	if err != nil {
		return "", false
	}
	return rel, true
}

func escapes(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel)
}

// IsGuidelines reports whether abs is the protected guidelines file at root.
func IsGuidelines(root, abs string) bool {
	return filepath.Base(abs) == GuidelinesFile && filepath.Dir(abs) == filepath.Clean(root)
}
