package kb

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/recall/internal/testutil"
)

func TestDelete_RemovesFile(t *testing.T) {
	root := testutil.TestRoot(t, map[string]string{"a.md": "a", "b.md": "b"})
	got, err := Delete(context.Background(), root, DeleteParams{RelativePath: "a.md"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "Deleted: a.md" {
		t.Errorf("Delete = %q", got)
	}
	if _, err := os.Stat(filepath.Join(root, "a.md")); !os.IsNotExist(err) {
		t.Errorf("file still present: %v", err)
	}
}

func TestDelete_PrunesEmptyAncestors(t *testing.T) {
	root := testutil.TestRoot(t, map[string]string{
		"keep/other.md": "o",
		"keep/x/y/z.md": "z",
	})
	got, _ := Delete(context.Background(), root, DeleteParams{RelativePath: "keep/x/y/z.md"})
	if got != "Deleted: keep/x/y/z.md" {
		t.Fatalf("Delete = %q", got)
	}
	if _, err := os.Stat(filepath.Join(root, "keep", "x")); !os.IsNotExist(err) {
		t.Errorf("empty ancestors not pruned: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "keep", "other.md")); err != nil {
		t.Errorf("non-empty ancestor touched: %v", err)
	}
}

func TestDelete_NeverRemovesRoot(t *testing.T) {
	root := testutil.TestRoot(t, map[string]string{"only/note.md": "n"})
	_, _ = Delete(context.Background(), root, DeleteParams{RelativePath: "only/note.md"})
	if _, err := os.Stat(filepath.Join(root, "only")); !os.IsNotExist(err) {
		t.Errorf("empty directory kept: %v", err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		t.Fatalf("root removed: %v", err)
	}
}

func TestDelete_Validation(t *testing.T) {
	root := testutil.TestRoot(t, map[string]string{
		"LIBRARIAN.md":      "guidelines",
		"dir/inner.md":      "x",
		".hidden/secret.md": "s",
	})
	cases := []struct {
		path string
		want string
	}{
		{"  ", `Missing required parameter "relativePath". Provide the path of the file to delete, e.g. "old-notes.md" or "subdir/file.md".`},
		{"../outside.md", `Invalid path: ".." traversal is not allowed.`},
		{"dir/../../x.md", `Invalid path: ".." traversal is not allowed.`},
		{".hidden/secret.md", "Cannot delete hidden files or files in hidden directories."},
		{"/etc/passwd", "Invalid path: target is outside the knowledge base directory."},
		{"LIBRARIAN.md", "Cannot delete LIBRARIAN.md: it contains organizational guidelines for the knowledge base."},
		{"missing.md", `File not found: "missing.md". Use kbList to see available entries.`},
		{"dir", `"dir" is not a file. Only files can be deleted.`},
	}
	for _, c := range cases {
		got, err := Delete(context.Background(), root, DeleteParams{RelativePath: c.path})
		if err != nil {
			t.Fatalf("Delete(%q): %v", c.path, err)
		}
		if got != c.want {
			t.Errorf("Delete(%q) = %q, want %q", c.path, got, c.want)
		}
	}

	for _, rel := range []string{"LIBRARIAN.md", "dir/inner.md", ".hidden/secret.md"} {
		if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel))); err != nil {
			t.Errorf("%s removed by rejected delete: %v", rel, err)
		}
	}
}

func TestDelete_SiblingPrefixOutside(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "kb")
	sibling := filepath.Join(parent, "kb-other")
	for _, d := range []string{root, sibling} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	target := testutil.WriteFile(t, sibling, "x.md", "x")

	got, _ := Delete(context.Background(), root, DeleteParams{RelativePath: target})
	if !strings.Contains(got, "outside the knowledge base") {
		t.Errorf("Delete = %q", got)
	}
	if _, err := os.Stat(target); err != nil {
		t.Errorf("sibling file removed: %v", err)
	}
}

func TestDelete_IsTerminal(t *testing.T) {
	root := testutil.TestRoot(t, nil)
	ctx := context.Background()
	_, _ = Write(ctx, root, WriteParams{Title: "Gone Soon", Content: "ephemeral marker", Directory: "tmp"})
	if got, _ := Delete(ctx, root, DeleteParams{RelativePath: "tmp/gone-soon.md"}); got != "Deleted: tmp/gone-soon.md" {
		t.Fatalf("Delete = %q", got)
	}

	if got, _ := Delete(ctx, root, DeleteParams{RelativePath: "tmp/gone-soon.md"}); !strings.HasPrefix(got, "File not found") {
		t.Errorf("second Delete = %q", got)
	}
	if got, _ := Read(ctx, root, ReadParams{Query: "ephemeral"}); got != MsgEmpty {
		t.Errorf("Read after delete = %q", got)
	}
	if got, _ := List(ctx, root); got != MsgEmpty {
		t.Errorf("List after delete = %q", got)
	}
}
