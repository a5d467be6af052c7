package kb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/recall/internal/testutil"
)

func TestList_Empty(t *testing.T) {
	root := testutil.TestRoot(t, map[string]string{
		"LIBRARIAN.md":                  "guidelines",
		".instructions/agent-recall.md": "x",
		"notes.txt":                     "not a note",
	})
	got, err := List(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Knowledge base is empty. No entries found." {
		t.Errorf("List = %q", got)
	}
}

func TestList_Tree(t *testing.T) {
	root := testutil.TestRoot(t, map[string]string{
		"LIBRARIAN.md":             "guidelines",
		"zeta.md":                  "z",
		"alpha.md":                 "a",
		"projects/web/ui.md":       "ui",
		"projects/api.md":          "api",
		"cooking/bread.md":         "bread",
		"cooking/LIBRARIAN.md":     "nested file is a normal note",
		".obsidian/workspace.md":   "hidden",
		".instructions/x.md":       "hidden",
		"projects/.draft.md":       "hidden",
		"projects/web/diagram.png": "binary",
	})
	got, err := List(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}
	want := "" +
		"├── cooking/\n" +
		"│   ├── LIBRARIAN.md\n" +
		"│   └── bread.md\n" +
		"├── projects/\n" +
		"│   ├── web/\n" +
		"│   │   └── ui.md\n" +
		"│   └── api.md\n" +
		"├── alpha.md\n" +
		"└── zeta.md"
	if got != want {
		t.Errorf("List =\n%s\nwant\n%s", got, want)
	}
}

func TestList_EmptySubdirectoryShown(t *testing.T) {
	root := testutil.TestRoot(t, map[string]string{"a.md": "a"})
	if err := os.Mkdir(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}
	got, _ := List(context.Background(), root)
	want := "├── empty/\n└── a.md"
	if got != want {
		t.Errorf("List =\n%s\nwant\n%s", got, want)
	}
}

func TestList_MissingRoot(t *testing.T) {
	got, err := List(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatal(err)
	}
	if got != MsgEmpty {
		t.Errorf("List = %q", got)
	}
}
