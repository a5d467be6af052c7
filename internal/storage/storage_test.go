package storage

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"

	"github.com/starford/recall/internal/defaults"
	"github.com/starford/recall/internal/testutil"
)

func TestExpandHome(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"~/bar", "/home/user/bar"},
		{"~", "/home/user"},
		{"~/.agent-docs", "/home/user/.agent-docs"},
		{"/abs/path", "/abs/path"},
		{"relative/dir", "relative/dir"},
	}
	for _, c := range cases {
		if got := ExpandHome(c.in, "/home/user"); got != c.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestResolveRoot_Default(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got, want := ResolveRoot(""), filepath.Join(home, ".agent-docs"); got != want {
		t.Errorf("ResolveRoot(\"\") = %q, want %q", got, want)
	}
	if got, want := ResolveRoot("   "), filepath.Join(home, ".agent-docs"); got != want {
		t.Errorf("ResolveRoot(blank) = %q, want %q", got, want)
	}
}

func TestResolveRoot_Absolute(t *testing.T) {
	dir := t.TempDir()
	if got := ResolveRoot(dir + "/sub/.."); got != dir {
		t.Errorf("ResolveRoot = %q, want %q", got, dir)
	}
}

func TestResolveRoot_TracksEnvironment(t *testing.T) {
	t.Setenv("HOME", "/tmp/home-a")
	a := ResolveRoot("~/kb")
	t.Setenv("HOME", "/tmp/home-b")
	b := ResolveRoot("~/kb")
	if a == b {
		t.Errorf("root not re-resolved: %q", a)
	}
}

func TestHasTraversal(t *testing.T) {
	yes := []string{"..", "../x", "a/../b", `a\..\b`, "a/.."}
	no := []string{"a", "a/b", "a..b", "..a", ""}
	for _, p := range yes {
		if !HasTraversal(p) {
			t.Errorf("HasTraversal(%q) = false", p)
		}
	}
	for _, p := range no {
		if HasTraversal(p) {
			t.Errorf("HasTraversal(%q) = true", p)
		}
	}
}

func TestHasHiddenSegment(t *testing.T) {
	yes := []string{".git", "a/.obsidian/b", `x\.y`, ".instructions/file.md"}
	no := []string{"a/b.md", "notes", "a.b/c"}
	for _, p := range yes {
		if !HasHiddenSegment(p) {
			t.Errorf("HasHiddenSegment(%q) = false", p)
		}
	}
	for _, p := range no {
		if HasHiddenSegment(p) {
			t.Errorf("HasHiddenSegment(%q) = true", p)
		}
	}
}

func TestWithin(t *testing.T) {
	cases := []struct {
		target       string
		within       bool
		withinStrict bool
	}{
		{"/root", true, false},
		{"/root/", true, false},
		{"/root/a", true, true},
		{"/root/a/b.md", true, true},
		{"/root-other", false, false},
		{"/root-other/a.md", false, false},
		{"/", false, false},
		{"/elsewhere/root/a", false, false},
	}
	for _, c := range cases {
		if got := Within("/root", c.target); got != c.within {
			t.Errorf("Within(%q) = %v, want %v", c.target, got, c.within)
		}
		if got := WithinStrict("/root", c.target); got != c.withinStrict {
			t.Errorf("WithinStrict(%q) = %v, want %v", c.target, got, c.withinStrict)
		}
	}
}

func TestIsGuidelines(t *testing.T) {
	if !IsGuidelines("/root", "/root/LIBRARIAN.md") {
		t.Error("root guidelines not detected")
	}
	if IsGuidelines("/root", "/root/sub/LIBRARIAN.md") {
		t.Error("nested LIBRARIAN.md is not protected")
	}
}

func relPaths(root string) []string {
	notes := CollectNotes(context.Background(), root, root)
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.Relative
	}
	sort.Strings(out)
	return out
}

func TestCollectNotes(t *testing.T) {
	root := testutil.TestRoot(t, map[string]string{
		"a.md":                    "a",
		"sub/b.md":                "b",
		"sub/deeper/c.md":         "c",
		"readme.txt":              "not a note",
		".hidden.md":              "hidden",
		".obsidian/config.md":     "hidden dir",
		"sub/.secret/d.md":        "nested hidden dir",
		".instructions/i.md":      "instructions",
		"sub/deeper/.tmp-file.md": "hidden file",
	})

	got := relPaths(root)
	want := []string{"a.md", "sub/b.md", "sub/deeper/c.md"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("notes = %v, want %v", got, want)
	}

	for _, n := range CollectNotes(context.Background(), root, root) {
		if n.Absolute != filepath.Join(root, filepath.FromSlash(n.Relative)) {
			t.Errorf("absolute %q does not match relative %q", n.Absolute, n.Relative)
		}
	}
}

func TestCollectNotes_MissingDir(t *testing.T) {
	root := t.TempDir()
	if got := CollectNotes(context.Background(), filepath.Join(root, "missing"), root); len(got) != 0 {
		t.Errorf("expected no notes, got %v", got)
	}
}

func TestCollectNotes_UnreadableSubtree(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	root := testutil.TestRoot(t, map[string]string{
		"ok.md":       "ok",
		"locked/x.md": "x",
		"other/y.md":  "y",
	})
	locked := filepath.Join(root, "locked")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	got := relPaths(root)
	if strings.Join(got, ",") != "ok.md,other/y.md" {
		t.Errorf("notes = %v", got)
	}
}

func TestCollectNotes_Cancelled(t *testing.T) {
	root := testutil.TestRoot(t, map[string]string{"a.md": "a"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := CollectNotes(ctx, root, root); len(got) != 0 {
		t.Errorf("expected nothing after cancel, got %v", got)
	}
}

func TestWriteFile(t *testing.T) {
	root := t.TempDir()
	abs := filepath.Join(root, "a", "b", "c.md")
	if err := WriteFile(abs, []byte("deep")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := WriteFile(abs, []byte("updated")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "updated" {
		t.Errorf("content = %q", data)
	}

	matches, _ := filepath.Glob(filepath.Join(root, "a", "b", ".recall-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestBootstrap(t *testing.T) {
	root := filepath.Join(t.TempDir(), "kb")
	if err := Bootstrap(root); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if got := testutil.ReadFile(t, root, GuidelinesFile); got != defaults.Guidelines {
		t.Errorf("guidelines not written")
	}
	if got := testutil.ReadFile(t, root, InstructionsDir+"/"+InstructionsFile); got != defaults.Instructions {
		t.Errorf("instructions not written")
	}
}

func TestBootstrap_KeepsEditedGuidelines(t *testing.T) {
	root := testutil.TestRoot(t, map[string]string{
		GuidelinesFile:                           "my rules",
		InstructionsDir + "/" + InstructionsFile: "stale",
	})
	if err := Bootstrap(root); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if got := testutil.ReadFile(t, root, GuidelinesFile); got != "my rules" {
		t.Errorf("guidelines overwritten: %q", got)
	}
	if got := testutil.ReadFile(t, root, InstructionsDir+"/"+InstructionsFile); got != defaults.Instructions {
		t.Errorf("instructions not refreshed: %q", got)
	}
}
