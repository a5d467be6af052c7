// Package storage resolves the knowledge-base root and provides the
// filesystem primitives shared by the kb operations.
package storage

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultDir is the storage root used when nothing overrides it.
const DefaultDir = "~/.agent-docs"

// ExpandHome replaces a leading "~" in p with home and joins the remainder.
// Any other path is returned unchanged.
func ExpandHome(p, home string) string {
	if !strings.HasPrefix(p, "~") {
		return p
	}
	return filepath.Join(home, p[1:])
}

// ResolveRoot turns a configured storage directory (or DefaultDir when
// override is blank) into a cleaned absolute path. It is cheap and is
// called for every operation so configuration changes take effect
// immediately.
func ResolveRoot(override string) string {
	p := strings.TrimSpace(override)
	if p == "" {
		p = DefaultDir
	}
	if strings.HasPrefix(p, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		p = ExpandHome(p, home)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}
