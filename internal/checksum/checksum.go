// Package checksum tracks content digests of notes so that repeated
// filesystem events for unchanged files can be told apart from real edits.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Set maps relative note paths to their last observed digest.
// It is not safe for concurrent use.
type Set struct {
	sums map[string]string
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{sums: make(map[string]string)}
}

// Observe records data as the current content of path. known reports
// whether path had been observed before; changed is false only when the
// content is identical to the previous observation.
func (s *Set) Observe(path string, data []byte) (known, changed bool) {
	sum := Sum(data)
	prev, known := s.sums[path]
	s.sums[path] = sum
	return known, !known || prev != sum
}

// Known reports whether path is tracked.
func (s *Set) Known(path string) bool {
	_, ok := s.sums[path]
	return ok
}

// Forget stops tracking path.
func (s *Set) Forget(path string) {
	delete(s.sums, path)
}

// Len returns the number of tracked paths.
func (s *Set) Len() int {
	return len(s.sums)
}
