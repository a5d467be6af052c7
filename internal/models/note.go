// Package models defines the domain types for the knowledge base.
package models

import "time"

// NoteFile locates a note on disk.
type NoteFile struct {
	Absolute string `json:"-"`
	Relative string `json:"path"` // slash-separated, relative to the storage root
}

// Note is a loaded note together with the data used to rank it.
type Note struct {
	Path    string    `json:"path"`
	Content string    `json:"content"`
	ModTime time.Time `json:"updated_at"`
	Score   int       `json:"score,omitempty"`
}

// Header is the metadata prologue written at the top of every note.
type Header struct {
	Title   string   `yaml:"title"`
	Created string   `yaml:"created"`
	Updated string   `yaml:"updated"`
	Tags    []string `yaml:"tags,omitempty"`
}
