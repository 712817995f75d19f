package model

import (
	"strings"

	"github.com/google/uuid"
)

// Record is the domain model for a todo entry.
// ID is process-local: it is assigned when the record enters the in-memory
// list and is never written to the snapshot.
type Record struct {
	ID          string `json:"-" yaml:"-"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// NewID returns a fresh record identifier.
func NewID() string { return uuid.NewString() }

// NewRecord builds a record with a fresh ID and a trimmed title.
func NewRecord(title, description string) Record {
	return Record{ID: NewID(), Title: strings.TrimSpace(title), Description: description}
}

// ValidTitle reports whether title is non-empty after trimming.
func ValidTitle(title string) bool { return strings.TrimSpace(title) != "" }

// Equal compares the persisted fields only.
func (r Record) Equal(o Record) bool {
	return r.Title == o.Title && r.Description == o.Description
}
