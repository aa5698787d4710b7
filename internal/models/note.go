package models

import (
	"strconv"
	"strings"
)

// Seed note written when the collection is listed while empty
const (
	SampleNoteID      int64 = 15345563453
	SampleNoteTitle         = "Sample Note"
	SampleNoteContent       = "This is a sample note."
)

// Note represents a single note. Title and Content are optional and are
// omitted from the stored document when absent.
type Note struct {
	ID      int64   `json:"id" db:"id" example:"15345563453"`
	Title   *string `json:"title,omitempty" db:"title" example:"Sample Note"`
	Content *string `json:"content,omitempty" db:"content" example:"This is a sample note."`
}

// NewNote creates a note with the given id and fields
func NewNote(id int64, title, content *string) Note {
	return Note{
		ID:      id,
		Title:   title,
		Content: content,
	}
}

// NewSampleNote returns the seed note
func NewSampleNote() Note {
	title := SampleNoteTitle
	content := SampleNoteContent
	return NewNote(SampleNoteID, &title, &content)
}

// GetTitle returns the title or an empty string
func (n Note) GetTitle() string {
	if n.Title == nil {
		return ""
	}
	return *n.Title
}

// GetContent returns the content or an empty string
func (n Note) GetContent() string {
	if n.Content == nil {
		return ""
	}
	return *n.Content
}

// NoteCollection is the ordered set of notes persisted as a whole
type NoteCollection []Note

// IndexOf returns the position of the first note with id, or -1
func (c NoteCollection) IndexOf(id int64) int {
	for i, note := range c {
		if note.ID == id {
			return i
		}
	}
	return -1
}

// Without returns a copy of the collection minus every note with id, along
// with the number of notes removed.
func (c NoteCollection) Without(id int64) (NoteCollection, int) {
	kept := make(NoteCollection, 0, len(c))
	for _, note := range c {
		if note.ID != id {
			kept = append(kept, note)
		}
	}
	return kept, len(c) - len(kept)
}

// Clone returns a shallow copy of the collection
func (c NoteCollection) Clone() NoteCollection {
	if c == nil {
		return NoteCollection{}
	}
	return append(NoteCollection(nil), c...)
}

// ParseNoteID coerces a query value to a note id using leading-integer
// semantics: surrounding whitespace is skipped, an optional sign is
// accepted, and parsing stops at the first non-digit ("12abc" is 12).
// A "0x" prefix switches to hexadecimal. ok is false when no digits are
// found or the value does not fit in an int64.
func ParseNoteID(raw string) (id int64, ok bool) {
	s := strings.TrimLeft(raw, " \t\n\r\v\f")

	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}

	base := 10
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}

	end := 0
	for end < len(s) && isDigit(s[end], base) {
		end++
	}
	if end == 0 {
		return 0, false
	}

	digits := s[:end]
	if negative {
		digits = "-" + digits
	}

	id, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func isDigit(c byte, base int) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case base == 16 && c >= 'a' && c <= 'f':
		return true
	case base == 16 && c >= 'A' && c <= 'F':
		return true
	}
	return false
}
