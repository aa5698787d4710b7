package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"notes-api/internal/models"
)

// NoteService defines the note operations shared by every entry point
type NoteService interface {
	// ListNotes returns the collection, seeding it with a sample note when empty
	ListNotes(ctx context.Context) (models.NoteCollection, error)

	// CreateNote appends a new note with a generated id
	CreateNote(ctx context.Context, req *CreateNoteRequest) (*models.Note, error)

	// UpdateNote replaces the first note whose id matches req.ID
	UpdateNote(ctx context.Context, req *UpdateNoteRequest) (*models.Note, error)

	// DeleteNote removes every note whose id matches rawID after
	// leading-integer coercion
	DeleteNote(ctx context.Context, rawID string) error
}

// CreateNoteRequest represents a request to create a new note
type CreateNoteRequest struct {
	Title   *string `json:"title,omitempty" example:"Groceries"`
	Content *string `json:"content,omitempty" example:"Milk, eggs"`
}

// UpdateNoteRequest represents a request to replace an existing note.
// Fields left out of the request are removed from the stored note.
type UpdateNoteRequest struct {
	ID      *int64  `json:"id" validate:"required" example:"1700000000000"`
	Title   *string `json:"title,omitempty" example:"Groceries"`
	Content *string `json:"content,omitempty" example:"Milk, eggs, bread"`
}

// UnmarshalJSON accepts an id written as any integral JSON number, so
// 1700000000000, 1.7e12 and 1700000000000.0 name the same note
func (r *UpdateNoteRequest) UnmarshalJSON(data []byte) error {
	type request UpdateNoteRequest
	aux := struct {
		ID json.RawMessage `json:"id"`
		*request
	}{request: (*request)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.ID = nil
	if len(aux.ID) == 0 || bytes.Equal(aux.ID, []byte("null")) {
		return nil
	}

	id, err := decodeNoteID(aux.ID)
	if err != nil {
		return err
	}
	r.ID = &id
	return nil
}

func decodeNoteID(raw json.RawMessage) (int64, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return 0, err
	}

	number, ok := value.(json.Number)
	if !ok {
		return 0, fmt.Errorf("note id must be a number, got %s", raw)
	}

	if id, err := number.Int64(); err == nil {
		return id, nil
	}

	rat, ok := new(big.Rat).SetString(number.String())
	if !ok || !rat.IsInt() || !rat.Num().IsInt64() {
		return 0, fmt.Errorf("note id %s is not a 64-bit integer", number)
	}
	return rat.Num().Int64(), nil
}

// MessageResponse is the body returned for deletes and errors
type MessageResponse struct {
	Message string `json:"message" example:"Note deleted successfully"`
}
