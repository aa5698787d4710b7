package repositories

import (
	"context"

	"notes-api/internal/models"
)

// NoteRepository persists the note collection as a whole.
// Every call reads or replaces the entire collection; there are no
// per-note operations at this layer.
type NoteRepository interface {
	// Load returns the full collection. A missing backing collection is
	// created empty and returned as such.
	Load(ctx context.Context) (models.NoteCollection, error)

	// Save replaces the full collection
	Save(ctx context.Context, notes models.NoteCollection) error

	// Close releases resources held by the store
	Close() error
}

// HealthChecker is implemented by stores that can report on their backing
// resource
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
