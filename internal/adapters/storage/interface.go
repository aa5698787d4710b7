package storage

import (
	"context"
)

// StoreOptions provides options for storing documents
type StoreOptions struct {
	ContentType string `json:"content_type,omitempty"`
	Overwrite   bool   `json:"overwrite,omitempty"`
}

// FileStorage is a key/value blob store holding whole documents.
// Implementations must replace a document in a single step: a reader sees
// either the previous or the new content, never a partial write.
type FileStorage interface {
	// Store saves data under key
	Store(ctx context.Context, key string, data []byte, opts *StoreOptions) error

	// Retrieve gets a document by its key
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// Exists checks if a document exists at the given key
	Exists(ctx context.Context, key string) (bool, error)

	// Close cleans up any resources used by the storage implementation
	Close() error
}

// StorageConfig represents configuration for storage providers
type StorageConfig struct {
	Type     string `json:"type" yaml:"type"`           // "local" or "mock"
	BasePath string `json:"base_path" yaml:"base_path"` // For local storage
}
