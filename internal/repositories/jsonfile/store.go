// Package jsonfile stores the note collection as a single JSON document in
// a FileStorage backend.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"

	"notes-api/internal/adapters/storage"
	"notes-api/internal/models"
	"notes-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

const (
	backendName = "jsonfile"

	// DefaultKey is the document key used when none is configured
	DefaultKey = "notes.json"
)

// NoteStore implements repositories.NoteRepository on top of a FileStorage
type NoteStore struct {
	files  storage.FileStorage
	key    string
	logger *logrus.Logger
}

// NewNoteStore creates a store that keeps the collection under key
func NewNoteStore(files storage.FileStorage, key string, logger *logrus.Logger) *NoteStore {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &NoteStore{
		files:  files,
		key:    key,
		logger: logger,
	}
}

// Load implements repositories.NoteRepository.Load
func (s *NoteStore) Load(ctx context.Context) (models.NoteCollection, error) {
	data, err := s.files.Retrieve(ctx, s.key)
	if err != nil {
		if !storage.IsNotFound(err) {
			s.logger.WithError(err).WithField("key", s.key).Error("Failed to read notes document")
			return nil, repositories.ReadError(backendName, err)
		}

		s.logger.WithField("key", s.key).Info("Notes document missing, creating empty collection")
		if err := s.write(ctx, models.NoteCollection{}); err != nil {
			return nil, repositories.ReadError(backendName, err)
		}
		return models.NoteCollection{}, nil
	}

	var notes models.NoteCollection
	if err := json.Unmarshal(data, &notes); err != nil {
		s.logger.WithError(err).WithField("key", s.key).Error("Notes document is not a valid collection")
		return nil, repositories.ReadError(backendName, fmt.Errorf("decode %s: %w", s.key, err))
	}

	return notes.Clone(), nil
}

// Save implements repositories.NoteRepository.Save
func (s *NoteStore) Save(ctx context.Context, notes models.NoteCollection) error {
	if err := s.write(ctx, notes.Clone()); err != nil {
		s.logger.WithError(err).WithField("key", s.key).Error("Failed to write notes document")
		return repositories.WriteError(backendName, err)
	}

	s.logger.WithFields(logrus.Fields{
		"key":   s.key,
		"count": len(notes),
	}).Debug("Notes document written")
	return nil
}

// Close implements repositories.NoteRepository.Close
func (s *NoteStore) Close() error {
	return s.files.Close()
}

// HealthCheck verifies the backend answers existence queries
func (s *NoteStore) HealthCheck(ctx context.Context) error {
	if _, err := s.files.Exists(ctx, s.key); err != nil {
		return repositories.ConnectionError(backendName, err)
	}
	return nil
}

func (s *NoteStore) write(ctx context.Context, notes models.NoteCollection) error {
	data, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		return fmt.Errorf("encode notes: %w", err)
	}

	return s.files.Store(ctx, s.key, data, &storage.StoreOptions{
		ContentType: "application/json",
		Overwrite:   true,
	})
}
