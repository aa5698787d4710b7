package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"notes-api/internal/models"
	"notes-api/internal/repositories"
)

// noteService implements the NoteService interface
type noteService struct {
	repo      repositories.NoteRepository
	ids       *IDGenerator
	validator *validator.Validate
	logger    *logrus.Logger

	// serialises load-modify-save cycles within this process
	mu sync.Mutex
}

// NewNoteService creates a new note service instance
func NewNoteService(repo repositories.NoteRepository, logger *logrus.Logger) NoteService {
	return NewNoteServiceWithIDs(repo, NewIDGenerator(nil), logger)
}

// NewNoteServiceWithIDs creates a note service using the given id generator
func NewNoteServiceWithIDs(repo repositories.NoteRepository, ids *IDGenerator, logger *logrus.Logger) NoteService {
	if logger == nil {
		logger = logrus.New()
	}
	if ids == nil {
		ids = NewIDGenerator(nil)
	}
	return &noteService{
		repo:      repo,
		ids:       ids,
		validator: validator.New(),
		logger:    logger,
	}
}

// ListNotes returns all notes
func (s *noteService) ListNotes(ctx context.Context) (models.NoteCollection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Debug("Getting notes")

	notes, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load notes: %w", err)
	}

	if len(notes) == 0 {
		notes = models.NoteCollection{models.NewSampleNote()}
		if err := s.repo.Save(ctx, notes); err != nil {
			return nil, fmt.Errorf("failed to seed notes: %w", err)
		}
		s.logger.WithField("note_id", models.SampleNoteID).Info("Seeded empty collection with sample note")
	}

	s.logger.WithField("count", len(notes)).Debug("Returning notes")
	return notes, nil
}

// CreateNote creates a new note
func (s *noteService) CreateNote(ctx context.Context, req *CreateNoteRequest) (*models.Note, error) {
	if req == nil {
		return nil, NewValidationError(MessageInvalidRequestBody, fmt.Errorf("create note request cannot be nil"))
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, InvalidBody(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load notes: %w", err)
	}

	id := s.ids.Next()
	for notes.IndexOf(id) != -1 {
		id = s.ids.Next()
	}

	note := models.NewNote(id, req.Title, req.Content)
	notes = append(notes, note)

	if err := s.repo.Save(ctx, notes); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"note_id": note.ID,
		"title":   note.GetTitle(),
	}).Debug("New note added")

	return &note, nil
}

// UpdateNote replaces an existing note
func (s *noteService) UpdateNote(ctx context.Context, req *UpdateNoteRequest) (*models.Note, error) {
	if req == nil {
		return nil, NewValidationError(MessageInvalidRequestBody, fmt.Errorf("update note request cannot be nil"))
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, NewValidationError(MessageNoteIDRequired, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load notes: %w", err)
	}

	idx := notes.IndexOf(*req.ID)
	if idx == -1 {
		s.logger.WithField("note_id", *req.ID).Debug("Note to update not found")
		return nil, ErrNoteNotFound
	}

	notes[idx] = models.NewNote(*req.ID, req.Title, req.Content)

	if err := s.repo.Save(ctx, notes); err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	updated := notes[idx]
	s.logger.WithField("note_id", updated.ID).Debug("Updated note")
	return &updated, nil
}

// DeleteNote deletes notes by id
func (s *noteService) DeleteNote(ctx context.Context, rawID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.WithField("raw_id", rawID).Debug("Deleting note")

	notes, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load notes: %w", err)
	}

	id, ok := models.ParseNoteID(rawID)
	if !ok {
		return ErrNoteNotFound
	}

	remaining, removed := notes.Without(id)
	if removed == 0 {
		return ErrNoteNotFound
	}

	if err := s.repo.Save(ctx, remaining); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"note_id": id,
		"removed": removed,
	}).Debug("Note deleted successfully")
	return nil
}
