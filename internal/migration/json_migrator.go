package migration

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/sirupsen/logrus"

	"notes-api/internal/adapters/storage"
	"notes-api/internal/models"
	"notes-api/internal/repositories"
	"notes-api/internal/repositories/jsonfile"
)

// JSONMigrator copies a notes.json collection into another note repository
type JSONMigrator struct {
	files     storage.FileStorage
	key       string
	source    *jsonfile.NoteStore
	target    repositories.NoteRepository
	logger    *logrus.Logger
	backupDir string
	now       func() time.Time
}

// NewJSONMigrator creates a migrator reading key from files
func NewJSONMigrator(files storage.FileStorage, key string, target repositories.NoteRepository, logger *logrus.Logger) *JSONMigrator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if key == "" {
		key = jsonfile.DefaultKey
	}
	return &JSONMigrator{
		files:     files,
		key:       key,
		source:    jsonfile.NewNoteStore(files, key, logger),
		target:    target,
		logger:    logger,
		backupDir: "backup",
		now:       time.Now,
	}
}

// MigrationResult contains the results of the migration
type MigrationResult struct {
	NotesProcessed int
	DuplicateIDs   []int64
	BackupKey      string
	Warnings       []string
}

// CheckJSONFileExists reports whether the source document is present
func (m *JSONMigrator) CheckJSONFileExists(ctx context.Context) (bool, error) {
	return m.files.Exists(ctx, m.key)
}

// MigrateFromJSON replaces the target collection with the source one. The
// source document is backed up first; a failed backup is only a warning.
func (m *JSONMigrator) MigrateFromJSON(ctx context.Context) (*MigrationResult, error) {
	start := time.Now()
	result := &MigrationResult{}

	exists, err := m.CheckJSONFileExists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", m.key, err)
	}
	if !exists {
		return nil, fmt.Errorf("notes document %s does not exist", m.key)
	}

	if backupKey, err := m.createJSONBackup(ctx); err != nil {
		m.logger.WithError(err).Warn("Failed to create JSON backup")
		result.Warnings = append(result.Warnings, fmt.Sprintf("Failed to create JSON backup: %v", err))
	} else {
		result.BackupKey = backupKey
	}

	notes, err := m.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", m.key, err)
	}

	result.DuplicateIDs = duplicateIDs(notes)
	for _, id := range result.DuplicateIDs {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Note id %d appears more than once", id))
	}

	if err := m.target.Save(ctx, notes); err != nil {
		return nil, fmt.Errorf("failed to write notes: %w", err)
	}
	result.NotesProcessed = len(notes)

	m.logger.WithFields(logrus.Fields{
		"notes":    result.NotesProcessed,
		"warnings": len(result.Warnings),
		"duration": time.Since(start),
	}).Info("JSON migration completed")

	return result, nil
}

// ValidateMigration checks that the target holds exactly the source collection
func (m *JSONMigrator) ValidateMigration(ctx context.Context) error {
	want, err := m.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", m.key, err)
	}

	got, err := m.target.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to read target: %w", err)
	}

	if len(got) != len(want) {
		return fmt.Errorf("note count mismatch: source has %d, target has %d", len(want), len(got))
	}

	for i := range want {
		if !sameNote(want[i], got[i]) {
			return fmt.Errorf("note %d differs at position %d", want[i].ID, i)
		}
	}

	m.logger.WithField("notes", len(got)).Info("Migration validation passed")
	return nil
}

// createJSONBackup copies the source document under the backup prefix
func (m *JSONMigrator) createJSONBackup(ctx context.Context) (string, error) {
	data, err := m.files.Retrieve(ctx, m.key)
	if err != nil {
		return "", err
	}

	backupKey := path.Join(m.backupDir, fmt.Sprintf("%s_%s", m.now().UTC().Format("20060102_150405"), path.Base(m.key)))
	if err := m.files.Store(ctx, backupKey, data, &storage.StoreOptions{
		ContentType: "application/json",
		Overwrite:   true,
	}); err != nil {
		return "", err
	}

	m.logger.WithField("backup_key", backupKey).Info("JSON file backed up")
	return backupKey, nil
}

func duplicateIDs(notes models.NoteCollection) []int64 {
	seen := make(map[int64]int, len(notes))
	var dups []int64
	for _, note := range notes {
		seen[note.ID]++
		if seen[note.ID] == 2 {
			dups = append(dups, note.ID)
		}
	}
	return dups
}

func sameNote(a, b models.Note) bool {
	return a.ID == b.ID &&
		equalPtr(a.Title, b.Title) &&
		equalPtr(a.Content, b.Content)
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
