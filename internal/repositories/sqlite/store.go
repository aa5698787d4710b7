// Package sqlite stores the note collection in a sqlite table, one row per
// note, ordered by position.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"notes-api/internal/models"
	"notes-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

const (
	backendName = "sqlite"
	table       = "notes"
)

// NoteStore implements repositories.NoteRepository for SQLite
type NoteStore struct {
	db     *sql.DB
	logger *logrus.Logger
}

// NewNoteStore creates a new SQLite note store. The notes table must
// already exist (see internal/database migrations).
func NewNoteStore(db *sql.DB, logger *logrus.Logger) *NoteStore {
	if logger == nil {
		logger = logrus.New()
	}
	return &NoteStore{
		db:     db,
		logger: logger,
	}
}

// Load implements repositories.NoteRepository.Load
func (s *NoteStore) Load(ctx context.Context) (models.NoteCollection, error) {
	query := `SELECT id, title, content FROM notes ORDER BY position`

	start := time.Now()
	rows, err := s.db.QueryContext(ctx, query)
	s.logQuery("load", query, time.Since(start), err)
	if err != nil {
		return nil, repositories.ReadError(backendName, err)
	}
	defer rows.Close()

	notes := models.NoteCollection{}
	for rows.Next() {
		var (
			note    models.Note
			title   sql.NullString
			content sql.NullString
		)
		if err := rows.Scan(&note.ID, &title, &content); err != nil {
			return nil, repositories.ReadError(backendName, fmt.Errorf("scan note: %w", err))
		}
		note.Title = nullableString(title)
		note.Content = nullableString(content)
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, repositories.ReadError(backendName, err)
	}

	return notes, nil
}

// Save implements repositories.NoteRepository.Save. The whole table is
// replaced inside one transaction.
func (s *NoteStore) Save(ctx context.Context, notes models.NoteCollection) (err error) {
	start := time.Now()
	defer func() {
		s.logQuery("save", "replace notes", time.Since(start), err)
	}()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return repositories.WriteError(backendName, fmt.Errorf("begin transaction: %w", err))
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.WithError(rbErr).Error("Failed to rollback transaction")
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM notes`); err != nil {
		return repositories.WriteError(backendName, fmt.Errorf("clear notes: %w", err))
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO notes (position, id, title, content) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return repositories.WriteError(backendName, fmt.Errorf("prepare insert: %w", err))
	}
	defer stmt.Close()

	for i, note := range notes {
		if _, err = stmt.ExecContext(ctx, i, note.ID, note.Title, note.Content); err != nil {
			return repositories.WriteError(backendName, fmt.Errorf("insert note %d: %w", note.ID, err))
		}
	}

	if err = tx.Commit(); err != nil {
		return repositories.WriteError(backendName, fmt.Errorf("commit: %w", err))
	}

	return nil
}

// Close implements repositories.NoteRepository.Close. The connection is
// owned by the database.ConnectionManager, so nothing is released here.
func (s *NoteStore) Close() error {
	return nil
}

// HealthCheck pings the database
func (s *NoteStore) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return repositories.ConnectionError(backendName, err)
	}
	return nil
}

func (s *NoteStore) logQuery(operation, query string, duration time.Duration, err error) {
	fields := logrus.Fields{
		"operation": operation,
		"table":     table,
		"query":     query,
		"duration":  duration,
	}

	if err != nil {
		fields["error"] = err.Error()
		s.logger.WithFields(fields).Error("Query failed")
	} else {
		s.logger.WithFields(fields).Debug("Query executed")
	}
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	value := s.String
	return &value
}
