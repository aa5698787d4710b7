package server

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"notes-api/internal/config"
	"notes-api/internal/services"
)

func testConfig(t *testing.T, driver string) *config.Config {
	t.Helper()
	dir := t.TempDir()

	return &config.Config{
		Environment: "test",
		Port:        "8080",
		NotesRoute:  "/api/notes",
		Store: config.StoreConfig{
			Driver: driver,
			Key:    "notes.json",
		},
		Storage: config.StorageConfig{
			Type:          "local",
			LocalPath:     dir,
			RetryAttempts: 2,
		},
		Database: config.DatabaseConfig{
			Path:         filepath.Join(dir, "notes.db"),
			MaxOpenConns: 1,
			MaxIdleConns: 1,
			AutoMigrate:  true,
		},
	}
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

// TestNewContainer verifies that every store driver yields a working note service
func TestNewContainer(t *testing.T) {
	for _, driver := range []string{config.StoreDriverFile, config.StoreDriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()

			container, err := NewContainer(ctx, testConfig(t, driver), testLogger())
			if err != nil {
				t.Fatalf("Failed to create container: %v", err)
			}
			defer container.Close()

			if container.NoteService == nil {
				t.Fatal("NoteService is nil")
			}
			if container.Metrics == nil || container.Registry == nil {
				t.Fatal("Metrics are not initialized")
			}

			if err := container.HealthCheck(ctx); err != nil {
				t.Errorf("HealthCheck failed: %v", err)
			}

			title := "T1"
			created, err := container.NoteService.CreateNote(ctx, &services.CreateNoteRequest{Title: &title})
			if err != nil {
				t.Fatalf("CreateNote failed: %v", err)
			}

			notes, err := container.NoteService.ListNotes(ctx)
			if err != nil {
				t.Fatalf("ListNotes failed: %v", err)
			}
			if len(notes) != 1 || notes[0].ID != created.ID {
				t.Errorf("Expected the created note, got %+v", notes)
			}
		})
	}
}

func TestNewContainer_Errors(t *testing.T) {
	ctx := context.Background()

	if _, err := NewContainer(ctx, nil, nil); err == nil {
		t.Error("Expected error for nil config")
	}

	cfg := testConfig(t, "postgres")
	if _, err := NewContainer(ctx, cfg, testLogger()); err == nil {
		t.Error("Expected error for unsupported driver")
	}

	cfg = testConfig(t, config.StoreDriverFile)
	cfg.Storage.Type = "s3"
	if _, err := NewContainer(ctx, cfg, testLogger()); err == nil {
		t.Error("Expected error for unsupported storage type")
	}
}

func TestContainer_CloseIsIdempotent(t *testing.T) {
	container, err := NewContainer(context.Background(), testConfig(t, config.StoreDriverSQLite), testLogger())
	if err != nil {
		t.Fatalf("Failed to create container: %v", err)
	}

	if err := container.Close(); err != nil {
		t.Fatalf("First close failed: %v", err)
	}
	if err := container.Close(); err != nil {
		t.Errorf("Second close failed: %v", err)
	}
}
