package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const tempFilePrefix = ".notes-tmp-"

// LocalFileStorage implements FileStorage for local filesystem
type LocalFileStorage struct {
	basePath string
}

// NewLocalFileStorage creates a new LocalFileStorage instance
func NewLocalFileStorage(basePath string) (*LocalFileStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, NewStorageError("NewLocalFileStorage", "", err, false)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, NewStorageError("NewLocalFileStorage", "", err, false)
	}

	return &LocalFileStorage{
		basePath: absPath,
	}, nil
}

// BasePath returns the absolute directory documents are stored in
func (l *LocalFileStorage) BasePath() string {
	return l.basePath
}

// Store implements FileStorage.Store
func (l *LocalFileStorage) Store(ctx context.Context, key string, data []byte, opts *StoreOptions) error {
	if err := l.validateKey(key); err != nil {
		return NewStorageError("Store", key, err, false)
	}
	if err := ctx.Err(); err != nil {
		return NewStorageError("Store", key, classify(err), false)
	}

	filePath := l.getFilePath(key)

	if opts != nil && !opts.Overwrite {
		if _, err := os.Stat(filePath); err == nil {
			return NewStorageError("Store", key, ErrFileAlreadyExists, false)
		}
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return NewStorageError("Store", key, classify(err), isTransient(err))
	}

	if err := writeFileAtomic(filePath, data, 0644); err != nil {
		return NewStorageError("Store", key, classify(err), isTransient(err))
	}

	return nil
}

// Retrieve implements FileStorage.Retrieve
func (l *LocalFileStorage) Retrieve(ctx context.Context, key string) ([]byte, error) {
	if err := l.validateKey(key); err != nil {
		return nil, NewStorageError("Retrieve", key, err, false)
	}
	if err := ctx.Err(); err != nil {
		return nil, NewStorageError("Retrieve", key, classify(err), false)
	}

	data, err := os.ReadFile(l.getFilePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewStorageError("Retrieve", key, ErrFileNotFound, false)
		}
		return nil, NewStorageError("Retrieve", key, classify(err), isTransient(err))
	}

	return data, nil
}

// Exists implements FileStorage.Exists
func (l *LocalFileStorage) Exists(ctx context.Context, key string) (bool, error) {
	if err := l.validateKey(key); err != nil {
		return false, NewStorageError("Exists", key, err, false)
	}

	info, err := os.Stat(l.getFilePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, NewStorageError("Exists", key, classify(err), isTransient(err))
	}
	if info.IsDir() {
		return false, NewStorageError("Exists", key, ErrInvalidKey, false)
	}

	return true, nil
}

// Close implements FileStorage.Close
func (l *LocalFileStorage) Close() error {
	return nil
}

func (l *LocalFileStorage) validateKey(key string) error {
	if key == "" {
		return ErrInvalidKey
	}

	// Prevent directory traversal
	if strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return ErrInvalidKey
	}

	return nil
}

func (l *LocalFileStorage) getFilePath(key string) string {
	return filepath.Join(l.basePath, filepath.FromSlash(key))
}

// writeFileAtomic writes to a temp file in the target directory and renames
// it over filename.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(filename), tempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpFile.Name(), perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", filename, err)
	}

	return nil
}

// classify maps a filesystem or context error onto the storage sentinels
func classify(err error) error {
	switch {
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		return err
	case isTransient(err):
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return err
}

// isTransient reports whether a filesystem error is worth retrying.
func isTransient(err error) bool {
	return !errors.Is(err, os.ErrPermission) && !errors.Is(err, os.ErrNotExist)
}
