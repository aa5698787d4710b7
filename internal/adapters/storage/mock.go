package storage

import (
	"context"
	"sync"
)

// MockFileStorage is an in-memory implementation of FileStorage for testing
type MockFileStorage struct {
	mu       sync.RWMutex
	files    map[string][]byte
	failures map[string][]error
	calls    map[string]int
}

// NewMockFileStorage creates a new MockFileStorage instance
func NewMockFileStorage() *MockFileStorage {
	return &MockFileStorage{
		files:    make(map[string][]byte),
		failures: make(map[string][]error),
		calls:    make(map[string]int),
	}
}

// FailNext queues err to be returned by the next call of op
// ("Store", "Retrieve" or "Exists").
func (m *MockFileStorage) FailNext(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[op] = append(m.failures[op], err)
}

// Calls returns how many times op has been invoked
func (m *MockFileStorage) Calls(op string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[op]
}

// must be called with m.mu held
func (m *MockFileStorage) nextFailure(op string) error {
	m.calls[op]++
	queued := m.failures[op]
	if len(queued) == 0 {
		return nil
	}
	m.failures[op] = queued[1:]
	return queued[0]
}

// Store implements FileStorage.Store
func (m *MockFileStorage) Store(ctx context.Context, key string, data []byte, opts *StoreOptions) error {
	if key == "" {
		return NewStorageError("Store", key, ErrInvalidKey, false)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.nextFailure("Store"); err != nil {
		return err
	}

	if opts != nil && !opts.Overwrite {
		if _, exists := m.files[key]; exists {
			return NewStorageError("Store", key, ErrFileAlreadyExists, false)
		}
	}

	m.files[key] = append([]byte(nil), data...)
	return nil
}

// Retrieve implements FileStorage.Retrieve
func (m *MockFileStorage) Retrieve(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, NewStorageError("Retrieve", key, ErrInvalidKey, false)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.nextFailure("Retrieve"); err != nil {
		return nil, err
	}

	data, exists := m.files[key]
	if !exists {
		return nil, NewStorageError("Retrieve", key, ErrFileNotFound, false)
	}

	return append([]byte(nil), data...), nil
}

// Exists implements FileStorage.Exists
func (m *MockFileStorage) Exists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, NewStorageError("Exists", key, ErrInvalidKey, false)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.nextFailure("Exists"); err != nil {
		return false, err
	}

	_, exists := m.files[key]
	return exists, nil
}

// Close implements FileStorage.Close
func (m *MockFileStorage) Close() error {
	return nil
}

// Reset clears all stored documents and queued failures
func (m *MockFileStorage) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files = make(map[string][]byte)
	m.failures = make(map[string][]error)
	m.calls = make(map[string]int)
}

// Put seeds a document without going through Store
func (m *MockFileStorage) Put(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[key] = append([]byte(nil), data...)
}

// Get returns the raw document stored under key
func (m *MockFileStorage) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[key]
	return append([]byte(nil), data...), ok
}
