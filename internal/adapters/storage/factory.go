package storage

import (
	"fmt"
	"strings"
)

// StorageType represents the type of storage implementation
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeMock  StorageType = "mock"
)

// Factory creates FileStorage instances based on configuration
type Factory struct {
	retryConfig *RetryConfig
}

// NewFactory creates a new storage factory. A nil retryConfig disables
// the retry wrapper.
func NewFactory(retryConfig *RetryConfig) *Factory {
	return &Factory{
		retryConfig: retryConfig,
	}
}

// Create creates a FileStorage instance based on the provided configuration
func (f *Factory) Create(config *StorageConfig) (FileStorage, error) {
	if config == nil {
		return nil, fmt.Errorf("storage config is required")
	}

	var storage FileStorage
	var err error

	switch StorageType(strings.ToLower(config.Type)) {
	case StorageTypeLocal, "":
		storage, err = f.createLocalStorage(config)
	case StorageTypeMock:
		storage = NewMockFileStorage()
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", config.Type)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create %s storage: %w", config.Type, err)
	}

	if f.retryConfig != nil && f.retryConfig.MaxAttempts > 1 {
		storage = NewRetryableFileStorage(storage, f.retryConfig)
	}

	return storage, nil
}

func (f *Factory) createLocalStorage(config *StorageConfig) (FileStorage, error) {
	basePath := config.BasePath
	if basePath == "" {
		basePath = "./data"
	}
	return NewLocalFileStorage(basePath)
}

// DefaultFactory returns a factory with default retry configuration
func DefaultFactory() *Factory {
	return NewFactory(DefaultRetryConfig())
}
