package lambda

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"notes-api/internal/config"
	"notes-api/pkg/server"
)

// StaleAfter is how long a warm container may sit idle before IsHealthy
// reports it as stale
const StaleAfter = 5 * time.Minute

// ConnectionManager keeps one dependency container per warm Lambda
// execution environment
type ConnectionManager struct {
	container *server.Container
	lastUsed  time.Time
	mu        sync.RWMutex
	config    *config.Config
	logger    *logrus.Logger
}

// NewConnectionManager creates an empty connection manager
func NewConnectionManager(logger *logrus.Logger) *ConnectionManager {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ConnectionManager{logger: logger}
}

// Initialize builds the container from cfg unless one is already live
func (cm *ConnectionManager) Initialize(ctx context.Context, cfg *config.Config) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container != nil {
		return nil
	}

	container, err := server.NewContainer(ctx, cfg, cm.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}

	cm.config = cfg
	cm.container = container
	cm.lastUsed = time.Now()
	return nil
}

// GetContainer returns the service container, initializing it from the
// environment when necessary
func (cm *ConnectionManager) GetContainer(ctx context.Context) (*server.Container, error) {
	cm.mu.Lock()
	if cm.container != nil {
		cm.lastUsed = time.Now()
		container := cm.container
		cm.mu.Unlock()
		return container, nil
	}
	cfg := cm.config
	cm.mu.Unlock()

	if cfg == nil {
		var err error
		if cfg, err = config.GetOptimizedConfig(); err != nil {
			return nil, err
		}
	}

	if err := cm.Initialize(ctx, cfg); err != nil {
		return nil, err
	}

	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.container, nil
}

// IsHealthy checks if the connection manager holds a recently used container
func (cm *ConnectionManager) IsHealthy() bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if cm.container == nil {
		return false
	}

	return time.Since(cm.lastUsed) < StaleAfter
}

// Cleanup closes the container. The next GetContainer call rebuilds it from
// the last configuration.
func (cm *ConnectionManager) Cleanup() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container != nil {
		if err := cm.container.Close(); err != nil {
			return err
		}
		cm.container = nil
	}

	return nil
}
