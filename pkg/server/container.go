package server

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"notes-api/internal/adapters/storage"
	"notes-api/internal/config"
	"notes-api/internal/database"
	"notes-api/internal/metrics"
	"notes-api/internal/repositories"
	"notes-api/internal/repositories/jsonfile"
	"notes-api/internal/repositories/sqlite"
	"notes-api/internal/services"
)

const metricsNamespace = "notes"

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logrus.Logger
	NoteService services.NoteService
	Metrics     *metrics.Manager
	Registry    *prometheus.Registry

	// Internal dependencies
	repo repositories.NoteRepository
	db   *database.ConnectionManager
}

// NewContainer wires the note repository selected by cfg.Store.Driver into
// a note service
func NewContainer(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	container := &Container{
		Config:   cfg,
		Logger:   logger,
		Metrics:  metrics.NewManager(metricsNamespace, config.GetDeploymentMode(), registry),
		Registry: registry,
	}

	var err error
	switch cfg.Store.Driver {
	case config.StoreDriverSQLite:
		err = container.openSQLiteStore(ctx)
	case config.StoreDriverFile, "":
		err = container.openFileStore()
	default:
		err = fmt.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
	if err != nil {
		_ = container.Close()
		return nil, err
	}

	container.NoteService = services.NewNoteService(container.repo, logger)
	container.Metrics.GaugeLifeSignal.Set(1)

	logger.WithFields(logrus.Fields{
		"store_driver": cfg.Store.Driver,
		"mode":         config.GetDeploymentMode(),
	}).Info("Container initialized")

	return container, nil
}

func (c *Container) openFileStore() error {
	retry := storage.DefaultRetryConfig()
	retry.MaxAttempts = c.Config.Storage.RetryAttempts

	files, err := storage.NewFactory(retry).Create(&storage.StorageConfig{
		Type:     c.Config.Storage.Type,
		BasePath: c.Config.Storage.LocalPath,
	})
	if err != nil {
		return fmt.Errorf("failed to create file storage: %w", err)
	}

	c.repo = jsonfile.NewNoteStore(files, c.Config.Store.Key, c.Logger)
	return nil
}

func (c *Container) openSQLiteStore(ctx context.Context) error {
	db := database.NewConnectionManager(c.Config.Database.ToConnectionConfig(c.Logger))
	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	c.db = db
	c.repo = sqlite.NewNoteStore(db.GetDB(), c.Logger)
	return nil
}

// HealthCheck reports whether the configured store is reachable
func (c *Container) HealthCheck(ctx context.Context) error {
	if checker, ok := c.repo.(repositories.HealthChecker); ok {
		return checker.HealthCheck(ctx)
	}
	return nil
}

// Repository returns the note repository behind NoteService
func (c *Container) Repository() repositories.NoteRepository {
	return c.repo
}

// Close cleans up all resources
func (c *Container) Close() error {
	if c.Metrics != nil {
		c.Metrics.GaugeLifeSignal.Set(0)
	}

	if c.repo != nil {
		if err := c.repo.Close(); err != nil {
			return fmt.Errorf("failed to close note repository: %w", err)
		}
		c.repo = nil
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		c.db = nil
	}

	return nil
}
