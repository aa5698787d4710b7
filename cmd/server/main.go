package main

//go:generate swag init --dir ../../ --generalInfo internal/handlers/swagger.go --output ../../docs

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	_ "notes-api/docs"
	"notes-api/internal/config"
	"notes-api/internal/handlers"
	"notes-api/internal/logging"
	"notes-api/pkg/server"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger, logCloser := logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Log.File,
		LogToStdout:   true,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.Format == "json",
	})
	defer logCloser.Close()

	// Initialize dependencies
	container, err := server.NewContainer(context.Background(), cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize container")
	}
	defer container.Close()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	routerConfig := &handlers.RouterConfig{
		NoteService:    container.NoteService,
		Logger:         logger,
		Metrics:        container.Metrics,
		Gatherer:       container.Registry,
		NotesRoute:     cfg.NotesRoute,
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
		HealthCheck: func(c *gin.Context) error {
			return container.HealthCheck(c.Request.Context())
		},
	}

	// Middleware must be registered before the routes it wraps
	router := gin.New()
	handlers.SetupMiddleware(router, routerConfig)
	handlers.SetupRoutes(router, routerConfig)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	logger.WithFields(logrus.Fields{
		"port":         cfg.Port,
		"notes_route":  cfg.NotesRoute,
		"store_driver": cfg.Store.Driver,
	}).Info("Server started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
