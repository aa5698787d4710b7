package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"notes-api/internal/metrics"
	"notes-api/internal/middleware"
	"notes-api/internal/services"
)

// DefaultNotesRoute is where the note collection is served
const DefaultNotesRoute = "/api/notes"

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	NoteService services.NoteService
	Logger      *logrus.Logger
	Metrics     *metrics.Manager
	// Gatherer backs GET /metrics; the route is skipped when nil
	Gatherer   prometheus.Gatherer
	NotesRoute string

	RateLimitRPS   float64
	RateLimitBurst int

	HealthCheck func(*gin.Context) error
}

// SetupRoutes configures all routes and returns the note handler serving them
func SetupRoutes(router *gin.Engine, config *RouterConfig) *NoteHandler {
	noteHandler := NewNoteHandler(config.NoteService, config.Logger, config.Metrics)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		if config.HealthCheck != nil {
			if err := config.HealthCheck(c); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "unhealthy",
					"error":  err.Error(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "notes-api",
			"version": "1.0.0",
		})
	})

	if config.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(config.Gatherer, promhttp.HandlerOpts{})))
	}

	route := config.NotesRoute
	if route == "" {
		route = DefaultNotesRoute
	}

	notes := router.Group(route)
	{
		notes.GET("", noteHandler.ListNotes)
		notes.POST("", noteHandler.CreateNote)
		notes.PUT("", noteHandler.UpdateNote)
		notes.DELETE("", noteHandler.DeleteNote)
		notes.OPTIONS("", noteHandler.Preflight)
	}

	router.HandleMethodNotAllowed = true
	router.NoMethod(noteHandler.MethodNotAllowed)

	return noteHandler
}

// SetupMiddleware configures global middleware
func SetupMiddleware(router *gin.Engine, config *RouterConfig) {
	// Panics become 500 JSON responses
	router.Use(middleware.Recovery(config.Logger, config.Metrics))

	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestSizeLimit(middleware.DefaultMaxBodySize))

	if config.RateLimitRPS > 0 {
		router.Use(middleware.RateLimiter(config.Logger, config.RateLimitRPS, config.RateLimitBurst))
	}

	router.Use(middleware.RequestMetrics(config.Metrics))
	router.Use(middleware.StructuredLogger(config.Logger))
}
