package middleware

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"notes-api/internal/metrics"
)

const internalErrorMessage = "Internal Server Error"

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET, POST, PUT, DELETE, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type",
}

// CORSHeaders returns a copy of the static CORS headers every response carries
func CORSHeaders() map[string]string {
	headers := make(map[string]string, len(corsHeaders))
	for k, v := range corsHeaders {
		headers[k] = v
	}
	return headers
}

// CORS middleware for handling Cross-Origin Resource Sharing
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		for k, v := range corsHeaders {
			c.Header(k, v)
		}
		c.Next()
	}
}

// Recovery turns panics into a 500 JSON response and counts them
func Recovery(logger *logrus.Logger, m *metrics.Manager) gin.HandlerFunc {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		if m != nil {
			m.CounterHandleRequestPanic.Inc()
		}

		logger.WithFields(logrus.Fields{
			"request_id": c.GetString(RequestIDKey),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"panic":      recovered,
		}).Error("Recovered from panic")

		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Message:   internalErrorMessage,
			RequestID: c.GetString(RequestIDKey),
		})
	})
}

// RequestMetrics counts requests and observes their duration
func RequestMetrics(m *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		m.GaugeRequests.Inc()
		defer m.GaugeRequests.Dec()

		start := time.Now()
		c.Next()

		m.ObserveRequest(c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
