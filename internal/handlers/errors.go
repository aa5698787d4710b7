package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"notes-api/internal/services"
)

// Operation results reported to metrics
const (
	resultOK       = "ok"
	resultNotFound = "not_found"
	resultInvalid  = "invalid"
	resultError    = "error"
)

// fail maps a service error onto a status and client-facing body.
// Unexpected errors are logged and never echoed to the client.
func (h *NoteHandler) fail(ctx context.Context, operation string, err error) (int, interface{}) {
	var validationErr *services.ValidationError

	switch {
	case errors.As(err, &validationErr):
		h.metrics.ObserveNoteOperation(operation, resultInvalid)
		h.logger.WithFields(logrus.Fields{
			"operation": operation,
			"error":     err.Error(),
		}).Debug("Rejected note request")
		return http.StatusBadRequest, services.MessageResponse{Message: validationErr.Message}

	case services.IsNotFound(err):
		h.metrics.ObserveNoteOperation(operation, resultNotFound)
		return http.StatusNotFound, services.MessageResponse{Message: services.MessageNoteNotFound}

	default:
		h.metrics.ObserveNoteOperation(operation, resultError)
		entry := h.logger.WithFields(logrus.Fields{
			"operation": operation,
			"error":     err.Error(),
		})
		if ctx.Err() != nil {
			entry = entry.WithField("context_error", ctx.Err().Error())
		}
		entry.Error("Note operation failed")
		return http.StatusInternalServerError, services.MessageResponse{Message: services.MessageInternalError}
	}
}
