package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"notes-api/internal/metrics"
	"notes-api/internal/middleware"
	"notes-api/internal/services"
	"notes-api/pkg/lambda"
)

// NoteHandler handles note requests for both the gin server and the
// Lambda function
type NoteHandler struct {
	noteService services.NoteService
	logger      *logrus.Logger
	metrics     *metrics.Manager
}

// NewNoteHandler creates a new note handler. metricsManager may be nil.
func NewNoteHandler(noteService services.NoteService, logger *logrus.Logger, metricsManager *metrics.Manager) *NoteHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &NoteHandler{
		noteService: noteService,
		logger:      logger,
		metrics:     metricsManager,
	}
}

// @Summary List notes
// @Description Get every note. An empty collection is seeded with a sample note first.
// @Tags notes
// @Produce json
// @Success 200 {array} models.Note
// @Failure 500 {object} services.MessageResponse
// @Router /notes [get]
func (h *NoteHandler) ListNotes(c *gin.Context) {
	c.JSON(h.listNotes(c.Request.Context()))
}

// @Summary Create a note
// @Description Append a note whose id is generated from the current time
// @Tags notes
// @Accept json
// @Produce json
// @Param note body services.CreateNoteRequest true "Note data"
// @Success 201 {object} models.Note
// @Failure 400 {object} services.MessageResponse
// @Failure 500 {object} services.MessageResponse
// @Router /notes [post]
func (h *NoteHandler) CreateNote(c *gin.Context) {
	var req services.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(h.fail(c.Request.Context(), "create", services.InvalidBody(err)))
		return
	}

	c.JSON(h.createNote(c.Request.Context(), &req))
}

// @Summary Update a note
// @Description Replace the note with the given id. Omitted fields are removed.
// @Tags notes
// @Accept json
// @Produce json
// @Param note body services.UpdateNoteRequest true "Note data"
// @Success 200 {object} models.Note
// @Failure 400 {object} services.MessageResponse
// @Failure 404 {object} services.MessageResponse
// @Failure 500 {object} services.MessageResponse
// @Router /notes [put]
func (h *NoteHandler) UpdateNote(c *gin.Context) {
	var req services.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(h.fail(c.Request.Context(), "update", services.InvalidBody(err)))
		return
	}

	c.JSON(h.updateNote(c.Request.Context(), &req))
}

// @Summary Delete a note
// @Description Delete every note with the given id
// @Tags notes
// @Produce json
// @Param id query string true "Note ID"
// @Success 200 {object} services.MessageResponse
// @Failure 404 {object} services.MessageResponse
// @Failure 500 {object} services.MessageResponse
// @Router /notes [delete]
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	c.JSON(h.deleteNote(c.Request.Context(), c.Query("id")))
}

// @Summary CORS preflight
// @Tags notes
// @Success 204
// @Router /notes [options]
func (h *NoteHandler) Preflight(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// MethodNotAllowed answers methods the notes route does not serve
func (h *NoteHandler) MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, methodNotAllowed(c.Request.Method))
}

// HandleRequest dispatches a Lambda request on its HTTP method
func (h *NoteHandler) HandleRequest(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	start := time.Now()

	var resp *lambda.Response
	switch req.Method {
	case http.MethodOptions:
		resp = &lambda.Response{StatusCode: http.StatusNoContent}
	case http.MethodGet:
		resp = h.HandleList(ctx, req)
	case http.MethodPost:
		resp = h.HandleCreate(ctx, req)
	case http.MethodPut:
		resp = h.HandleUpdate(ctx, req)
	case http.MethodDelete:
		resp = h.HandleDelete(ctx, req)
	default:
		resp = h.jsonResponse(http.StatusMethodNotAllowed, methodNotAllowed(req.Method))
	}

	resp.Headers = withCORSHeaders(resp.Headers)
	h.metrics.ObserveRequest(req.Method, resp.StatusCode, time.Since(start))

	h.logger.WithFields(logrus.Fields{
		"method":      req.Method,
		"path":        req.Path,
		"status_code": resp.StatusCode,
		"latency_ms":  float64(time.Since(start).Nanoseconds()) / 1000000,
	}).Debug("Lambda request handled")

	return resp, nil
}

// HandleList is the Lambda form of ListNotes
func (h *NoteHandler) HandleList(ctx context.Context, req *lambda.Request) *lambda.Response {
	return h.jsonResponse(h.listNotes(ctx))
}

// HandleCreate is the Lambda form of CreateNote
func (h *NoteHandler) HandleCreate(ctx context.Context, req *lambda.Request) *lambda.Response {
	var body services.CreateNoteRequest
	if err := json.Unmarshal(req.Body, &body); err != nil {
		return h.jsonResponse(h.fail(ctx, "create", services.InvalidBody(err)))
	}

	return h.jsonResponse(h.createNote(ctx, &body))
}

// HandleUpdate is the Lambda form of UpdateNote
func (h *NoteHandler) HandleUpdate(ctx context.Context, req *lambda.Request) *lambda.Response {
	var body services.UpdateNoteRequest
	if err := json.Unmarshal(req.Body, &body); err != nil {
		return h.jsonResponse(h.fail(ctx, "update", services.InvalidBody(err)))
	}

	return h.jsonResponse(h.updateNote(ctx, &body))
}

// HandleDelete is the Lambda form of DeleteNote
func (h *NoteHandler) HandleDelete(ctx context.Context, req *lambda.Request) *lambda.Response {
	return h.jsonResponse(h.deleteNote(ctx, req.QueryParams["id"]))
}

func (h *NoteHandler) listNotes(ctx context.Context) (int, interface{}) {
	notes, err := h.noteService.ListNotes(ctx)
	if err != nil {
		return h.fail(ctx, "list", err)
	}

	h.metrics.ObserveNoteOperation("list", resultOK)
	return http.StatusOK, notes
}

func (h *NoteHandler) createNote(ctx context.Context, req *services.CreateNoteRequest) (int, interface{}) {
	note, err := h.noteService.CreateNote(ctx, req)
	if err != nil {
		return h.fail(ctx, "create", err)
	}

	h.metrics.ObserveNoteOperation("create", resultOK)
	h.metrics.IncNotesCreated()
	return http.StatusCreated, note
}

func (h *NoteHandler) updateNote(ctx context.Context, req *services.UpdateNoteRequest) (int, interface{}) {
	note, err := h.noteService.UpdateNote(ctx, req)
	if err != nil {
		return h.fail(ctx, "update", err)
	}

	h.metrics.ObserveNoteOperation("update", resultOK)
	return http.StatusOK, note
}

func (h *NoteHandler) deleteNote(ctx context.Context, rawID string) (int, interface{}) {
	if err := h.noteService.DeleteNote(ctx, rawID); err != nil {
		return h.fail(ctx, "delete", err)
	}

	h.metrics.ObserveNoteOperation("delete", resultOK)
	return http.StatusOK, services.MessageResponse{Message: services.MessageNoteDeleted}
}

// jsonResponse encodes body into a Lambda response
func (h *NoteHandler) jsonResponse(status int, body interface{}) *lambda.Response {
	data, err := json.Marshal(body)
	if err != nil {
		h.logger.WithError(err).Error("Failed to encode response body")
		status = http.StatusInternalServerError
		data = []byte(fmt.Sprintf(`{"message":%q}`, services.MessageInternalError))
	}

	return &lambda.Response{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       data,
	}
}

func withCORSHeaders(headers map[string]string) map[string]string {
	if headers == nil {
		headers = make(map[string]string, 3)
	}
	for k, v := range middleware.CORSHeaders() {
		headers[k] = v
	}
	return headers
}

func methodNotAllowed(method string) services.MessageResponse {
	return services.MessageResponse{Message: fmt.Sprintf("Method %s Not Allowed", method)}
}
