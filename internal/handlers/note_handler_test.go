package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"notes-api/internal/adapters/storage"
	"notes-api/internal/metrics"
	"notes-api/internal/models"
	"notes-api/internal/repositories/jsonfile"
	"notes-api/internal/services"
	"notes-api/pkg/lambda"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

type testEnv struct {
	handler *NoteHandler
	router  *gin.Engine
	files   *storage.MockFileStorage
	metrics *metrics.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	files := storage.NewMockFileStorage()
	repo := jsonfile.NewNoteStore(files, "", logger)
	clock := func() time.Time { return time.UnixMilli(1700000000000) }
	svc := services.NewNoteServiceWithIDs(repo, services.NewIDGenerator(clock), logger)

	m, reg := metrics.NewTestManagerAndRegistry()
	config := &RouterConfig{
		NoteService: svc,
		Logger:      logger,
		Metrics:     m,
		Gatherer:    reg,
	}

	router := gin.New()
	SetupMiddleware(router, config)
	handler := SetupRoutes(router, config)

	return &testEnv{
		handler: handler,
		router:  router,
		files:   files,
		metrics: m,
	}
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) invoke(t *testing.T, method, body string, query map[string]string) *lambda.Response {
	t.Helper()

	resp, err := e.handler.HandleRequest(context.Background(), &lambda.Request{
		Method:      method,
		Path:        DefaultNotesRoute,
		QueryParams: query,
		Body:        []byte(body),
	})
	require.NoError(t, err)
	return resp
}

func decodeNote(t *testing.T, data []byte) models.Note {
	t.Helper()
	var note models.Note
	require.NoError(t, json.Unmarshal(data, &note))
	return note
}

func decodeNotes(t *testing.T, data []byte) models.NoteCollection {
	t.Helper()
	var notes models.NoteCollection
	require.NoError(t, json.Unmarshal(data, &notes))
	return notes
}

func decodeMessage(t *testing.T, data []byte) string {
	t.Helper()
	var msg services.MessageResponse
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg.Message
}

func assertCORS(t *testing.T, get func(string) string) {
	t.Helper()
	assert.Equal(t, "*", get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", get("Access-Control-Allow-Headers"))
}

func TestGin_NoteLifecycle(t *testing.T) {
	env := newTestEnv(t)
	route := DefaultNotesRoute

	w := env.do(t, http.MethodPost, route, `{"title":"T1","content":"C1"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assertCORS(t, w.Header().Get)
	created := decodeNote(t, w.Body.Bytes())
	assert.Equal(t, "T1", created.GetTitle())
	assert.Equal(t, "C1", created.GetContent())
	assert.NotZero(t, created.ID)

	w = env.do(t, http.MethodGet, route, "")
	require.Equal(t, http.StatusOK, w.Code)
	notes := decodeNotes(t, w.Body.Bytes())
	assert.NotEqual(t, -1, notes.IndexOf(created.ID))

	w = env.do(t, http.MethodPut, route, `{"id":`+jsonID(created.ID)+`,"title":"T2","content":"C2"}`)
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeNote(t, w.Body.Bytes())
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "T2", updated.GetTitle())
	assert.Equal(t, "C2", updated.GetContent())

	w = env.do(t, http.MethodDelete, route+"?id="+jsonID(created.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Note deleted successfully", decodeMessage(t, w.Body.Bytes()))

	w = env.do(t, http.MethodGet, route, "")
	require.Equal(t, http.StatusOK, w.Code)
	notes = decodeNotes(t, w.Body.Bytes())
	assert.Equal(t, -1, notes.IndexOf(created.ID))

	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.CounterNotesCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.CounterRequests.WithLabelValues("POST", "201")))
}

func TestGin_ListSeedsEmptyCollection(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 2; i++ {
		w := env.do(t, http.MethodGet, DefaultNotesRoute, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[{"id":15345563453,"title":"Sample Note","content":"This is a sample note."}]`, w.Body.String())
	}
}

func TestGin_Errors(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"malformed create body", http.MethodPost, DefaultNotesRoute, `{"title":`, http.StatusBadRequest, "Invalid request body"},
		{"empty create body", http.MethodPost, DefaultNotesRoute, "", http.StatusBadRequest, "Invalid request body"},
		{"update without id", http.MethodPut, DefaultNotesRoute, `{"title":"x"}`, http.StatusBadRequest, "Note id is required"},
		{"update with string id", http.MethodPut, DefaultNotesRoute, `{"id":"1"}`, http.StatusBadRequest, "Invalid request body"},
		{"update unknown id", http.MethodPut, DefaultNotesRoute, `{"id":42,"title":"x"}`, http.StatusNotFound, "Note not found"},
		{"delete unknown id", http.MethodDelete, DefaultNotesRoute + "?id=42", "", http.StatusNotFound, "Note not found"},
		{"delete non-numeric id", http.MethodDelete, DefaultNotesRoute + "?id=abc", "", http.StatusNotFound, "Note not found"},
		{"delete without id", http.MethodDelete, DefaultNotesRoute, "", http.StatusNotFound, "Note not found"},
		{"unsupported method", http.MethodPatch, DefaultNotesRoute, `{}`, http.StatusMethodNotAllowed, "Method PATCH Not Allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			w := env.do(t, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantMsg, decodeMessage(t, w.Body.Bytes()))
			assertCORS(t, w.Header().Get)
		})
	}
}

func TestGin_NotFoundLeavesCollectionUnchanged(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, DefaultNotesRoute, "")
	require.Equal(t, http.StatusOK, w.Code)
	before, _ := env.files.Get(jsonfile.DefaultKey)

	env.do(t, http.MethodPut, DefaultNotesRoute, `{"id":1,"title":"x"}`)
	env.do(t, http.MethodDelete, DefaultNotesRoute+"?id=1", "")

	after, _ := env.files.Get(jsonfile.DefaultKey)
	assert.Equal(t, string(before), string(after))
}

func TestUpdateAcceptsExponentID(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, DefaultNotesRoute, `{"title":"T1","content":"C1"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, int64(1700000000000), decodeNote(t, w.Body.Bytes()).ID)

	w = env.do(t, http.MethodPut, DefaultNotesRoute, `{"id":1.7e12,"title":"T2"}`)
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeNote(t, w.Body.Bytes())
	assert.Equal(t, int64(1700000000000), updated.ID)
	assert.Equal(t, "T2", updated.GetTitle())

	resp := env.invoke(t, http.MethodPut, `{"id":17e11,"title":"T3"}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "T3", decodeNote(t, resp.Body).GetTitle())

	w = env.do(t, http.MethodPut, DefaultNotesRoute, `{"id":1.5,"title":"T4"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", decodeMessage(t, w.Body.Bytes()))
}

func TestGin_Preflight(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodOptions, DefaultNotesRoute, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	assertCORS(t, w.Header().Get)
}

func TestGin_StoreFailure(t *testing.T) {
	env := newTestEnv(t)
	env.files.Put(jsonfile.DefaultKey, []byte("not json"))

	w := env.do(t, http.MethodGet, DefaultNotesRoute, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal Server Error", decodeMessage(t, w.Body.Bytes()))
	assert.NotContains(t, w.Body.String(), "not json")
}

func TestGin_HealthAndMetrics(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")

	env.do(t, http.MethodGet, DefaultNotesRoute, "")

	w = env.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "notes_test_server_request")
}

func TestGin_UnhealthyStore(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	router := gin.New()
	SetupRoutes(router, &RouterConfig{
		NoteService: services.NewNoteService(jsonfile.NewNoteStore(storage.NewMockFileStorage(), "", logger), logger),
		Logger:      logger,
		HealthCheck: func(*gin.Context) error { return errors.New("disk gone") },
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestLambda_NoteLifecycle(t *testing.T) {
	env := newTestEnv(t)

	resp := env.invoke(t, http.MethodPost, `{"title":"T1","content":"C1"}`, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assertCORS(t, func(k string) string { return resp.Headers[k] })
	created := decodeNote(t, resp.Body)
	assert.Equal(t, "T1", created.GetTitle())

	resp = env.invoke(t, http.MethodGet, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEqual(t, -1, decodeNotes(t, resp.Body).IndexOf(created.ID))

	resp = env.invoke(t, http.MethodPut, `{"id":`+jsonID(created.ID)+`,"title":"T2","content":"C2"}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeNote(t, resp.Body)
	assert.Equal(t, "T2", updated.GetTitle())
	assert.Equal(t, "C2", updated.GetContent())

	resp = env.invoke(t, http.MethodDelete, "", map[string]string{"id": jsonID(created.ID)})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Note deleted successfully", decodeMessage(t, resp.Body))

	resp = env.invoke(t, http.MethodGet, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, -1, decodeNotes(t, resp.Body).IndexOf(created.ID))

	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.CounterRequests.WithLabelValues("DELETE", "200")))
}

func TestLambda_Dispatch(t *testing.T) {
	env := newTestEnv(t)

	t.Run("options", func(t *testing.T) {
		resp := env.invoke(t, http.MethodOptions, "", nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Empty(t, resp.Body)
		assert.Empty(t, resp.Headers["Content-Type"])
		assertCORS(t, func(k string) string { return resp.Headers[k] })
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp := env.invoke(t, http.MethodPatch, "", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "Method PATCH Not Allowed", decodeMessage(t, resp.Body))
		assertCORS(t, func(k string) string { return resp.Headers[k] })
	})

	t.Run("malformed body", func(t *testing.T) {
		resp := env.invoke(t, http.MethodPost, "{", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Invalid request body", decodeMessage(t, resp.Body))
	})

	t.Run("update without id", func(t *testing.T) {
		resp := env.invoke(t, http.MethodPut, `{"title":"x"}`, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Note id is required", decodeMessage(t, resp.Body))
	})

	t.Run("delete with leading integer", func(t *testing.T) {
		resp := env.invoke(t, http.MethodGet, "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = env.invoke(t, http.MethodDelete, "", map[string]string{"id": "15345563453abc"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestRequestSeriesBoundedForUnknownMethods(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 50; i++ {
		method := fmt.Sprintf("X%d", i)
		resp := env.invoke(t, method, "", nil)
		require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

		w := env.do(t, method, DefaultNotesRoute, "")
		require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	}

	assert.Equal(t, 1, testutil.CollectAndCount(env.metrics.CounterRequests))
	assert.Equal(t, 100.0, testutil.ToFloat64(env.metrics.CounterRequests.WithLabelValues(metrics.MethodOther, "405")))
}

func TestLambda_StoreFailure(t *testing.T) {
	env := newTestEnv(t)
	env.files.FailNext("Retrieve", storage.NewStorageError("Retrieve", jsonfile.DefaultKey, storage.ErrPermissionDenied, false))

	resp := env.invoke(t, http.MethodGet, "", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Internal Server Error", decodeMessage(t, resp.Body))
}

func jsonID(id int64) string {
	data, _ := json.Marshal(id)
	return string(data)
}
