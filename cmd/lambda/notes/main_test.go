package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notes-api/internal/config"
	"notes-api/pkg/lambda"
	"notes-api/pkg/server"
)

type fakeSource struct {
	container *server.Container
	err       error
	healthy   bool
	cleanups  int
}

func (f *fakeSource) GetContainer(ctx context.Context) (*server.Container, error) {
	return f.container, f.err
}

func (f *fakeSource) IsHealthy() bool { return f.healthy }

func (f *fakeSource) Cleanup() error {
	f.cleanups++
	return nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Environment: "test",
		Port:        "8080",
		NotesRoute:  "/api/notes",
		Store:       config.StoreConfig{Driver: config.StoreDriverFile, Key: "notes.json"},
		Storage:     config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
	}
}

func event(method, body string, base64Body bool, query map[string]string) events.APIGatewayV2HTTPRequest {
	return events.APIGatewayV2HTTPRequest{
		RawPath:               "/notes",
		Body:                  body,
		IsBase64Encoded:       base64Body,
		QueryStringParameters: query,
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{Method: method},
		},
	}
}

func message(t *testing.T, body string) string {
	t.Helper()
	var payload struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	return payload.Message
}

func assertCORS(t *testing.T, headers map[string]string) {
	t.Helper()
	assert.Equal(t, "*", headers["Access-Control-Allow-Origin"])
	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", headers["Access-Control-Allow-Methods"])
	assert.Equal(t, "Content-Type", headers["Access-Control-Allow-Headers"])
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		source     *fakeSource
		event      events.APIGatewayV2HTTPRequest
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "undecodable base64 body",
			source:     &fakeSource{healthy: true},
			event:      event(http.MethodPost, "%%%", true, nil),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid request body",
		},
		{
			name:       "container unavailable",
			source:     &fakeSource{healthy: true, err: errors.New("disk gone")},
			event:      event(http.MethodGet, "", false, nil),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &app{logger: quietLogger(), connections: tt.source}

			resp, err := a.handle(context.Background(), tt.event)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantMsg, message(t, resp.Body))
			assert.Equal(t, "application/json", resp.Headers["Content-Type"])
			assertCORS(t, resp.Headers)
		})
	}
}

func TestHandle_RoundTrip(t *testing.T) {
	ctx := context.Background()
	connections := lambda.NewConnectionManager(quietLogger())
	require.NoError(t, connections.Initialize(ctx, testConfig(t)))
	t.Cleanup(func() { _ = connections.Cleanup() })

	a := &app{logger: quietLogger(), connections: connections}

	body := base64.StdEncoding.EncodeToString([]byte(`{"title":"T1","content":"C1"}`))
	resp, err := a.handle(ctx, event(http.MethodPost, body, true, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assertCORS(t, resp.Headers)

	var created struct {
		ID      int64  `json:"id"`
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &created))
	assert.Equal(t, "T1", created.Title)
	assert.Equal(t, "C1", created.Content)

	resp, err = a.handle(ctx, event(http.MethodGet, "", false, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	resp, err = a.handle(ctx, event(http.MethodOptions, "", false, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, resp.Body)
	assertCORS(t, resp.Headers)
}

func TestHandle_RebuildsStaleContainer(t *testing.T) {
	ctx := context.Background()
	container, err := server.NewContainer(ctx, testConfig(t), quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })

	source := &fakeSource{container: container, healthy: false}
	a := &app{logger: quietLogger(), connections: source}

	resp, err := a.handle(ctx, event(http.MethodGet, "", false, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, source.cleanups)

	source.healthy = true
	_, err = a.handle(ctx, event(http.MethodGet, "", false, nil))
	require.NoError(t, err)
	assert.Equal(t, 1, source.cleanups)
}
