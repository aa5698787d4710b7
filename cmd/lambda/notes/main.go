package main

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"notes-api/internal/config"
	"notes-api/internal/handlers"
	"notes-api/internal/logging"
	"notes-api/internal/middleware"
	"notes-api/pkg/lambda"
	"notes-api/pkg/server"
)

// containerSource hands out the warm dependency container
type containerSource interface {
	GetContainer(ctx context.Context) (*server.Container, error)
	IsHealthy() bool
	Cleanup() error
}

type app struct {
	logger      *logrus.Logger
	connections containerSource
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		return nil, err
	}

	// CloudWatch collects stdout, so no log file here
	logger, _ := logging.Setup(logging.LoggerSetupParams{
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: true,
	})

	connections := lambda.NewConnectionManager(logger)
	if err := connections.Initialize(ctx, cfg); err != nil {
		return nil, err
	}

	return &app{logger: logger, connections: connections}, nil
}

func (a *app) handle(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	req, err := lambda.FromHTTPAPIEvent(event)
	if err != nil {
		a.logger.WithError(err).Warn("Failed to decode request body")
		return errorResponse(http.StatusBadRequest, `{"message":"Invalid request body"}`), nil
	}

	container, err := a.container(ctx)
	if err != nil {
		a.logger.WithError(err).Error("Failed to get container")
		return errorResponse(http.StatusInternalServerError, `{"message":"Internal Server Error"}`), nil
	}

	noteHandler := handlers.NewNoteHandler(container.NoteService, a.logger, container.Metrics)

	resp, err := noteHandler.HandleRequest(ctx, req)
	if err != nil {
		a.logger.WithError(err).Error("Request failed")
		return errorResponse(http.StatusInternalServerError, `{"message":"Internal Server Error"}`), nil
	}

	return resp.ToHTTPAPIResponse(), nil
}

// container reuses the warm container unless it has gone stale, in which
// case it is closed and rebuilt
func (a *app) container(ctx context.Context) (*server.Container, error) {
	if !a.connections.IsHealthy() {
		if err := a.connections.Cleanup(); err != nil {
			a.logger.WithError(err).Warn("Failed to close stale container")
		}
	}
	return a.connections.GetContainer(ctx)
}

func errorResponse(status int, body string) events.APIGatewayV2HTTPResponse {
	headers := middleware.CORSHeaders()
	headers["Content-Type"] = "application/json"

	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    headers,
		Body:       body,
	}
}

func main() {
	a, err := newApp(context.Background())
	if err != nil {
		panic("Failed to initialize: " + err.Error())
	}

	awslambda.Start(a.handle)
}
