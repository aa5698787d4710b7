package lambda

import (
	"encoding/base64"
	"testing"

	"github.com/aws/aws-lambda-go/events"
)

func TestFromHTTPAPIEvent(t *testing.T) {
	event := events.APIGatewayV2HTTPRequest{
		RawPath:               "/notes",
		Body:                  `{"title":"T1"}`,
		QueryStringParameters: map[string]string{"id": "12"},
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{Method: "DELETE"},
		},
	}

	req, err := FromHTTPAPIEvent(event)
	if err != nil {
		t.Fatalf("FromHTTPAPIEvent failed: %v", err)
	}
	if req.Method != "DELETE" {
		t.Errorf("Expected method DELETE, got %s", req.Method)
	}
	if req.QueryParams["id"] != "12" {
		t.Errorf("Expected id query param 12, got %q", req.QueryParams["id"])
	}
	if string(req.Body) != `{"title":"T1"}` {
		t.Errorf("Unexpected body: %s", req.Body)
	}
}

func TestFromHTTPAPIEvent_Base64Body(t *testing.T) {
	event := events.APIGatewayV2HTTPRequest{
		Body:            base64.StdEncoding.EncodeToString([]byte(`{"id":1}`)),
		IsBase64Encoded: true,
	}

	req, err := FromHTTPAPIEvent(event)
	if err != nil {
		t.Fatalf("FromHTTPAPIEvent failed: %v", err)
	}
	if string(req.Body) != `{"id":1}` {
		t.Errorf("Unexpected body: %s", req.Body)
	}

	event.Body = "%%%"
	if _, err := FromHTTPAPIEvent(event); err == nil {
		t.Error("Expected error for invalid base64 body")
	}
}

func TestResponse_ToHTTPAPIResponse(t *testing.T) {
	resp := &Response{
		StatusCode: 201,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       []byte(`{"id":1}`),
	}

	out := resp.ToHTTPAPIResponse()
	if out.StatusCode != 201 || out.Body != `{"id":1}` || out.Headers["Content-Type"] != "application/json" {
		t.Errorf("Unexpected response: %+v", out)
	}
}
