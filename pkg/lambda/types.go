package lambda

import (
	"encoding/base64"

	"github.com/aws/aws-lambda-go/events"
)

// Request represents a generic HTTP request for serverless functions
type Request struct {
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	QueryParams map[string]string `json:"query_params"`
	Body        []byte            `json:"body"`
}

// Response represents a generic HTTP response for serverless functions
type Response struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers"`
	Body       []byte            `json:"body"`
}

// FromHTTPAPIEvent converts an HTTP API (payload format 2.0) event into a
// Request. The method is read from requestContext.http.method.
func FromHTTPAPIEvent(event events.APIGatewayV2HTTPRequest) (*Request, error) {
	body := []byte(event.Body)
	if event.IsBase64Encoded && event.Body != "" {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return nil, err
		}
		body = decoded
	}

	return &Request{
		Method:      event.RequestContext.HTTP.Method,
		Path:        event.RawPath,
		QueryParams: event.QueryStringParameters,
		Body:        body,
	}, nil
}

// ToHTTPAPIResponse converts a Response into the HTTP API response shape
func (r *Response) ToHTTPAPIResponse() events.APIGatewayV2HTTPResponse {
	return events.APIGatewayV2HTTPResponse{
		StatusCode: r.StatusCode,
		Headers:    r.Headers,
		Body:       string(r.Body),
	}
}
