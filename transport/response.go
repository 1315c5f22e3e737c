package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is what the agent answered, or the sentinel InternalErrorResponse
// when the request could not go through.
type Response interface {
	// OK is true if the agent accepted the payload.
	OK() bool
	// NotFound is true if the agent does not know the API endpoint.
	NotFound() bool
	// Unsupported is true if the agent does not accept the payload format.
	Unsupported() bool
	// ClientError is true if the agent rejected the payload.
	ClientError() bool
	// ServerError is true if the agent failed to handle the payload.
	ServerError() bool
	// InternalError is true if sending failed on our side.
	InternalError() bool
}

// HTTPResponse is an answer from the agent over HTTP.
type HTTPResponse struct {
	StatusCode int
	Body       []byte
}

// OK implements Response.
func (r *HTTPResponse) OK() bool { return r.StatusCode/100 == 2 }

// NotFound implements Response.
func (r *HTTPResponse) NotFound() bool { return r.StatusCode == http.StatusNotFound }

// Unsupported implements Response.
func (r *HTTPResponse) Unsupported() bool { return r.StatusCode == http.StatusUnsupportedMediaType }

// ClientError implements Response.
func (r *HTTPResponse) ClientError() bool { return r.StatusCode/100 == 4 }

// ServerError implements Response.
func (r *HTTPResponse) ServerError() bool { return r.StatusCode/100 == 5 }

// InternalError implements Response.
func (r *HTTPResponse) InternalError() bool { return false }

func (r *HTTPResponse) String() string {
	return fmt.Sprintf("HTTP %d %s", r.StatusCode, http.StatusText(r.StatusCode))
}

// InternalErrorResponse replaces the agent response when sending failed
// before getting one. It carries the original error.
type InternalErrorResponse struct {
	Err error
}

// OK implements Response.
func (r *InternalErrorResponse) OK() bool { return false }

// NotFound implements Response.
func (r *InternalErrorResponse) NotFound() bool { return false }

// Unsupported implements Response.
func (r *InternalErrorResponse) Unsupported() bool { return false }

// ClientError implements Response.
func (r *InternalErrorResponse) ClientError() bool { return false }

// ServerError implements Response.
func (r *InternalErrorResponse) ServerError() bool { return false }

// InternalError implements Response.
func (r *InternalErrorResponse) InternalError() bool { return true }

// Error implements error.
func (r *InternalErrorResponse) Error() string {
	return fmt.Sprintf("internal error: %v", r.Err)
}

// Unwrap returns the original error.
func (r *InternalErrorResponse) Unwrap() error { return r.Err }

type serviceRatesPayload struct {
	RateByService map[string]float64 `json:"rate_by_service"`
}

// ParseServiceRates decodes the rates by service the agent sends back on
// APIs supporting them.
func ParseServiceRates(resp Response) (map[string]float64, error) {
	r, ok := resp.(*HTTPResponse)
	if !ok || !r.OK() {
		return nil, fmt.Errorf("no rates in response %v", resp)
	}
	if len(r.Body) == 0 {
		return nil, fmt.Errorf("empty response body")
	}
	var payload serviceRatesPayload
	if err := json.Unmarshal(r.Body, &payload); err != nil {
		return nil, fmt.Errorf("cannot decode rates by service: %v", err)
	}
	if payload.RateByService == nil {
		return nil, fmt.Errorf("no rate_by_service in response")
	}
	return payload.RateByService, nil
}
