package transport

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"time"
)

const (
	// timeout is the HTTP timeout for POST requests to the agent
	timeout = 2 * time.Second
	// maxResponseSize caps how much of the agent answer is read.
	maxResponseSize = 1 << 20

	langHeader          = "Datadog-Meta-Lang"
	langVersionHeader   = "Datadog-Meta-Lang-Version"
	tracerVersionHeader = "Datadog-Meta-Tracer-Version"
)

// TracerVersion is reported to the agent along the traces.
var TracerVersion = "0.1.0"

// HTTPInvoker posts envelopes to the trace agent over HTTP.
type HTTPInvoker struct {
	baseURL string
	client  *http.Client
	headers map[string]string
}

// NewHTTPInvoker returns an invoker posting to the agent listening on
// host:port. A nil client uses a default one.
func NewHTTPInvoker(host string, port int, client *http.Client) *HTTPInvoker {
	return NewHTTPInvokerURL(fmt.Sprintf("http://%s:%d", host, port), client)
}

// NewHTTPInvokerURL returns an invoker posting to the agent at baseURL.
func NewHTTPInvokerURL(baseURL string, client *http.Client) *HTTPInvoker {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPInvoker{
		baseURL: baseURL,
		client:  client,
		headers: map[string]string{
			langHeader:          "go",
			langVersionHeader:   runtime.Version(),
			tracerVersionHeader: TracerVersion,
		},
	}
}

// BaseURL returns the URL of the agent.
func (h *HTTPInvoker) BaseURL() string { return h.baseURL }

// Invoke posts env to the path of api. It implements Invoker.
func (h *HTTPInvoker) Invoke(api *API, env *Envelope) (Response, error) {
	url := h.baseURL + api.Path
	req, err := http.NewRequest("POST", url, bytes.NewReader(env.Body))
	if err != nil {
		return nil, err
	}
	for k, v := range h.headers {
		req.Header.Set(k, v)
	}
	for k, v := range env.Headers {
		req.Header.Set(k, v)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("cannot read response from %s: %v", url, err)
	}
	return &HTTPResponse{StatusCode: resp.StatusCode, Body: body}, nil
}
