// Package transport sends traces to the trace agent. The client targets a
// version of the agent API, and downgrades to older versions when the agent
// does not support it. Failures never reach the caller: they come back as an
// InternalErrorResponse.
package transport

import (
	"fmt"
	"runtime"
	"sync"

	log "github.com/cihub/seelog"
	"golang.org/x/time/rate"
)

// Invoker performs the actual call to the agent for the given API.
type Invoker func(api *API, env *Envelope) (Response, error)

// Client dispatches requests against the current API version of a registry.
type Client struct {
	registry *Registry
	stats    Statistics

	mu    sync.RWMutex
	apiID string

	// errorLimiter, when set, caps the number of error-level lines. Lines
	// over the limit are logged at debug level.
	errorLimiter *rate.Limiter
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithErrorLogLimit limits error logs to n per second, with bursts of n.
func WithErrorLogLimit(n int) ClientOption {
	return func(c *Client) {
		c.errorLimiter = rate.NewLimiter(rate.Limit(n), n)
	}
}

// NewClient returns a client sending to the given API version of registry.
func NewClient(registry *Registry, apiID string, opts ...ClientOption) (*Client, error) {
	c := &Client{registry: registry}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.ChangeAPI(apiID); err != nil {
		return nil, err
	}
	return c, nil
}

// CurrentAPI returns the version requests are sent to.
func (c *Client) CurrentAPI() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiID
}

// ChangeAPI switches to another registered API version.
func (c *Client) ChangeAPI(id string) error {
	return c.changeAPI("", id)
}

// changeAPI switches to id. When from is set, it only switches if the current
// API is still from, so that concurrent downgrades apply once.
func (c *Client) changeAPI(from, id string) error {
	if _, ok := c.registry.Get(id); !ok {
		return &UnknownAPIVersionError{Version: id}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if from == "" || c.apiID == from {
		c.apiID = id
	}
	return nil
}

// Registry returns the APIs the client can target.
func (c *Client) Registry() *Registry { return c.registry }

// Stats returns a snapshot of the client counters.
func (c *Client) Stats() Stats {
	return c.stats.Snapshot()
}

// SendRequest sends req through invoke. If the agent does not support the
// current API, the client downgrades to its fallback and sends req again,
// until an API is accepted or there is no fallback left.
// It never fails: errors and panics are returned as an InternalErrorResponse.
func (c *Client) SendRequest(req *Request, invoke Invoker) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			buf = buf[:runtime.Stack(buf, false)]
			log.Debugf("panic while sending traces: %v\n%s", r, buf)
			resp = c.internalError(fmt.Errorf("panic: %v", r))
		}
	}()

	// each API is tried at most once, the registry has no cycle anyway
	for attempts := 0; attempts < c.registry.Len(); attempts++ {
		apiID := c.CurrentAPI()
		api, ok := c.registry.Get(apiID)
		if !ok {
			return c.internalError(&UnknownAPIVersionError{Version: apiID})
		}

		resp, err := c.send(api, req, invoke)
		if err != nil {
			return c.internalError(err)
		}
		if !resp.NotFound() && !resp.Unsupported() {
			return resp
		}

		fallback, ok := c.registry.Fallback(apiID)
		if !ok {
			return resp
		}
		if err := c.changeAPI(apiID, fallback); err != nil {
			return c.internalError(err)
		}
		log.Debugf("agent does not support API %s, downgrading to %s", apiID, fallback)
	}
	return c.internalError(fmt.Errorf("no API version accepted by the agent among %v", c.registry.Versions()))
}

func (c *Client) send(api *API, req *Request, invoke Invoker) (Response, error) {
	env, err := NewEnvelope(api, req)
	if err != nil {
		return nil, fmt.Errorf("cannot encode traces for API %s: %v", api.Version, err)
	}
	c.stats.CountRequest()
	resp, err := invoke(api, env)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("no response from API %s", api.Version)
	}
	c.stats.Update(resp)
	return resp, nil
}

// internalError logs and counts err, and wraps it in a response.
func (c *Client) internalError(err error) Response {
	if c.stats.ConsecutiveErrors() > 0 || (c.errorLimiter != nil && !c.errorLimiter.Allow()) {
		log.Debugf("failed to send traces: %v", err)
	} else {
		log.Errorf("failed to send traces: %v", err)
	}
	c.stats.CountInternalError()
	return &InternalErrorResponse{Err: err}
}
