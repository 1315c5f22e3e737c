package transport

import "sync/atomic"

// Stats is a snapshot of the transport counters.
type Stats struct {
	Requests          int64
	Success           int64
	ClientErrors      int64
	ServerErrors      int64
	InternalErrors    int64
	ConsecutiveErrors int64
}

// Statistics counts the outcome of requests, thread-safe.
type Statistics struct {
	requests          int64
	success           int64
	clientErrors      int64
	serverErrors      int64
	internalErrors    int64
	consecutiveErrors int64
}

// CountRequest counts a request handed to the agent.
func (s *Statistics) CountRequest() {
	atomic.AddInt64(&s.requests, 1)
}

// Update counts an agent response. A successful response ends a series of
// errors, anything else extends it.
func (s *Statistics) Update(resp Response) {
	if resp.OK() {
		atomic.AddInt64(&s.success, 1)
		atomic.StoreInt64(&s.consecutiveErrors, 0)
		return
	}
	switch {
	case resp.ClientError():
		atomic.AddInt64(&s.clientErrors, 1)
	case resp.ServerError():
		atomic.AddInt64(&s.serverErrors, 1)
	case resp.InternalError():
		atomic.AddInt64(&s.internalErrors, 1)
	}
	atomic.AddInt64(&s.consecutiveErrors, 1)
}

// CountInternalError counts a failure to send a request.
func (s *Statistics) CountInternalError() {
	atomic.AddInt64(&s.internalErrors, 1)
	atomic.AddInt64(&s.consecutiveErrors, 1)
}

// ConsecutiveErrors returns the number of errors since the last success.
func (s *Statistics) ConsecutiveErrors() int64 {
	return atomic.LoadInt64(&s.consecutiveErrors)
}

// Snapshot returns a copy of all counters.
func (s *Statistics) Snapshot() Stats {
	return Stats{
		Requests:          atomic.LoadInt64(&s.requests),
		Success:           atomic.LoadInt64(&s.success),
		ClientErrors:      atomic.LoadInt64(&s.clientErrors),
		ServerErrors:      atomic.LoadInt64(&s.serverErrors),
		InternalErrors:    atomic.LoadInt64(&s.internalErrors),
		ConsecutiveErrors: atomic.LoadInt64(&s.consecutiveErrors),
	}
}
