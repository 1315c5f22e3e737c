package model

import "sync"

// Sampling priorities, as understood by the agent and every tracer taking
// part in the same distributed trace.
const (
	// PriorityUserReject is set by the user to drop a trace.
	PriorityUserReject = -1
	// PriorityAutoReject is set by the sampler to drop a trace.
	PriorityAutoReject = 0
	// PriorityAutoKeep is set by the sampler to keep a trace.
	PriorityAutoKeep = 1
	// PriorityUserKeep is set by the user to keep a trace.
	PriorityUserKeep = 2
)

// Context is shared by all the spans of one trace. It carries the sampling
// priority, which may have been decided upstream by another service.
type Context struct {
	mu          sync.RWMutex
	priority    int
	hasPriority bool
}

// NewContext returns an empty trace context.
func NewContext() *Context {
	return &Context{}
}

// NewContextWithPriority returns a context carrying an upstream priority.
func NewContextWithPriority(priority int) *Context {
	return &Context{priority: priority, hasPriority: true}
}

// SamplingPriority returns the priority of the trace and whether it was set.
func (c *Context) SamplingPriority() (int, bool) {
	if c == nil {
		return 0, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.priority, c.hasPriority
}

// SetSamplingPriority sets the priority of the trace.
func (c *Context) SetSamplingPriority(priority int) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.priority = priority
	c.hasPriority = true
	c.mu.Unlock()
}
