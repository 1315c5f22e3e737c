package model

import (
	"math/rand"
)

const (
	// SpanSampleRateMetricKey is the metric key holding the sample rate
	SpanSampleRateMetricKey = "_sample_rate"

	// SamplingPriorityKey specifies the key used to set the sampling priority metric.
	SamplingPriorityKey = "_sampling_priority_v1"

	// AgentSampleRateMetricKey is the metric key holding the rate applied by the
	// priority sampler when it rolled the priority of a trace.
	AgentSampleRateMetricKey = "_dd.agent_psr"

	// EnvTagKey is the meta key holding the environment of a span.
	EnvTagKey = "env"
)

// MaxTraceID is the upper bound of trace identifiers (2^64 - 1).
const MaxTraceID = ^uint64(0)

// Span is the common struct we use to represent a dapper-like span.
// Only the fields listed with a codec tag are sent over the wire.
type Span struct {
	Service  string             `codec:"service" json:"service"`
	Name     string             `codec:"name" json:"name"`
	Resource string             `codec:"resource" json:"resource"`
	TraceID  uint64             `codec:"trace_id" json:"trace_id"`
	SpanID   uint64             `codec:"span_id" json:"span_id"`
	ParentID uint64             `codec:"parent_id" json:"parent_id"`
	Start    int64              `codec:"start" json:"start"`
	Duration int64              `codec:"duration" json:"duration"`
	Error    int32              `codec:"error" json:"error"`
	Meta     map[string]string  `codec:"meta,omitempty" json:"meta,omitempty"`
	Metrics  map[string]float64 `codec:"metrics,omitempty" json:"metrics,omitempty"`
	Type     string             `codec:"type" json:"type"`

	// Sampled is the local keep/drop decision of the sampling engine.
	Sampled bool `codec:"-" json:"-"`
	// Context is shared by every span of the same trace, it may be nil.
	Context *Context `codec:"-" json:"-"`
}

// RandomID generates a random uint64 that we use for IDs
func RandomID() uint64 {
	return uint64(rand.Int63())
}

// SetMetric sets a metric on the span, allocating the map if needed.
func (s *Span) SetMetric(key string, value float64) {
	if s.Metrics == nil {
		s.Metrics = make(map[string]float64)
	}
	s.Metrics[key] = value
}

// GetMetric returns the metric stored under key, if any.
func (s *Span) GetMetric(key string) (float64, bool) {
	if s == nil || s.Metrics == nil {
		return 0, false
	}
	v, ok := s.Metrics[key]
	return v, ok
}

// SetMeta sets a tag on the span, allocating the map if needed.
func (s *Span) SetMeta(key, value string) {
	if s.Meta == nil {
		s.Meta = make(map[string]string)
	}
	s.Meta[key] = value
}

// GetSamplingPriority returns the priority tag of the span, if set.
func (s *Span) GetSamplingPriority() (int, bool) {
	p, ok := s.GetMetric(SamplingPriorityKey)
	return int(p), ok
}

// SetSamplingPriority stamps the priority tag on the span.
func (s *Span) SetSamplingPriority(priority int) {
	s.SetMetric(SamplingPriorityKey, float64(priority))
}
