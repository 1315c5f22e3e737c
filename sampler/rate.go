package sampler

import (
	"sync/atomic"

	log "github.com/cihub/seelog"

	"github.com/DataDog/datadog-trace-client/model"
)

// rateState is swapped as a whole so that readers never see a rate paired
// with the threshold of another one.
type rateState struct {
	rate      float64
	threshold uint64
}

// keepAll is the state of a RateSampler whose rate was never set.
var keepAll = &rateState{rate: 1, threshold: model.MaxTraceID}

// RateSampler keeps a fixed proportion of traces, based on their trace ID.
// The zero value keeps everything.
type RateSampler struct {
	state atomic.Pointer[rateState]
}

// NewRateSampler returns a sampler keeping the given proportion of traces.
// Rates outside of (0, 1] are replaced by 1, which keeps everything.
func NewRateSampler(rate float64) *RateSampler {
	s := &RateSampler{}
	s.SetRate(rate)
	return s
}

// SetRate updates the sample rate, thread-safe.
func (s *RateSampler) SetRate(rate float64) {
	if !(rate > 0 && rate <= 1) {
		log.Warnf("sample rate is not between 0 and 1, falling back to 1 (sampling everything): %v", rate)
		rate = 1
	}
	s.state.Store(&rateState{rate: rate, threshold: rateThreshold(rate)})
}

// SampleRate returns the current sample rate, thread-safe.
func (s *RateSampler) SampleRate() float64 {
	return s.load().rate
}

// Rate implements Sampler.
func (s *RateSampler) Rate(*model.Span) float64 {
	return s.SampleRate()
}

// ShouldSample implements Sampler. For a given rate, the decision only depends
// on the trace ID.
func (s *RateSampler) ShouldSample(span *model.Span) bool {
	if span == nil {
		return false
	}
	return s.load().keep(span.TraceID)
}

// Sample implements Sampler. Kept spans carry the applied rate as a metric.
func (s *RateSampler) Sample(span *model.Span) bool {
	if span == nil {
		return false
	}
	st := s.load()
	span.Sampled = st.keep(span.TraceID)
	if span.Sampled {
		span.SetMetric(model.SpanSampleRateMetricKey, st.rate)
	}
	return span.Sampled
}

func (s *RateSampler) decide(span *model.Span) (bool, float64) {
	st := s.load()
	return span != nil && st.keep(span.TraceID), st.rate
}

func (s *RateSampler) load() *rateState {
	if st := s.state.Load(); st != nil {
		return st
	}
	return keepAll
}

func (st *rateState) keep(traceID uint64) bool {
	if st.rate >= 1 {
		return true
	}
	return hashTraceID(traceID) <= st.threshold
}
