// Package sampler contains all the logic of the client-side trace sampling.
//
// Sampling decisions are a pure function of the trace ID and of a sample rate,
// so that every service taking part in a distributed trace reaches the same
// decision for the same trace. On top of these, the PrioritySampler stamps a
// sampling priority on each trace root; the agent and the other tracers of a
// distributed trace honor it instead of sampling again.
//
// Since the sampling can happen at different levels (client, agent, server),
// the rate applied when keeping a span is stored as a metric on it. This way
// the population size can be reconstructed downstream.
package sampler

import (
	"github.com/DataDog/datadog-trace-client/model"
)

// Sampler tells whether a span should be kept. The set of implementations is
// closed: AllSampler, RateSampler and RateByServiceSampler.
type Sampler interface {
	// ShouldSample tells if the span should be kept, without altering it.
	ShouldSample(span *model.Span) bool
	// Sample decides if the span should be kept, marks it accordingly and
	// returns the decision.
	Sample(span *model.Span) bool
	// Rate returns the effective sample rate applied to the span.
	Rate(span *model.Span) float64

	// decide returns what ShouldSample and Rate would, from one view of
	// the sampler state.
	decide(span *model.Span) (keep bool, rate float64)
}

// AllSampler keeps every span.
type AllSampler struct{}

// NewAllSampler returns a sampler keeping everything.
func NewAllSampler() *AllSampler { return &AllSampler{} }

// ShouldSample implements Sampler.
func (*AllSampler) ShouldSample(*model.Span) bool { return true }

// Sample implements Sampler.
func (*AllSampler) Sample(span *model.Span) bool {
	if span != nil {
		span.Sampled = true
	}
	return true
}

// Rate implements Sampler.
func (*AllSampler) Rate(*model.Span) float64 { return 1 }

func (*AllSampler) decide(*model.Span) (bool, float64) { return true, 1 }
