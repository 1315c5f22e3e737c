package sampler

import (
	"github.com/DataDog/datadog-trace-client/model"
)

// PrioritySampler is the main component of the sampling logic. It runs an
// optional pre-sampling pass, then stamps a sampling priority on the span,
// shared with every service taking part in the same distributed trace.
//
// Pre-sampling at less than 100% drops spans before the priority is known,
// which may end up with partial traces. It is not recommended.
//
// The zero value keeps everything and ignores rate updates, use
// NewPrioritySampler.
type PrioritySampler struct {
	pre  Sampler
	post Sampler
}

// NewPrioritySampler returns an initialized PrioritySampler. A nil pre-sampler
// keeps everything, a nil post-sampler samples by service at 100% until the
// agent sends rates.
func NewPrioritySampler(pre, post Sampler) *PrioritySampler {
	if pre == nil {
		pre = NewAllSampler()
	}
	if post == nil {
		post = NewRateByServiceSampler(1, "")
	}
	return &PrioritySampler{pre: pre, post: post}
}

// ShouldSample tells if the span would survive pre-sampling. Priority sampling
// never drops spans by itself, it only tags them.
func (s *PrioritySampler) ShouldSample(span *model.Span) bool {
	if !s.preSampling(span) {
		return true
	}
	return s.preSampler().ShouldSample(span)
}

// Sample marks the span as sampled or not, and assigns it a sampling priority.
// It returns the value of span.Sampled.
func (s *PrioritySampler) Sample(span *model.Span) bool {
	if span == nil {
		return false
	}

	if s.preSampling(span) {
		span.Sampled = s.preSampler().Sample(span)
	} else {
		span.Sampled = true
	}

	if !span.Sampled {
		// Other services of the same trace should not sample a trace
		// we already dropped, else it would end up partially collected.
		assignPriority(span, model.PriorityAutoReject)
		return false
	}

	if priority, ok := span.Context.SamplingPriority(); ok {
		// Decided upstream, it is final. The tag is still required as
		// it is what gets sent over the wire.
		span.SetSamplingPriority(priority)
		return true
	}

	keep, rate := s.postSampler().decide(span)
	priority := model.PriorityAutoReject
	if keep {
		priority = model.PriorityAutoKeep
	}
	span.SetMetric(model.AgentSampleRateMetricKey, rate)
	assignPriority(span, priority)

	return true
}

// Update forwards the rates sent by the agent to the post-sampler, when it
// samples by service. It reports whether the rates were applied.
func (s *PrioritySampler) Update(rates map[string]float64) bool {
	rbs, ok := s.post.(*RateByServiceSampler)
	if !ok {
		return false
	}
	rbs.Update(rates)
	return true
}

// Rates returns the rates by service in use, if the post-sampler samples by service.
func (s *PrioritySampler) Rates() map[string]float64 {
	if rbs, ok := s.post.(*RateByServiceSampler); ok {
		return rbs.Rates()
	}
	return nil
}

// preSampling tells if pre-sampling is active for this span.
func (s *PrioritySampler) preSampling(span *model.Span) bool {
	return s.preSampler().Rate(span) < 1
}

func (s *PrioritySampler) preSampler() Sampler {
	if s.pre == nil {
		return allSampler
	}
	return s.pre
}

func (s *PrioritySampler) postSampler() Sampler {
	if s.post == nil {
		return allSampler
	}
	return s.post
}

var allSampler = NewAllSampler()

func assignPriority(span *model.Span, priority int) {
	span.Context.SetSamplingPriority(priority)
	span.SetSamplingPriority(priority)
}
