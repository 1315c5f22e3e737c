package sampler

import (
	"sync"

	"github.com/DataDog/datadog-trace-client/model"
)

// RateByServiceSampler applies a distinct rate for each service/env tuple,
// as sent by the agent, and a default rate for everything else. The zero
// value keeps everything until rates are set with Update.
//
// Every read takes the lock so that a concurrent Update is never observed
// half-applied.
type RateByServiceSampler struct {
	env string

	mu       sync.RWMutex
	samplers map[string]*RateSampler
}

// NewRateByServiceSampler returns a sampler applying defaultRate to any service
// until rates are received. env is the environment spans are reported in.
func NewRateByServiceSampler(defaultRate float64, env string) *RateByServiceSampler {
	return &RateByServiceSampler{
		env: env,
		samplers: map[string]*RateSampler{
			DefaultServiceRateKey: NewRateSampler(defaultRate),
		},
	}
}

// ShouldSample implements Sampler.
func (s *RateByServiceSampler) ShouldSample(span *model.Span) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.samplerFor(span).ShouldSample(span)
}

// Sample implements Sampler.
func (s *RateByServiceSampler) Sample(span *model.Span) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.samplerFor(span).Sample(span)
}

// Rate implements Sampler.
func (s *RateByServiceSampler) Rate(span *model.Span) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.samplerFor(span).SampleRate()
}

// Update replaces the rates of all services. Services absent from rates are
// removed, except the default entry which always remains. Existing samplers
// are updated in place.
func (s *RateByServiceSampler) Update(rates map[string]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.samplers == nil {
		s.samplers = make(map[string]*RateSampler, len(rates))
	}
	for key := range s.samplers {
		if _, ok := rates[key]; !ok && key != DefaultServiceRateKey {
			delete(s.samplers, key)
		}
	}
	for key, rate := range rates {
		if sampler, ok := s.samplers[key]; ok {
			sampler.SetRate(rate)
			continue
		}
		s.samplers[key] = NewRateSampler(rate)
	}
}

// Rates returns a snapshot of the rates of all services.
func (s *RateByServiceSampler) Rates() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ret := make(map[string]float64, len(s.samplers))
	for k, v := range s.samplers {
		ret[k] = v.SampleRate()
	}
	return ret
}

func (s *RateByServiceSampler) decide(span *model.Span) (bool, float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.samplerFor(span).decide(span)
}

// samplerFor must be called with the lock held.
func (s *RateByServiceSampler) samplerFor(span *model.Span) *RateSampler {
	if sampler, ok := s.samplers[spanServiceKey(span, s.env)]; ok {
		return sampler
	}
	if sampler, ok := s.samplers[DefaultServiceRateKey]; ok {
		return sampler
	}
	return keepAllSampler
}

// keepAllSampler stands for a missing default rate. It is never updated.
var keepAllSampler = &RateSampler{}
