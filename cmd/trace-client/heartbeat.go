package main

import (
	"time"

	"github.com/DataDog/datadog-trace-client/config"
	"github.com/DataDog/datadog-trace-client/model"
	"github.com/DataDog/datadog-trace-client/sampler"
)

const defaultService = "trace-client"

// spanSampler is the sampling engine the client is configured with: a
// priority sampler, or a plain sampler when priority sampling is disabled.
type spanSampler struct {
	priority *sampler.PrioritySampler
	plain    sampler.Sampler
}

func newSpanSampler(conf *config.ClientConfig) *spanSampler {
	var pre sampler.Sampler = sampler.NewAllSampler()
	if conf.PreSampleRate < 1 {
		pre = sampler.NewRateSampler(conf.PreSampleRate)
	}
	if !conf.PrioritySampling {
		return &spanSampler{plain: pre}
	}

	post := sampler.NewRateByServiceSampler(conf.DefaultServiceRate, conf.Env)
	if len(conf.RateByService) > 0 {
		rates := map[string]float64{sampler.DefaultServiceRateKey: conf.DefaultServiceRate}
		for k, v := range conf.RateByService {
			rates[k] = v
		}
		post.Update(rates)
	}
	return &spanSampler{priority: sampler.NewPrioritySampler(pre, post)}
}

func (s *spanSampler) Sample(span *model.Span) bool {
	if s.priority != nil {
		return s.priority.Sample(span)
	}
	return s.plain.Sample(span)
}

// heartbeat builds the traces the client sends on its own, reporting that it
// is alive.
type heartbeat struct {
	service string
	env     string
	sampler *spanSampler
	now     func() time.Time
}

func newHeartbeat(conf *config.ClientConfig, s *spanSampler) *heartbeat {
	service := conf.Service
	if service == "" {
		service = defaultService
	}
	return &heartbeat{service: service, env: conf.Env, sampler: s, now: time.Now}
}

// trace returns a new sampled, or not, heartbeat trace.
func (h *heartbeat) trace() model.Trace {
	start := h.now()
	root := &model.Span{
		TraceID:  model.RandomID(),
		SpanID:   model.RandomID(),
		Service:  h.service,
		Name:     "trace_client.heartbeat",
		Resource: "heartbeat",
		Type:     "custom",
		Start:    start.UnixNano(),
		Context:  model.NewContext(),
	}
	root.SetMeta(model.EnvTagKey, h.env)
	h.sampler.Sample(root)
	root.Duration = h.now().Sub(start).Nanoseconds()
	return model.Trace{root}
}
