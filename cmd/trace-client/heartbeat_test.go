package main

import (
	"os"
	"testing"
	"time"

	log "github.com/cihub/seelog"
	"github.com/stretchr/testify/assert"

	"github.com/DataDog/datadog-trace-client/config"
	"github.com/DataDog/datadog-trace-client/model"
)

func TestMain(m *testing.M) {
	log.UseLogger(log.Disabled)
	os.Exit(m.Run())
}

func TestHeartbeatPriority(t *testing.T) {
	assert := assert.New(t)

	conf := config.NewDefaultClientConfig()
	conf.Env = "prod"
	h := newHeartbeat(conf, newSpanSampler(conf))

	trace := h.trace()
	assert.Len(trace, 1)
	root := trace[0]
	assert.Equal(defaultService, root.Service)
	assert.Equal("prod", root.Meta[model.EnvTagKey])
	assert.True(root.Sampled)
	assert.True(trace.Sampled())

	priority, ok := root.GetSamplingPriority()
	assert.True(ok)
	assert.Equal(model.PriorityAutoKeep, priority)
	ctxPriority, ok := root.Context.SamplingPriority()
	assert.True(ok)
	assert.Equal(priority, ctxPriority)

	rate, ok := root.GetMetric(model.AgentSampleRateMetricKey)
	assert.True(ok)
	assert.Equal(1.0, rate)
}

func TestHeartbeatConfiguredRates(t *testing.T) {
	assert := assert.New(t)

	conf := config.NewDefaultClientConfig()
	conf.Env = "prod"
	conf.Service = "billing"
	conf.DefaultServiceRate = 0.5
	conf.RateByService = map[string]float64{"service:billing,env:prod": 0.25}
	s := newSpanSampler(conf)

	assert.Equal(map[string]float64{
		"service:,env:":            0.5,
		"service:billing,env:prod": 0.25,
	}, s.priority.Rates())

	root := newHeartbeat(conf, s).trace()[0]
	assert.Equal("billing", root.Service)
	rate, _ := root.GetMetric(model.AgentSampleRateMetricKey)
	assert.Equal(0.25, rate)
}

func TestHeartbeatNoPrioritySampling(t *testing.T) {
	assert := assert.New(t)

	conf := config.NewDefaultClientConfig()
	conf.PrioritySampling = false
	s := newSpanSampler(conf)
	assert.Nil(s.priority)

	root := newHeartbeat(conf, s).trace()[0]
	assert.True(root.Sampled)
	_, ok := root.GetSamplingPriority()
	assert.False(ok)
}

func TestHeartbeatDuration(t *testing.T) {
	conf := config.NewDefaultClientConfig()
	h := newHeartbeat(conf, newSpanSampler(conf))
	base := time.Unix(1500000000, 0)
	calls := 0
	h.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Millisecond)
	}

	root := h.trace()[0]
	assert.Equal(t, base.Add(time.Millisecond).UnixNano(), root.Start)
	assert.Equal(t, time.Millisecond.Nanoseconds(), root.Duration)
}

func TestNewComponents(t *testing.T) {
	assert := assert.New(t)

	conf := config.NewDefaultClientConfig()
	conf.RateByServiceFile = "/etc/datadog/rates.yaml"
	c, err := newComponents(conf)
	assert.NoError(err)
	assert.Equal("http://localhost:8126", c.agentURL)
	assert.Equal("v0.4", c.client.CurrentAPI())
	assert.NotNil(c.poller)

	conf.PrioritySampling = false
	c, err = newComponents(conf)
	assert.NoError(err)
	assert.Nil(c.poller)

	conf.APIVersion = "v9.9"
	_, err = newComponents(conf)
	assert.Error(err)
}
