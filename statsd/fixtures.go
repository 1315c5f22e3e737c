package statsd

import (
	"sync"
	"time"
)

// MetricCall is a call recorded by a TestStatsClient. Value holds the count,
// gauge or histogram value; timings are recorded in seconds.
type MetricCall struct {
	Kind  string
	Name  string
	Value float64
	Tags  []string
	Rate  float64
}

// Summary aggregates the calls made on a metric.
type Summary struct {
	Calls []MetricCall
	Sum   float64
	Last  float64
}

// TestStatsClient is a StatsClient recording every call, for tests.
// Err is returned by every method.
type TestStatsClient struct {
	Err error

	mu    sync.Mutex
	calls []MetricCall
}

var _ StatsClient = (*TestStatsClient)(nil)

func (c *TestStatsClient) record(kind, name string, value float64, tags []string, rate float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, MetricCall{Kind: kind, Name: name, Value: value, Tags: tags, Rate: rate})
	return c.Err
}

// Gauge records a gauge.
func (c *TestStatsClient) Gauge(name string, value float64, tags []string, rate float64) error {
	return c.record("gauge", name, value, tags, rate)
}

// Count records a count.
func (c *TestStatsClient) Count(name string, value int64, tags []string, rate float64) error {
	return c.record("count", name, float64(value), tags, rate)
}

// Histogram records a histogram value.
func (c *TestStatsClient) Histogram(name string, value float64, tags []string, rate float64) error {
	return c.record("histogram", name, value, tags, rate)
}

// Timing records a timing.
func (c *TestStatsClient) Timing(name string, value time.Duration, tags []string, rate float64) error {
	return c.record("timing", name, value.Seconds(), tags, rate)
}

// Calls returns a copy of the recorded calls of the given kind, all of them
// if kind is empty.
func (c *TestStatsClient) Calls(kind string) []MetricCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	var calls []MetricCall
	for _, call := range c.calls {
		if kind == "" || call.Kind == kind {
			calls = append(calls, call)
		}
	}
	return calls
}

// Summaries groups the calls of the given kind by metric name.
func (c *TestStatsClient) Summaries(kind string) map[string]*Summary {
	result := map[string]*Summary{}
	for _, call := range c.Calls(kind) {
		s, ok := result[call.Name]
		if !ok {
			s = &Summary{}
			result[call.Name] = s
		}
		s.Calls = append(s.Calls, call)
		s.Sum += call.Value
		s.Last = call.Value
	}
	return result
}

// Reset forgets all recorded calls.
func (c *TestStatsClient) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = nil
}
