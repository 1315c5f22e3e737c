// Package statsd holds the global client the trace client reports its own
// metrics with.
package statsd

import (
	"fmt"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
)

// StatsClient represents a client capable of sending stats to some stat endpoint.
type StatsClient interface {
	Gauge(name string, value float64, tags []string, rate float64) error
	Count(name string, value int64, tags []string, rate float64) error
	Histogram(name string, value float64, tags []string, rate float64) error
	Timing(name string, value time.Duration, tags []string, rate float64) error
}

// Client is a global Statsd client. When a client is configured via Configure,
// that becomes the new global Statsd client in the package. Until then, calls
// return an error and send nothing.
var Client StatsClient = (*statsd.Client)(nil)

// Configure creates a statsd client sending to host:port and sets it as the
// global Statsd. tags are added to every metric.
func Configure(host string, port int, tags []string) error {
	client, err := statsd.New(fmt.Sprintf("%s:%d", host, port), statsd.WithTags(tags))
	if err != nil {
		return err
	}

	Client = client
	return nil
}
