package config

import "time"

// TraceWriterConfig contains the configuration to customize the behaviour of a TraceWriter.
type TraceWriterConfig struct {
	// FlushPeriod is the delay between two flushes of the buffered traces.
	FlushPeriod time.Duration
	// MaxTracesPerPayload triggers a flush as soon as the buffer holds that
	// many traces.
	MaxTracesPerPayload int
	// UpdateInfoPeriod is the delay between two reports of the writer stats.
	UpdateInfoPeriod time.Duration
	// QueueSize is the capacity of the channel traces are written to.
	QueueSize int
}

// DefaultTraceWriterConfig creates a new instance of a TraceWriterConfig using default values.
func DefaultTraceWriterConfig() TraceWriterConfig {
	return TraceWriterConfig{
		FlushPeriod:         time.Second,
		MaxTracesPerPayload: 1000,
		UpdateInfoPeriod:    time.Minute,
		QueueSize:           1000,
	}
}
