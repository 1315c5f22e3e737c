// Package writer buffers the traces kept by the sampling engine and sends
// them to the agent.
package writer

import (
	"sync"
	"sync/atomic"
	"time"

	log "github.com/cihub/seelog"

	"github.com/DataDog/datadog-trace-client/info"
	"github.com/DataDog/datadog-trace-client/model"
	"github.com/DataDog/datadog-trace-client/statsd"
	"github.com/DataDog/datadog-trace-client/transport"
	"github.com/DataDog/datadog-trace-client/watchdog"
	writerconfig "github.com/DataDog/datadog-trace-client/writer/config"
)

// RatesUpdater receives the rates by service the agent answers with.
type RatesUpdater interface {
	Update(rates map[string]float64) bool
	Rates() map[string]float64
}

// TraceWriter ingests sampled traces and flushes them to the agent.
type TraceWriter struct {
	conf        writerconfig.TraceWriterConfig
	in          chan model.Trace
	client      *transport.Client
	invoke      transport.Invoker
	rates       RatesUpdater
	statsClient statsd.StatsClient
	stats       info.TraceWriterInfo

	mu     sync.Mutex // guards traces
	traces model.Traces

	flushMu sync.Mutex // serializes flushes

	exit   chan struct{}
	exitWG sync.WaitGroup
}

// NewTraceWriter returns a new writer sending through client with invoke.
// rates may be nil, in which case the rates sent back by the agent are ignored.
func NewTraceWriter(conf writerconfig.TraceWriterConfig, client *transport.Client, invoke transport.Invoker, rates RatesUpdater) *TraceWriter {
	log.Infof("Trace writer initializing with config: %+v", conf)

	return &TraceWriter{
		conf:        conf,
		in:          make(chan model.Trace, conf.QueueSize),
		client:      client,
		invoke:      invoke,
		rates:       rates,
		statsClient: statsd.Client,
		exit:        make(chan struct{}),
	}
}

// Write queues a trace for the next flush. It never blocks: when the queue is
// full the trace is dropped and false is returned.
func (w *TraceWriter) Write(trace model.Trace) bool {
	select {
	case w.in <- trace:
		return true
	default:
		log.Debugf("trace writer queue full, dropping trace of %d spans", len(trace))
		w.statsClient.Count("datadog.trace_client.trace_writer.queue_full", 1, nil, 1)
		return false
	}
}

// Start starts the writer.
func (w *TraceWriter) Start() {
	w.exitWG.Add(1)
	watchdog.Go("trace writer", func() {
		defer w.exitWG.Done()
		w.Run()
	})
}

// Run runs the main loop of the writer goroutine. It buffers incoming traces,
// flushing them periodically, and reports its stats periodically too.
func (w *TraceWriter) Run() {
	flushTicker := time.NewTicker(w.conf.FlushPeriod)
	defer flushTicker.Stop()

	updateInfoTicker := time.NewTicker(w.conf.UpdateInfoPeriod)
	defer updateInfoTicker.Stop()

	log.Debug("starting trace writer")

	for {
		select {
		case trace := <-w.in:
			w.handleTrace(trace)
		case <-flushTicker.C:
			w.Flush()
		case <-updateInfoTicker.C:
			w.updateInfo()
		case <-w.exit:
			log.Info("exiting trace writer, flushing all remaining traces")
			w.drain()
			w.Flush()
			w.updateInfo()
			return
		}
	}
}

// Stop stops the main Run loop, flushing what is left.
func (w *TraceWriter) Stop() {
	close(w.exit)
	w.exitWG.Wait()
}

// drain buffers the traces still queued.
func (w *TraceWriter) drain() {
	for {
		select {
		case trace := <-w.in:
			w.handleTrace(trace)
		default:
			return
		}
	}
}

func (w *TraceWriter) handleTrace(trace model.Trace) {
	if len(trace) == 0 {
		log.Debugf("Ignoring 0-length trace")
		return
	}
	if !trace.Sampled() {
		atomic.AddInt64(&w.stats.Dropped, 1)
		return
	}

	w.mu.Lock()
	w.traces = append(w.traces, trace)
	full := len(w.traces) >= w.conf.MaxTracesPerPayload
	w.mu.Unlock()

	if full {
		log.Debugf("Flushing because we reached max per payload")
		w.Flush()
	}
}

// Flush sends the buffered traces to the agent. On success, the rates by
// service the agent answers with are handed to the rates updater.
func (w *TraceWriter) Flush() {
	w.flushMu.Lock()
	defer w.flushMu.Unlock()

	w.mu.Lock()
	traces := w.traces
	w.traces = nil
	w.mu.Unlock()

	if len(traces) == 0 {
		return
	}

	log.Debugf("flushing %d traces", len(traces))
	start := time.Now()
	resp := w.client.SendRequest(&transport.Request{Traces: traces}, w.send)
	w.statsClient.Timing("datadog.trace_client.trace_writer.flush_duration", time.Since(start), nil, 1)

	if !resp.OK() {
		log.Debugf("failed to flush %d traces: %v", len(traces), resp)
		atomic.AddInt64(&w.stats.Errors, 1)
		return
	}
	atomic.AddInt64(&w.stats.Payloads, 1)
	atomic.AddInt64(&w.stats.Traces, int64(len(traces)))

	w.updateRates(resp)
}

// send invokes the agent, counting the bytes of accepted payloads.
func (w *TraceWriter) send(api *transport.API, env *transport.Envelope) (transport.Response, error) {
	resp, err := w.invoke(api, env)
	if err == nil && resp != nil && resp.OK() {
		atomic.AddInt64(&w.stats.Bytes, int64(len(env.Body)))
	}
	return resp, err
}

// updateRates feeds the rates of resp back into the sampler, for APIs that
// return them.
func (w *TraceWriter) updateRates(resp transport.Response) {
	if w.rates == nil {
		return
	}
	api, ok := w.client.Registry().Get(w.client.CurrentAPI())
	if !ok || !api.ServiceRates {
		return
	}
	rates, err := transport.ParseServiceRates(resp)
	if err != nil {
		log.Debugf("cannot read rates by service from agent response: %v", err)
		return
	}
	if w.rates.Update(rates) {
		atomic.AddInt64(&w.stats.RateUpdates, 1)
	}
}

func (w *TraceWriter) updateInfo() {
	var twInfo info.TraceWriterInfo

	// Load counters and reset them for the next report
	twInfo.Payloads = atomic.SwapInt64(&w.stats.Payloads, 0)
	twInfo.Traces = atomic.SwapInt64(&w.stats.Traces, 0)
	twInfo.Dropped = atomic.SwapInt64(&w.stats.Dropped, 0)
	twInfo.Errors = atomic.SwapInt64(&w.stats.Errors, 0)
	twInfo.Bytes = atomic.SwapInt64(&w.stats.Bytes, 0)
	twInfo.RateUpdates = atomic.SwapInt64(&w.stats.RateUpdates, 0)

	w.statsClient.Count("datadog.trace_client.trace_writer.payloads", twInfo.Payloads, nil, 1)
	w.statsClient.Count("datadog.trace_client.trace_writer.traces", twInfo.Traces, nil, 1)
	w.statsClient.Count("datadog.trace_client.trace_writer.dropped", twInfo.Dropped, nil, 1)
	w.statsClient.Count("datadog.trace_client.trace_writer.errors", twInfo.Errors, nil, 1)
	w.statsClient.Count("datadog.trace_client.trace_writer.rate_updates", twInfo.RateUpdates, nil, 1)

	ts := w.client.Stats()
	w.statsClient.Gauge("datadog.trace_client.transport.requests", float64(ts.Requests), nil, 1)
	w.statsClient.Gauge("datadog.trace_client.transport.internal_errors", float64(ts.InternalErrors), nil, 1)
	w.statsClient.Gauge("datadog.trace_client.transport.consecutive_errors", float64(ts.ConsecutiveErrors), nil, 1)

	wdInfo := info.WatchdogInfo{CPU: watchdog.CPU(), Mem: watchdog.Mem()}
	w.statsClient.Gauge("datadog.trace_client.cpu_percent", wdInfo.CPU.UserAvg*100, nil, 1)
	w.statsClient.Gauge("datadog.trace_client.heap_alloc", float64(wdInfo.Mem.Alloc), nil, 1)

	info.UpdateTraceWriterInfo(twInfo)
	info.UpdateWatchdogInfo(wdInfo)
	info.UpdateTransportStats(ts, w.client.CurrentAPI())
	if w.rates != nil {
		info.UpdateRateByService(w.rates.Rates())
	}
}
