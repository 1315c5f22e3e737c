// Package info publishes the internal state of the trace client through
// expvar, and renders it as a human readable report.
package info

import (
	"encoding/json"
	"expvar" // published on `/debug/vars` by any HTTP server using the default mux
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/DataDog/datadog-trace-client/config"
	"github.com/DataDog/datadog-trace-client/transport"
	"github.com/DataDog/datadog-trace-client/watchdog"
)

// TraceWriterInfo represents statistics from the trace writer, reset on
// every report.
type TraceWriterInfo struct {
	Payloads    int64
	Traces      int64
	Dropped     int64 // traces not sampled, never sent
	Errors      int64
	Bytes       int64
	RateUpdates int64
}

// WatchdogInfo holds the resource usage of the client process.
type WatchdogInfo struct {
	CPU watchdog.CPUInfo
	Mem watchdog.MemInfo
}

var (
	infoMu          sync.RWMutex
	transportStats  transport.Stats
	currentAPI      string
	traceWriterInfo TraceWriterInfo
	watchdogInfo    WatchdogInfo
	rateByService   map[string]float64
	clientConf      config.ClientConfig
	start           = time.Now()
	once            sync.Once
	infoTmpl        *template.Template
)

const infoTmplSrc = `{{.Banner}}
{{.Program}}
{{.Banner}}

  Pid: {{.Status.Pid}}
  Uptime: {{.Status.Uptime}} seconds
  CPU: {{percent .Status.Watchdog.CPU.UserAvg}} %
  Memory: {{.Status.Watchdog.Mem.Alloc}} bytes allocated, {{.Status.Watchdog.Mem.RSS}} bytes resident

  Env: {{.Status.Config.Env}}
  Agent: {{.Status.Config.AgentHost}}:{{.Status.Config.AgentPort}}
  API version: {{.Status.API}}{{if ne .Status.API .Status.Config.APIVersion}} (downgraded from {{.Status.Config.APIVersion}}){{end}}

  Requests sent: {{.Status.Transport.Requests}}
  Successful requests: {{.Status.Transport.Success}}
{{if gt .Status.Transport.ClientErrors 0}}  WARNING: Client errors: {{.Status.Transport.ClientErrors}}
{{end}}{{if gt .Status.Transport.ServerErrors 0}}  WARNING: Server errors: {{.Status.Transport.ServerErrors}}
{{end}}{{if gt .Status.Transport.InternalErrors 0}}  WARNING: Internal errors: {{.Status.Transport.InternalErrors}}
{{end}}{{if gt .Status.Transport.ConsecutiveErrors 0}}  WARNING: Errors since last success: {{.Status.Transport.ConsecutiveErrors}}
{{end}}
  Payloads sent (1 min): {{.Status.TraceWriter.Payloads}}
  Traces sent (1 min): {{.Status.TraceWriter.Traces}}
  Bytes sent (1 min): {{.Status.TraceWriter.Bytes}}
  Traces not sampled (1 min): {{.Status.TraceWriter.Dropped}}
{{if gt .Status.TraceWriter.Errors 0}}  WARNING: Failed flushes (1 min): {{.Status.TraceWriter.Errors}}
{{end}}{{ range $i, $r := .Rates }}
  Sample rate for '{{ $r.Key }}': {{percent $r.Rate}} %{{ end }}
`

// UpdateTransportStats updates the stats of the transport client along with
// the API version it currently targets.
func UpdateTransportStats(stats transport.Stats, api string) {
	infoMu.Lock()
	defer infoMu.Unlock()
	transportStats = stats
	currentAPI = api
}

func publishTransportStats() interface{} {
	infoMu.RLock()
	defer infoMu.RUnlock()
	return transportStats
}

func publishAPI() interface{} {
	infoMu.RLock()
	defer infoMu.RUnlock()
	return currentAPI
}

// UpdateTraceWriterInfo updates internal stats about the trace writer.
func UpdateTraceWriterInfo(twi TraceWriterInfo) {
	infoMu.Lock()
	defer infoMu.Unlock()
	traceWriterInfo = twi
}

func publishTraceWriterInfo() interface{} {
	infoMu.RLock()
	defer infoMu.RUnlock()
	return traceWriterInfo
}

// UpdateWatchdogInfo updates the resource usage of the process.
func UpdateWatchdogInfo(wi WatchdogInfo) {
	infoMu.Lock()
	defer infoMu.Unlock()
	watchdogInfo = wi
}

func publishWatchdogInfo() interface{} {
	infoMu.RLock()
	defer infoMu.RUnlock()
	return watchdogInfo
}

// UpdateRateByService updates the RateByService map
func UpdateRateByService(rbs map[string]float64) {
	infoMu.Lock()
	defer infoMu.Unlock()
	rateByService = rbs
}

func publishRateByService() interface{} {
	infoMu.RLock()
	defer infoMu.RUnlock()
	return rateByService
}

func publishUptime() interface{} {
	return int(time.Since(start) / time.Second)
}

func publishVersion() interface{} {
	return transport.TracerVersion
}

type infoString string

func (s infoString) String() string { return string(s) }

// InitInfo publishes the expvar variables and keeps a copy of conf for the
// report. Only the first call has an effect.
func InitInfo(conf *config.ClientConfig) error {
	var err error

	funcMap := template.FuncMap{
		"percent": func(v float64) string {
			return fmt.Sprintf("%02.1f", v*100)
		},
	}

	once.Do(func() {
		infoMu.Lock()
		clientConf = *conf
		infoMu.Unlock()

		expvar.NewInt("pid").Set(int64(os.Getpid()))
		expvar.Publish("uptime", expvar.Func(publishUptime))
		expvar.Publish("version", expvar.Func(publishVersion))
		expvar.Publish("transport", expvar.Func(publishTransportStats))
		expvar.Publish("api", expvar.Func(publishAPI))
		expvar.Publish("tracewriter", expvar.Func(publishTraceWriterInfo))
		expvar.Publish("ratebyservice", expvar.Func(publishRateByService))
		expvar.Publish("watchdog", expvar.Func(publishWatchdogInfo))

		var buf []byte
		buf, err = json.Marshal(conf)
		if err != nil {
			return
		}
		// the config never changes once loaded, keep it as a plain string
		expvar.Publish("config", infoString(string(buf)))

		infoTmpl, err = template.New("info").Funcs(funcMap).Parse(infoTmplSrc)
	})

	return err
}

// StatusInfo is a snapshot of everything published.
type StatusInfo struct {
	Pid           int                 `json:"pid"`
	Uptime        int                 `json:"uptime"`
	Version       string              `json:"version"`
	API           string              `json:"api"`
	Transport     transport.Stats     `json:"transport"`
	TraceWriter   TraceWriterInfo     `json:"tracewriter"`
	Watchdog      WatchdogInfo        `json:"watchdog"`
	RateByService map[string]float64  `json:"ratebyservice"`
	Config        config.ClientConfig `json:"config"`
}

// Status returns the current status of the client.
func Status() StatusInfo {
	infoMu.RLock()
	defer infoMu.RUnlock()

	rates := make(map[string]float64, len(rateByService))
	for k, v := range rateByService {
		rates[k] = v
	}
	return StatusInfo{
		Pid:           os.Getpid(),
		Uptime:        publishUptime().(int),
		Version:       transport.TracerVersion,
		API:           currentAPI,
		Transport:     transportStats,
		TraceWriter:   traceWriterInfo,
		Watchdog:      watchdogInfo,
		RateByService: rates,
		Config:        clientConf,
	}
}

type serviceRate struct {
	Key  string
	Rate float64
}

// Info writes a report of the client status to w. InitInfo must be called
// first.
//
// Typical output:
//
//	=========================
//	Trace Client (v 0.1.0)
//	=========================
//
//	  Pid: 38149
//	  Uptime: 15 seconds
//	  CPU: 1.2 %
//	  Memory: 3145728 bytes allocated, 20971520 bytes resident
//
//	  Env: prod
//	  Agent: localhost:8126
//	  API version: v0.3 (downgraded from v0.4)
//
//	  Requests sent: 12
//	  Successful requests: 11
//	  WARNING: Client errors: 1
//
//	  Payloads sent (1 min): 6
//	  Traces sent (1 min): 240
//	  Bytes sent (1 min): 10000
//	  Traces not sampled (1 min): 12
//
//	  Sample rate for 'service:web,env:prod': 50.0 %
//
// The "WARNING:" lines are hidden if there are no errors.
func Info(w io.Writer) error {
	if infoTmpl == nil {
		return fmt.Errorf("info not initialized")
	}
	status := Status()

	// the default rate applies to everything else, it says little on its own
	rates := make([]serviceRate, 0, len(status.RateByService))
	for k, v := range status.RateByService {
		if k == "service:,env:" {
			continue
		}
		rates = append(rates, serviceRate{k, v})
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i].Key < rates[j].Key })

	program := fmt.Sprintf("Trace Client (v %s)", status.Version)
	return infoTmpl.Execute(w, struct {
		Banner  string
		Program string
		Status  *StatusInfo
		Rates   []serviceRate
	}{
		Banner:  strings.Repeat("=", len(program)),
		Program: program,
		Status:  &status,
		Rates:   rates,
	})
}
