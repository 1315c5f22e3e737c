package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	log "github.com/cihub/seelog"

	"github.com/DataDog/datadog-trace-client/config"
	"github.com/DataDog/datadog-trace-client/flags"
	"github.com/DataDog/datadog-trace-client/info"
	"github.com/DataDog/datadog-trace-client/pidfile"
	"github.com/DataDog/datadog-trace-client/poller"
	"github.com/DataDog/datadog-trace-client/statsd"
	"github.com/DataDog/datadog-trace-client/transport"
	"github.com/DataDog/datadog-trace-client/watchdog"
	"github.com/DataDog/datadog-trace-client/writer"
)

// handleSignal calls onSignal on the first SIGINT or SIGTERM.
func handleSignal(onSignal func()) {
	sigChan := make(chan os.Signal, 10)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	for signo := range sigChan {
		log.Infof("received signal %d (%v)", signo, signo)
		onSignal()
		return
	}
}

// die logs an error message and makes the program exit immediately.
func die(format string, args ...interface{}) {
	if flags.Info || flags.Version {
		// the logger is silenced, plain console output only
		fmt.Printf(format+"\n", args...)
	} else {
		log.Errorf(format, args...)
		log.Flush()
	}
	os.Exit(1)
}

func versionString() string {
	return fmt.Sprintf("Trace Client %s\nGo Version: %s\n", transport.TracerVersion, runtime.Version())
}

// run is the entrypoint of our code.
func run(ctx context.Context) {
	if flags.Info || flags.Version {
		log.UseLogger(log.Disabled)
	} else {
		// a default logger, to observe initialization
		if err := config.NewLoggerLevelCustom("info", ""); err != nil {
			die("cannot create logger: %v", err)
		}
		defer log.Flush()
	}

	defer watchdog.LogOnPanic()

	if flags.Version {
		fmt.Print(versionString())
		return
	}

	if err := flags.Validate(); err != nil {
		die("%v", err)
	}

	if !flags.Info && flags.PIDFilePath != "" {
		if err := pidfile.WritePID(flags.PIDFilePath); err != nil {
			die("error while writing PID file, exiting: %v", err)
		}
		log.Infof("pid '%d' written to pid file '%s'", os.Getpid(), flags.PIDFilePath)
		defer os.Remove(flags.PIDFilePath)
	}

	conf, err := config.Load(flags.LegacyConfigFile, flags.ConfigFile)
	if err != nil {
		die("%v", err)
	}
	if flags.IsSet("log-level") {
		conf.LogLevel = flags.LogLevel
	}
	if !conf.Enabled {
		log.Info("trace client not enabled, set DD_TRACE_ENABLED=true to enable it. Exiting.")
		return
	}

	if !flags.Info {
		if err := config.NewLoggerLevelCustom(conf.LogLevel, conf.LogFilePath); err != nil {
			die("cannot create logger: %v", err)
		}
	}

	if conf.StatsdEnabled {
		if err := statsd.Configure(conf.StatsdHost, conf.StatsdPort, []string{"env:" + conf.Env}); err != nil {
			log.Errorf("cannot configure dogstatsd: %v", err)
		}
	}

	if err := info.InitInfo(conf); err != nil {
		die("%v", err)
	}

	c, err := newComponents(conf)
	if err != nil {
		die("%v", err)
	}

	if flags.Info {
		c.writer.Start()
		c.writer.Write(c.heartbeat.trace())
		c.writer.Stop()
		if err := info.Info(os.Stdout); err != nil {
			die("failed to print info: %v", err)
		}
		return
	}

	if c.poller != nil {
		if err := c.poller.Start(); err != nil {
			log.Errorf("rates file %s not watched: %v", conf.RateByServiceFile, err)
			c.poller = nil
		}
	}
	c.writer.Start()
	log.Infof("trace client running, sending to %s", c.agentURL)

	ticker := time.NewTicker(flags.Heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.writer.Write(c.heartbeat.trace())
		case <-ctx.Done():
			if c.poller != nil {
				c.poller.Stop()
			}
			c.writer.Stop()
			return
		}
	}
}

// components are the parts of the client wired together from the config.
type components struct {
	client    *transport.Client
	writer    *writer.TraceWriter
	poller    *poller.RatesPoller
	heartbeat *heartbeat
	agentURL  string
}

func newComponents(conf *config.ClientConfig) (*components, error) {
	var opts []transport.ClientOption
	if conf.LogThrottlingEnabled {
		opts = append(opts, transport.WithErrorLogLimit(conf.MaxErrorLogsPerSecond))
	}
	client, err := transport.NewClient(transport.DefaultRegistry(), conf.APIVersion, opts...)
	if err != nil {
		return nil, err
	}

	invoker := transport.NewHTTPInvoker(conf.AgentHost, conf.AgentPort, &http.Client{Timeout: conf.Timeout})
	s := newSpanSampler(conf)

	var rates writer.RatesUpdater
	if s.priority != nil {
		rates = s.priority
	}

	c := &components{
		client:    client,
		writer:    writer.NewTraceWriter(conf.TraceWriterConfig, client, invoker.Invoke, rates),
		heartbeat: newHeartbeat(conf, s),
		agentURL:  invoker.BaseURL(),
	}
	if conf.RateByServiceFile != "" && s.priority != nil {
		c.poller = poller.NewRatesPoller(conf.RateByServiceFile, conf.RatesPollPeriod, s.priority)
	}
	return c, nil
}

func main() {
	rand.Seed(time.Now().UTC().UnixNano())
	flags.Parse()

	ctx, cancelFunc := context.WithCancel(context.Background())
	go handleSignal(cancelFunc)

	run(ctx)
}
