package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	writerconfig "github.com/DataDog/datadog-trace-client/writer/config"
)

// DefaultLogFilePath is where the client will write logs if not overriden in the conf
const DefaultLogFilePath = "/var/log/datadog/trace-client.log"

// ClientConfig handles the interpretation of the configuration (with default
// behaviors) in one place. It is also a simple structure to share across all
// the client components, with 100% safe and reliable values.
// It is exposed with expvar, so make sure to exclude any sensible field
// from JSON encoding.
type ClientConfig struct {
	Enabled bool

	// Global
	Env     string // spans are reported in this environment
	Service string

	// Agent
	AgentHost  string
	AgentPort  int
	APIVersion string // API version to start with, downgraded if the agent doesn't support it
	Timeout    time.Duration

	// Sampler configuration
	PrioritySampling   bool
	PreSampleRate      float64 // below 1, traces are dropped before priority sampling, not recommended
	DefaultServiceRate float64
	RateByService      map[string]float64
	RateByServiceFile  string // rates are reloaded from this file when it changes
	RatesPollPeriod    time.Duration

	// Writer
	TraceWriterConfig writerconfig.TraceWriterConfig

	// internal telemetry
	StatsdEnabled bool
	StatsdHost    string
	StatsdPort    int

	// logging
	LogLevel              string
	LogFilePath           string
	LogThrottlingEnabled  bool
	MaxErrorLogsPerSecond int
}

// NewDefaultClientConfig returns a configuration with the default values
func NewDefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		Enabled: true,
		Env:     "none",

		AgentHost:  "localhost",
		AgentPort:  8126,
		APIVersion: "v0.4",
		Timeout:    2 * time.Second,

		PrioritySampling:   true,
		PreSampleRate:      1.0,
		DefaultServiceRate: 1.0,
		RateByService:      make(map[string]float64),
		RatesPollPeriod:    time.Minute,

		TraceWriterConfig: writerconfig.DefaultTraceWriterConfig(),

		StatsdEnabled: true,
		StatsdHost:    "localhost",
		StatsdPort:    8125,

		LogLevel:              "INFO",
		LogFilePath:           DefaultLogFilePath,
		LogThrottlingEnabled:  true,
		MaxErrorLogsPerSecond: 10,
	}
}

// Load creates the ClientConfig from the default values, then the legacy ini
// file, then the yaml file, then the environment. Empty or missing paths
// are skipped.
func Load(iniPath, yamlPath string) (*ClientConfig, error) {
	c := NewDefaultClientConfig()

	if pathExists(iniPath) {
		conf, err := NewIni(iniPath)
		if err != nil {
			return nil, err
		}
		if err := mergeIniConfig(c, conf); err != nil {
			return nil, err
		}
	}

	if pathExists(yamlPath) {
		yamlConf, err := NewYamlIfExists(yamlPath)
		if err != nil {
			return nil, err
		}
		if err := mergeYamlConfig(c, yamlConf); err != nil {
			return nil, err
		}
	}

	// environment variables have precedence among defaults and the config file
	mergeEnv(c)

	return c, c.validate()
}

func (c *ClientConfig) validate() error {
	if c.APIVersion == "" {
		return errors.New("no API version configured")
	}
	if c.AgentPort <= 0 || c.AgentPort > 65535 {
		return fmt.Errorf("invalid agent port: %d", c.AgentPort)
	}
	if c.TraceWriterConfig.FlushPeriod <= 0 {
		return fmt.Errorf("invalid flush period: %s", c.TraceWriterConfig.FlushPeriod)
	}
	if c.TraceWriterConfig.UpdateInfoPeriod <= 0 {
		return fmt.Errorf("invalid info update period: %s", c.TraceWriterConfig.UpdateInfoPeriod)
	}
	if c.RatesPollPeriod <= 0 {
		return fmt.Errorf("invalid rates poll period: %s", c.RatesPollPeriod)
	}
	return nil
}

// pathExists returns a boolean indicating if the given path exists on the file system.
func pathExists(filename string) bool {
	if filename == "" {
		return false
	}
	_, err := os.Stat(filename)
	return err == nil
}

// getDuration returns the duration of the provided value in seconds
func getDuration(value int) time.Duration {
	return time.Duration(value) * time.Second
}
