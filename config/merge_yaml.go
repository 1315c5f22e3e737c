package config

import (
	"fmt"
	"io/ioutil"

	"gopkg.in/yaml.v2"
)

// YamlClientConfig is a structure used for marshaling the yaml configuration.
type YamlClientConfig struct {
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
	Env      string `yaml:"env"`

	StatsdEnabled *bool  `yaml:"statsd_enabled"`
	StatsdHost    string `yaml:"statsd_host"`
	StatsdPort    int    `yaml:"dogstatsd_port"`

	TraceClient traceClient `yaml:"trace_client"`
}

type traceClient struct {
	Enabled    *bool  `yaml:"enabled"`
	Service    string `yaml:"service"`
	AgentHost  string `yaml:"agent_host"`
	AgentPort  int    `yaml:"agent_port"`
	APIVersion string `yaml:"api_version"`
	Timeout    int    `yaml:"timeout_seconds"`

	Sampler sampler `yaml:"sampler"`

	TraceWriter traceWriter `yaml:"trace_writer"`

	LogThrottling         *bool `yaml:"log_throttling"`
	MaxErrorLogsPerSecond int   `yaml:"max_error_logs_per_second"`
}

type sampler struct {
	PrioritySampling   *bool              `yaml:"priority_sampling"`
	PreSampleRate      float64            `yaml:"pre_sample_rate"`
	DefaultServiceRate float64            `yaml:"default_service_rate"`
	RateByService      map[string]float64 `yaml:"rate_by_service"`
	RateByServiceFile  string             `yaml:"rate_by_service_file"`
	RatesPollPeriod    int                `yaml:"rates_poll_period_seconds"`
}

type traceWriter struct {
	FlushPeriod         int `yaml:"flush_period_seconds"`
	MaxTracesPerPayload int `yaml:"max_traces_per_payload"`
	UpdateInfoPeriod    int `yaml:"update_info_period_seconds"`
	QueueSize           int `yaml:"queue_size"`
}

// NewYamlIfExists returns a new YamlClientConfig if the given configPath is exists.
func NewYamlIfExists(configPath string) (*YamlClientConfig, error) {
	var yamlConf YamlClientConfig
	if pathExists(configPath) {
		fileContent, err := ioutil.ReadFile(configPath)
		if err != nil {
			return nil, err
		}
		if err = yaml.Unmarshal(fileContent, &yamlConf); err != nil {
			return nil, fmt.Errorf("parse error: %s", err)
		}
		return &yamlConf, nil
	}
	return nil, nil
}

func mergeYamlConfig(c *ClientConfig, yc *YamlClientConfig) error {
	if yc == nil {
		return nil
	}

	if yc.LogLevel != "" {
		c.LogLevel = yc.LogLevel
	}
	if yc.LogFile != "" {
		c.LogFilePath = yc.LogFile
	}
	if yc.Env != "" {
		c.Env = yc.Env
	}
	if yc.StatsdEnabled != nil {
		c.StatsdEnabled = *yc.StatsdEnabled
	}
	if yc.StatsdHost != "" {
		c.StatsdHost = yc.StatsdHost
	}
	if yc.StatsdPort > 0 {
		c.StatsdPort = yc.StatsdPort
	}

	tc := yc.TraceClient
	if tc.Enabled != nil {
		c.Enabled = *tc.Enabled
	}
	if tc.Service != "" {
		c.Service = tc.Service
	}
	if tc.AgentHost != "" {
		c.AgentHost = tc.AgentHost
	}
	if tc.AgentPort > 0 {
		c.AgentPort = tc.AgentPort
	}
	if tc.APIVersion != "" {
		c.APIVersion = tc.APIVersion
	}
	if tc.Timeout > 0 {
		c.Timeout = getDuration(tc.Timeout)
	}
	if tc.LogThrottling != nil {
		c.LogThrottlingEnabled = *tc.LogThrottling
	}
	if tc.MaxErrorLogsPerSecond > 0 {
		c.MaxErrorLogsPerSecond = tc.MaxErrorLogsPerSecond
	}

	s := tc.Sampler
	if s.PrioritySampling != nil {
		c.PrioritySampling = *s.PrioritySampling
	}
	if s.PreSampleRate > 0 {
		c.PreSampleRate = s.PreSampleRate
	}
	if s.DefaultServiceRate > 0 {
		c.DefaultServiceRate = s.DefaultServiceRate
	}
	for k, v := range s.RateByService {
		c.RateByService[k] = v
	}
	if s.RateByServiceFile != "" {
		c.RateByServiceFile = s.RateByServiceFile
	}
	if s.RatesPollPeriod > 0 {
		c.RatesPollPeriod = getDuration(s.RatesPollPeriod)
	}

	w := tc.TraceWriter
	if w.FlushPeriod > 0 {
		c.TraceWriterConfig.FlushPeriod = getDuration(w.FlushPeriod)
	}
	if w.MaxTracesPerPayload > 0 {
		c.TraceWriterConfig.MaxTracesPerPayload = w.MaxTracesPerPayload
	}
	if w.UpdateInfoPeriod > 0 {
		c.TraceWriterConfig.UpdateInfoPeriod = getDuration(w.UpdateInfoPeriod)
	}
	if w.QueueSize > 0 {
		c.TraceWriterConfig.QueueSize = w.QueueSize
	}

	return nil
}
