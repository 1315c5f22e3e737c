package config

import (
	"fmt"

	log "github.com/cihub/seelog"
)

const iniSection = "trace.client"

// mergeIniConfig applies the [trace.client] section of a legacy ini file.
func mergeIniConfig(c *ClientConfig, conf *File) error {
	if conf == nil || !conf.HasSection(iniSection) {
		return nil
	}

	if v, ok := conf.GetBool(iniSection, "enabled"); ok {
		c.Enabled = v
	}
	if v := conf.GetDefault(iniSection, "env", ""); v != "" {
		c.Env = v
	}
	if v := conf.GetDefault(iniSection, "service", ""); v != "" {
		c.Service = v
	}
	if v := conf.GetDefault(iniSection, "agent_host", ""); v != "" {
		c.AgentHost = v
	}
	if _, err := conf.Get(iniSection, "agent_port"); err == nil {
		port, err := conf.GetInt(iniSection, "agent_port")
		if err != nil {
			return fmt.Errorf("invalid agent_port in %s: %v", conf.Path, err)
		}
		c.AgentPort = port
	}
	if v := conf.GetDefault(iniSection, "api_version", ""); v != "" {
		c.APIVersion = v
	}
	if v, ok := conf.GetBool(iniSection, "priority_sampling"); ok {
		c.PrioritySampling = v
	}
	if v, err := conf.GetFloat(iniSection, "pre_sample_rate"); err == nil {
		c.PreSampleRate = v
	}
	if v, err := conf.GetFloat(iniSection, "default_service_rate"); err == nil {
		c.DefaultServiceRate = v
	}
	if v := conf.GetDefault(iniSection, "rate_by_service_file", ""); v != "" {
		c.RateByServiceFile = v
	}
	if v, err := conf.GetInt(iniSection, "flush_period_seconds"); err == nil {
		c.TraceWriterConfig.FlushPeriod = getDuration(v)
	}
	if v, err := conf.GetInt(iniSection, "max_traces_per_payload"); err == nil {
		c.TraceWriterConfig.MaxTracesPerPayload = v
	}
	if v, ok := conf.GetBool(iniSection, "statsd_enabled"); ok {
		c.StatsdEnabled = v
	}
	if v, err := conf.GetInt(iniSection, "dogstatsd_port"); err == nil {
		c.StatsdPort = v
	}
	if v := conf.GetDefault(iniSection, "log_level", ""); v != "" {
		c.LogLevel = v
	}
	if v := conf.GetDefault(iniSection, "log_file", ""); v != "" {
		c.LogFilePath = v
	}

	log.Debugf("loaded legacy configuration from %s", conf.Path)
	return nil
}
