package config

import (
	"os"
	"strconv"
	"strings"

	log "github.com/cihub/seelog"
)

// mergeEnv applies overrides from environment variables to the trace client configuration
func mergeEnv(c *ClientConfig) {
	if v := os.Getenv("DD_TRACE_ENABLED"); v == "true" {
		c.Enabled = true
	} else if v == "false" {
		c.Enabled = false
	}

	if v := os.Getenv("DD_ENV"); v != "" {
		c.Env = v
	}

	if v := os.Getenv("DD_SERVICE"); v != "" {
		c.Service = v
	}

	if v := os.Getenv("DD_AGENT_HOST"); v != "" {
		c.AgentHost = v
	}

	if v := os.Getenv("DD_TRACE_AGENT_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			log.Error("Failed to parse DD_TRACE_AGENT_PORT: it should be a port number")
		} else {
			c.AgentPort = port
		}
	}

	if v := os.Getenv("DD_TRACE_API_VERSION"); v != "" {
		c.APIVersion = v
	}

	if v := os.Getenv("DD_PRIORITY_SAMPLING"); v == "true" {
		c.PrioritySampling = true
	} else if v == "false" {
		c.PrioritySampling = false
	}

	if v := os.Getenv("DD_TRACE_SAMPLE_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			log.Errorf("Failed to parse DD_TRACE_SAMPLE_RATE: %v", err)
		} else {
			c.PreSampleRate = rate
		}
	}

	if v := os.Getenv("DD_TRACE_RATE_BY_SERVICE_FILE"); v != "" {
		c.RateByServiceFile = v
	}

	if v := os.Getenv("DD_DOGSTATSD_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			log.Error("Failed to parse DD_DOGSTATSD_PORT: it should be a port number")
		} else {
			c.StatsdPort = port
		}
	}

	if v := os.Getenv("DD_LOG_LEVEL"); v != "" {
		c.LogLevel = strings.TrimSpace(v)
	}
}
