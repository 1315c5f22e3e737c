package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	log "github.com/cihub/seelog"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	log.UseLogger(log.Disabled)
	os.Exit(m.Run())
}

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	if err := ioutil.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	assert := assert.New(t)

	c, err := Load("", "")
	assert.NoError(err)
	assert.True(c.Enabled)
	assert.Equal("localhost", c.AgentHost)
	assert.Equal(8126, c.AgentPort)
	assert.Equal("v0.4", c.APIVersion)
	assert.True(c.PrioritySampling)
	assert.Equal(1.0, c.PreSampleRate)
	assert.Equal(time.Second, c.TraceWriterConfig.FlushPeriod)
	assert.Equal(8125, c.StatsdPort)
}

func TestMissingFiles(t *testing.T) {
	c, err := Load("/does/not/exist.ini", "/does/not/exist.yaml")
	assert.NoError(t, err)
	assert.Equal(t, NewDefaultClientConfig(), c)
}

func TestIniConfig(t *testing.T) {
	assert := assert.New(t)

	path := writeFile(t, "datadog.conf", `[Main]
api_key = ignored

[trace.client]
env = staging
service = billing
agent_host = agent.local
agent_port = 9126
api_version = v0.3
priority_sampling = no
pre_sample_rate = 0.5
flush_period_seconds = 5
dogstatsd_port = 18125
log_level = debug
`)

	c, err := Load(path, "")
	assert.NoError(err)
	assert.Equal("staging", c.Env)
	assert.Equal("billing", c.Service)
	assert.Equal("agent.local", c.AgentHost)
	assert.Equal(9126, c.AgentPort)
	assert.Equal("v0.3", c.APIVersion)
	assert.False(c.PrioritySampling)
	assert.Equal(0.5, c.PreSampleRate)
	assert.Equal(5*time.Second, c.TraceWriterConfig.FlushPeriod)
	assert.Equal(18125, c.StatsdPort)
	assert.Equal("debug", c.LogLevel)
}

func TestIniConfigBadPort(t *testing.T) {
	path := writeFile(t, "datadog.conf", "[trace.client]\nagent_port = abc\n")
	_, err := Load(path, "")
	assert.Error(t, err)
}

func TestYamlConfig(t *testing.T) {
	assert := assert.New(t)

	path := writeFile(t, "datadog.yaml", `
log_level: warn
env: prod
statsd_enabled: false
trace_client:
  service: web
  agent_port: 7777
  api_version: v0.2
  sampler:
    priority_sampling: true
    default_service_rate: 0.8
    rate_by_service:
      "service:web,env:prod": 0.25
    rate_by_service_file: /etc/datadog/rates.yaml
  trace_writer:
    flush_period_seconds: 3
    max_traces_per_payload: 50
`)

	c, err := Load("", path)
	assert.NoError(err)
	assert.Equal("warn", c.LogLevel)
	assert.Equal("prod", c.Env)
	assert.False(c.StatsdEnabled)
	assert.Equal("web", c.Service)
	assert.Equal(7777, c.AgentPort)
	assert.Equal("v0.2", c.APIVersion)
	assert.True(c.PrioritySampling)
	assert.Equal(0.8, c.DefaultServiceRate)
	assert.Equal(map[string]float64{"service:web,env:prod": 0.25}, c.RateByService)
	assert.Equal("/etc/datadog/rates.yaml", c.RateByServiceFile)
	assert.Equal(3*time.Second, c.TraceWriterConfig.FlushPeriod)
	assert.Equal(50, c.TraceWriterConfig.MaxTracesPerPayload)
}

func TestYamlOverridesIni(t *testing.T) {
	assert := assert.New(t)

	ini := writeFile(t, "datadog.conf", "[trace.client]\nenv = staging\nservice = billing\n")
	yml := writeFile(t, "datadog.yaml", "env: prod\n")

	c, err := Load(ini, yml)
	assert.NoError(err)
	assert.Equal("prod", c.Env)
	assert.Equal("billing", c.Service)
}

func TestYamlParseError(t *testing.T) {
	path := writeFile(t, "datadog.yaml", "trace_client: [oops")
	_, err := Load("", path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	assert := assert.New(t)

	yml := writeFile(t, "datadog.yaml", "env: prod\ntrace_client:\n  agent_port: 7777\n")
	t.Setenv("DD_ENV", "qa")
	t.Setenv("DD_SERVICE", "checkout")
	t.Setenv("DD_AGENT_HOST", "10.0.0.1")
	t.Setenv("DD_TRACE_AGENT_PORT", "8888")
	t.Setenv("DD_TRACE_API_VERSION", "v0.3")
	t.Setenv("DD_PRIORITY_SAMPLING", "false")
	t.Setenv("DD_TRACE_SAMPLE_RATE", "0.3")
	t.Setenv("DD_LOG_LEVEL", "error")

	c, err := Load("", yml)
	assert.NoError(err)
	assert.Equal("qa", c.Env)
	assert.Equal("checkout", c.Service)
	assert.Equal("10.0.0.1", c.AgentHost)
	assert.Equal(8888, c.AgentPort)
	assert.Equal("v0.3", c.APIVersion)
	assert.False(c.PrioritySampling)
	assert.Equal(0.3, c.PreSampleRate)
	assert.Equal("error", c.LogLevel)
}

func TestEnvBadValues(t *testing.T) {
	assert := assert.New(t)

	t.Setenv("DD_TRACE_AGENT_PORT", "not-a-port")
	t.Setenv("DD_TRACE_SAMPLE_RATE", "lots")

	c, err := Load("", "")
	assert.NoError(err)
	assert.Equal(8126, c.AgentPort)
	assert.Equal(1.0, c.PreSampleRate)
}

func TestValidate(t *testing.T) {
	assert := assert.New(t)

	c := NewDefaultClientConfig()
	c.APIVersion = ""
	assert.Error(c.validate())

	c = NewDefaultClientConfig()
	c.AgentPort = 70000
	assert.Error(c.validate())

	c = NewDefaultClientConfig()
	c.TraceWriterConfig.FlushPeriod = 0
	assert.Error(c.validate())

	c = NewDefaultClientConfig()
	c.TraceWriterConfig.UpdateInfoPeriod = 0
	assert.Error(c.validate())

	c = NewDefaultClientConfig()
	c.RatesPollPeriod = -time.Second
	assert.Error(c.validate())

	assert.NoError(NewDefaultClientConfig().validate())
}
