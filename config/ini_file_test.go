package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIniFile(t *testing.T) {
	assert := assert.New(t)

	path := writeFile(t, "datadog.conf", `[trace.client]
service = web
agent_port = 8126
pre_sample_rate = 0.25
enabled = yes
statsd_enabled = maybe
`)
	f, err := NewIni(path)
	assert.NoError(err)
	assert.True(f.HasSection("trace.client"))
	assert.False(f.HasSection("trace.sampler"))

	v, err := f.Get("trace.client", "service")
	assert.NoError(err)
	assert.Equal("web", v)

	_, err = f.Get("trace.client", "missing")
	assert.Error(err)
	assert.Equal("fallback", f.GetDefault("trace.client", "missing", "fallback"))

	port, err := f.GetInt("trace.client", "agent_port")
	assert.NoError(err)
	assert.Equal(8126, port)
	_, err = f.GetInt("trace.client", "service")
	assert.Error(err)

	rate, err := f.GetFloat("trace.client", "pre_sample_rate")
	assert.NoError(err)
	assert.Equal(0.25, rate)

	enabled, ok := f.GetBool("trace.client", "enabled")
	assert.True(ok)
	assert.True(enabled)
	_, ok = f.GetBool("trace.client", "statsd_enabled")
	assert.False(ok)
}

func TestIniFileMissing(t *testing.T) {
	_, err := NewIni("/does/not/exist.conf")
	assert.Error(t, err)
}
