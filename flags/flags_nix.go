//go:build !windows

package flags

// Default config locations on unix systems.
const (
	DefaultConfigPath       = "/etc/datadog-agent/datadog.yaml"
	DefaultLegacyConfigPath = "/etc/dd-agent/datadog.conf"
)
