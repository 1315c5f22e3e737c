//go:build windows

package flags

// Default config locations on windows.
const (
	DefaultConfigPath       = "c:\\programdata\\datadog\\datadog.yaml"
	DefaultLegacyConfigPath = "c:\\programdata\\datadog\\datadog.conf"
)
