// Package flags holds the command-line options of the trace client.
package flags

import (
	"flag"
	"fmt"
	"time"
)

var (
	ConfigFile       string
	LegacyConfigFile string
	PIDFilePath      string
	LogLevel         string
	Version          bool
	Info             bool
	Heartbeat        time.Duration
)

// Register declares the flags on fs.
func Register(fs *flag.FlagSet) {
	fs.StringVar(&ConfigFile, "config", DefaultConfigPath, "Datadog Agent config file location")
	fs.StringVar(&LegacyConfigFile, "ddconfig", DefaultLegacyConfigPath, "Deprecated datadog.conf file location")
	fs.StringVar(&PIDFilePath, "pid", "", "Path to set pidfile for process")
	fs.StringVar(&LogLevel, "log-level", "", "Log level, overrides the configuration")
	fs.BoolVar(&Version, "version", false, "Show version information and exit")
	fs.BoolVar(&Info, "info", false, "Send a heartbeat trace, show the client status and exit")
	fs.DurationVar(&Heartbeat, "heartbeat", 10*time.Second, "Interval between two heartbeat traces")
}

// Parse parses the command line.
func Parse() {
	Register(flag.CommandLine)
	flag.Parse()
}

// Validate checks the parsed values.
func Validate() error {
	if Heartbeat <= 0 {
		return fmt.Errorf("invalid heartbeat interval: %s", Heartbeat)
	}
	return nil
}

// IsSet reports whether the flag with the given name was set to any other
// value than its default.
func IsSet(flagName string) bool {
	return isSet(flag.CommandLine, flagName)
}

func isSet(fs *flag.FlagSet, flagName string) bool {
	f := fs.Lookup(flagName)
	if f == nil {
		return false
	}
	return f.DefValue != f.Value.String()
}
