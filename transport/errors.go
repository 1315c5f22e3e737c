package transport

import (
	"fmt"
	"strings"
)

// UnknownAPIVersionError is returned when switching to an API version
// which is not registered.
type UnknownAPIVersionError struct {
	Version string
}

// Error implements error.
func (e *UnknownAPIVersionError) Error() string {
	return fmt.Sprintf("unknown API version: %s", e.Version)
}

// FallbackCycleError is returned when the fallback chain of the registry
// loops back on itself.
type FallbackCycleError struct {
	Chain []string
}

// Error implements error.
func (e *FallbackCycleError) Error() string {
	return fmt.Sprintf("API fallback cycle: %s", strings.Join(e.Chain, " -> "))
}
