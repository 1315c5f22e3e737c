package transport

import (
	"fmt"
	"sort"
)

// API versions known by the trace agent.
const (
	V4 = "v0.4"
	V3 = "v0.3"
	V2 = "v0.2"
)

// API describes one version of the agent traces API.
type API struct {
	// Version identifies the API, e.g. "v0.4".
	Version string
	// Path is the path traces are posted to, e.g. "/v0.4/traces".
	Path string
	// Encoder serializes traces for this API.
	Encoder Encoder
	// ServiceRates is true if the agent answers with the rates by service.
	ServiceRates bool
}

// Registry holds the APIs a client can use, and the version each of them
// downgrades to when the agent rejects it. It is not modified once built.
type Registry struct {
	apis      map[string]*API
	fallbacks map[string]string
}

// NewRegistry returns a registry of the given APIs. fallbacks maps a version
// to the version to use when the agent does not support it. Fallbacks must
// point to registered APIs and must not loop.
func NewRegistry(apis []*API, fallbacks map[string]string) (*Registry, error) {
	r := &Registry{
		apis:      make(map[string]*API, len(apis)),
		fallbacks: make(map[string]string, len(fallbacks)),
	}
	for _, api := range apis {
		if api == nil || api.Version == "" {
			return nil, fmt.Errorf("API with no version")
		}
		if api.Encoder == nil {
			return nil, fmt.Errorf("API %s has no encoder", api.Version)
		}
		r.apis[api.Version] = api
	}
	for from, to := range fallbacks {
		if _, ok := r.apis[from]; !ok {
			return nil, &UnknownAPIVersionError{Version: from}
		}
		if _, ok := r.apis[to]; !ok {
			return nil, &UnknownAPIVersionError{Version: to}
		}
		r.fallbacks[from] = to
	}
	if err := r.checkCycles(); err != nil {
		return nil, err
	}
	return r, nil
}

// DefaultRegistry returns the APIs of the trace agent, v0.4 downgrading to
// v0.3, downgrading to v0.2.
func DefaultRegistry() *Registry {
	r, err := NewRegistry([]*API{
		{Version: V4, Path: "/v0.4/traces", Encoder: NewMsgpackEncoder(), ServiceRates: true},
		{Version: V3, Path: "/v0.3/traces", Encoder: NewMsgpackEncoder()},
		{Version: V2, Path: "/v0.2/traces", Encoder: NewJSONEncoder()},
	}, map[string]string{
		V4: V3,
		V3: V2,
	})
	if err != nil {
		// static definitions, can't happen
		panic(err)
	}
	return r
}

// Get returns the API registered under version.
func (r *Registry) Get(version string) (*API, bool) {
	api, ok := r.apis[version]
	return api, ok
}

// Fallback returns the version to downgrade to from version, if any.
func (r *Registry) Fallback(version string) (string, bool) {
	to, ok := r.fallbacks[version]
	return to, ok
}

// Versions returns all registered versions, sorted.
func (r *Registry) Versions() []string {
	versions := make([]string, 0, len(r.apis))
	for v := range r.apis {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions
}

// Len returns the number of registered APIs.
func (r *Registry) Len() int { return len(r.apis) }

func (r *Registry) checkCycles() error {
	for _, start := range r.Versions() {
		seen := map[string]bool{start: true}
		chain := []string{start}
		for v, ok := r.fallbacks[start]; ok; v, ok = r.fallbacks[v] {
			chain = append(chain, v)
			if seen[v] {
				return &FallbackCycleError{Chain: chain}
			}
			seen[v] = true
		}
	}
	return nil
}
