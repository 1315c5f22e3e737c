package sampler

import "github.com/DataDog/datadog-trace-client/model"

// DefaultServiceRateKey is the key of the fallback rate, used for any
// service/env tuple the agent did not send a rate for.
const DefaultServiceRateKey = "service:,env:"

// ByServiceKey returns the rate-by-service key of a service/env tuple.
func ByServiceKey(service, env string) string {
	return "service:" + service + ",env:" + env
}

func spanServiceKey(span *model.Span, env string) string {
	if span == nil {
		return DefaultServiceRateKey
	}
	return ByServiceKey(span.Service, env)
}
