package sampler

import (
	"math/bits"

	"github.com/DataDog/datadog-trace-client/model"
)

const (
	maxTraceIDFloat = float64(model.MaxTraceID)
	// Good number for Knuth hashing (large, prime, fit in int64 for languages without uint64)
	samplerHasher = uint64(1111111111111111111)
)

// hashTraceID spreads trace IDs over [0, MaxTraceID) so that imbalanced
// trace ID generators still yield the expected proportion of kept traces.
// The product is reduced modulo MaxTraceID, like other tracers do.
func hashTraceID(traceID uint64) uint64 {
	hi, lo := bits.Mul64(traceID, samplerHasher)
	return bits.Rem64(hi, lo, model.MaxTraceID)
}

// rateThreshold returns the highest hash kept at the given rate.
func rateThreshold(rate float64) uint64 {
	if rate >= 1 {
		return model.MaxTraceID
	}
	return uint64(rate * maxTraceIDFloat)
}
