// Package stats summarizes per-token fetch timings.
package stats

import (
	"math"
	"slices"
	"time"
)

// Latency is the tail of a set of fetch durations.
type Latency struct {
	P50, P95, Max time.Duration
	Samples       int
}

// Summarize returns the zero Latency for no samples. The input is not modified.
func Summarize(samples []time.Duration) Latency {
	if len(samples) == 0 {
		return Latency{}
	}

	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	return Latency{
		P50:     Percentile(sorted, 0.50),
		P95:     Percentile(sorted, 0.95),
		Max:     sorted[len(sorted)-1],
		Samples: len(sorted),
	}
}

// Percentile uses the nearest-rank method on an ascending slice, so with few
// samples the high percentiles equal the maximum.
func Percentile(sorted []time.Duration, p float64) time.Duration {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	i := int(math.Ceil(float64(n)*p)) - 1
	i = max(0, min(i, n-1))
	return sorted[i]
}
