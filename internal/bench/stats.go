// SPDX-License-Identifier: MPL-2.0

package bench

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Stats summarizes a set of duration samples.
type Stats struct {
	Mean   time.Duration `json:"mean_ns"`
	StdDev time.Duration `json:"stddev_ns"`
	Min    time.Duration `json:"min_ns"`
	Max    time.Duration `json:"max_ns"`
	P50    time.Duration `json:"p50_ns"`
	P90    time.Duration `json:"p90_ns"`
	P99    time.Duration `json:"p99_ns"`

	// PerQuery is the mean divided by the phase's query count, zero for
	// phases that answer no queries.
	PerQuery time.Duration `json:"per_query_ns,omitempty"`
}

// Compute summarizes samples. The zero Stats is returned for an empty input.
// Percentiles use the empirical distribution, so with few samples P90 and
// P99 collapse onto the maximum.
func Compute(samples []time.Duration) Stats {
	if len(samples) == 0 {
		return Stats{}
	}

	xs := make([]float64, len(samples))
	for i, d := range samples {
		xs[i] = float64(d)
	}
	sort.Float64s(xs)

	// Sample standard deviation is undefined for a single observation;
	// report zero rather than NaN.
	var stddev float64
	if len(xs) > 1 {
		stddev = stat.StdDev(xs, nil)
	}

	return Stats{
		Mean:   time.Duration(stat.Mean(xs, nil)),
		StdDev: time.Duration(stddev),
		Min:    time.Duration(xs[0]),
		Max:    time.Duration(xs[len(xs)-1]),
		P50:    time.Duration(stat.Quantile(0.50, stat.Empirical, xs, nil)),
		P90:    time.Duration(stat.Quantile(0.90, stat.Empirical, xs, nil)),
		P99:    time.Duration(stat.Quantile(0.99, stat.Empirical, xs, nil)),
	}
}
