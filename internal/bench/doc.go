// SPDX-License-Identifier: MPL-2.0

// Package bench runs macro-benchmark scenarios against the uniform grid
// index and reports the results.
//
// A Runner executes one scenario at a time: it samples query points from the
// dataset, runs the configured warmup and measured iterations timing the
// build, query, and query-offset phases separately, and summarizes the
// samples into per-phase statistics. Results are persisted in two forms: a
// results.txt in Go benchmark format (one line per measured iteration, so
// downstream tooling has real samples to test) and a run.json with the full
// structured Result. Compare reads two results files back and tests each
// common benchmark for a significant difference.
//
// The package returns data only; rendering is the caller's concern. Scenario
// hooks are the one exception: their stdout/stderr stream to the writers the
// Request carries.
package bench
