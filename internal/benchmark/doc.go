// SPDX-License-Identifier: MPL-2.0

// Package benchmark provides comprehensive benchmarks for PGO profile generation.
// These benchmarks cover all hot paths in the neargrid codebase:
//   - CUE benchfile parsing and schema validation
//   - Dataset manifest parsing and discovery
//   - PLY decoding, spiral table generation, and grid construction
//   - Single and batch nearest-neighbor queries
//   - End-to-end scenario runs
//
// To generate a PGO profile, run:
//
//	go test -run=NONE -bench=. -cpuprofile=default.pgo ./internal/benchmark
package benchmark
