// SPDX-License-Identifier: MPL-2.0

// Package geom provides the small geometric vocabulary shared by the grid
// index and the benchmark harness: float32 points, axis-aligned bounding
// boxes, and integer cell offsets with row-major linearization.
//
// Point coordinates are float32 throughout because datasets store single
// precision positions; widening to float64 would double memory traffic in
// the hot query path without improving results.
package geom
