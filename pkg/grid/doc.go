// SPDX-License-Identifier: MPL-2.0

// Package grid implements a uniform 3D grid index over a point cloud with
// exact nearest-neighbor queries.
//
// The grid covers the cloud's bounding box with cube-shaped cells and buckets
// every point into its cell. A query first looks in its own cell (accepting
// immediately when the hit is closer than every cell wall), then walks
// outward through the precomputed spiral table (package spiral), nearest
// cells first, until the table's stop rule proves no closer point exists. A
// query the table cannot prove falls back to a linear scan, so results are
// exact regardless of table size.
package grid
