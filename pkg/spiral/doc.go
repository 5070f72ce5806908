// SPDX-License-Identifier: MPL-2.0

// Package spiral builds and persists the lookup table that drives outward
// nearest-neighbor searches over a uniform grid.
//
// The table lists canonical cell offsets (0 <= x <= y <= z) ordered by the
// minimum possible distance from a query cell, in cell-width units. Offsets
// with equal minimum distance form a shell. Each entry carries a stop index:
// once a search first finds a point in that cell, no entry past the stop
// index can hold a closer point, so the walk scans through the stop entry
// and terminates.
//
// Canonical offsets are expanded into their sign and permutation variants at
// query time (see AppendVariants), which keeps the table roughly 48x smaller
// than storing every grid offset explicitly.
package spiral
