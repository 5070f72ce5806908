// SPDX-License-Identifier: MPL-2.0

package spiral

import (
	"cmp"
	"slices"
	"sort"

	"neargrid/pkg/geom"
)

type (
	// Cell is one canonical entry of the spiral walk. Offset components are
	// sorted ascending and non-negative; the offsets actually visited by a
	// search are the sign/permutation variants of Offset.
	Cell struct {
		// Offset is the canonical cell offset relative to the query cell.
		Offset geom.Offset3 `json:"offset"`
		// StopCell is the index of the last table entry that can still hold
		// a point closer than one found in this cell. A search that hits in
		// this cell scans through StopCell and no further. A value equal to
		// the table length means the true stop lies past the table: the
		// walk's best candidate is then unproven and needs verification.
		StopCell int `json:"stop"`
	}

	// Table is the ordered spiral walk for searches up to Radius cells away
	// from the query cell along any axis.
	Table struct {
		Cells  []Cell
		Radius int
	}
)

// Generate builds the spiral table for the given radius, the maximum
// per-axis cell offset the walk may reach. Generation is deterministic:
// cells are ordered by squared minimum distance, then by (z, y, x).
//
// Radius 0 yields a table holding only the origin, which a search skips;
// callers fall back to scanning all points in that case.
func Generate(radius int) *Table {
	if radius < 0 {
		radius = 0
	}

	type candidate struct {
		offset   geom.Offset3
		minDist2 int64
		maxDist2 int64
	}

	r := int64(radius)
	cands := make([]candidate, 0, canonicalCount(radius))
	for z := int64(0); z <= r; z++ {
		for y := int64(0); y <= z; y++ {
			for x := int64(0); x <= y; x++ {
				o := geom.Offset3{X: x, Y: y, Z: z}
				cands = append(cands, candidate{
					offset:   o,
					minDist2: MinDist2(o),
					maxDist2: MaxDist2(o),
				})
			}
		}
	}

	slices.SortFunc(cands, func(a, b candidate) int {
		if c := cmp.Compare(a.minDist2, b.minDist2); c != 0 {
			return c
		}
		if c := cmp.Compare(a.offset.Z, b.offset.Z); c != 0 {
			return c
		}
		if c := cmp.Compare(a.offset.Y, b.offset.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.offset.X, b.offset.X)
	})

	minDist2s := make([]int64, len(cands))
	for i, c := range cands {
		minDist2s[i] = c.minDist2
	}

	cells := make([]Cell, len(cands))
	for i, c := range cands {
		// Last entry whose shell can still undercut a hit in this cell.
		// Squared distances are exact integers, so the comparison is free of
		// float rounding; the search may scan one shell too many on exact
		// ties, never one too few.
		j := sort.Search(len(minDist2s), func(k int) bool {
			return minDist2s[k] > c.maxDist2
		})
		stop := j - 1
		if j == len(minDist2s) {
			// Every remaining shell could still undercut the hit: the true
			// stop lies past the table. Record len as the "unbounded"
			// sentinel so searches know the walk alone proves nothing.
			stop = len(minDist2s)
		}
		cells[i] = Cell{Offset: c.offset, StopCell: stop}
	}

	return &Table{Cells: cells, Radius: radius}
}

// Len returns the number of canonical cells in the table.
func (t *Table) Len() int {
	return len(t.Cells)
}

// Shells returns the number of distinct equidistant shells in the table,
// counting the origin's zero-distance shell.
func (t *Table) Shells() int {
	if len(t.Cells) == 0 {
		return 0
	}
	shells := 1
	prev := MinDist2(t.Cells[0].Offset)
	for _, c := range t.Cells[1:] {
		if d := MinDist2(c.Offset); d != prev {
			shells++
			prev = d
		}
	}
	return shells
}

// MinDist2 returns the squared minimum distance, in cell-width units,
// between a point in the query cell and a point in the cell at offset o.
// Adjacent and overlapping cells yield zero.
func MinDist2(o geom.Offset3) int64 {
	ex := edgeGap(o.X)
	ey := edgeGap(o.Y)
	ez := edgeGap(o.Z)
	return ex*ex + ey*ey + ez*ez
}

// MaxDist2 returns the squared maximum distance, in cell-width units,
// between a point in the query cell and a point in the cell at offset o.
func MaxDist2(o geom.Offset3) int64 {
	sx := abs(o.X) + 1
	sy := abs(o.Y) + 1
	sz := abs(o.Z) + 1
	return sx*sx + sy*sy + sz*sz
}

// edgeGap is the per-axis gap, in whole cells, between the query cell and
// the cell at offset v.
func edgeGap(v int64) int64 {
	if v = abs(v); v == 0 {
		return 0
	}
	return v - 1
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// canonicalCount returns the number of offsets with 0 <= x <= y <= z <= radius.
func canonicalCount(radius int) int {
	n := 0
	for z := 0; z <= radius; z++ {
		n += (z + 1) * (z + 2) / 2
	}
	return n
}
