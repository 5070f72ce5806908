// SPDX-License-Identifier: MPL-2.0

package grid

import (
	"neargrid/pkg/geom"
	"neargrid/pkg/spiral"
)

// searchResult is a candidate nearest neighbor: the source index and its
// squared distance to the query point.
type searchResult struct {
	index int
	dist2 float32
}

// NearestNeighbor returns the index of the source closest to q and the
// squared distance between them. ok is false only for an empty grid.
//
// Distances are Euclidean; ties between equidistant sources resolve to an
// arbitrary one of them.
func (g *Grid[T]) NearestNeighbor(q geom.Point) (index int, dist2 float32, ok bool) {
	if len(g.sources) == 0 {
		return 0, 0, false
	}

	qCell := g.pointOffset(q)

	var best searchResult
	haveBest := false
	stopIdx := -1

	if cellIdx, inGrid := qCell.Index1(g.dims); inGrid && len(g.cells[cellIdx]) > 0 {
		best, _ = nearestInBucket(q, g.cells[cellIdx])
		haveBest = true

		// A hit closer than every wall of the query cell cannot be beaten
		// from outside the cell.
		wall := g.nearestWallDist(q, qCell)
		if best.dist2 <= wall*wall {
			return best.index, best.dist2, true
		}

		// Otherwise the walk is bounded by the origin entry's stop cell:
		// past it, no cell can undercut a hit inside the query cell.
		if g.table != nil && g.table.Len() > 0 {
			stopIdx = g.table.Cells[0].StopCell
		}
	}

	best, haveBest, proven := g.spiralSearch(q, qCell, best, haveBest, stopIdx)
	if haveBest && proven {
		return best.index, best.dist2, true
	}

	// Either nothing turned up within the table, or the stop rule ran past
	// its edge and the candidate is unproven. Exactness is preserved by
	// scanning everything.
	return g.bruteForce(q)
}

// spiralSearch walks the table outward from center, starting past the origin
// entry. seed carries a candidate found in the query cell, if any; stopIdx
// bounds the walk when non-negative and is otherwise fixed by the first
// occupied spiral cell's stop entry. proven reports whether the stop rule
// fully bounded the walk; an unproven candidate may be beaten by a point the
// table never reached.
func (g *Grid[T]) spiralSearch(q geom.Point, center geom.Offset3, seed searchResult, haveSeed bool, stopIdx int) (best searchResult, haveBest, proven bool) {
	best, haveBest = seed, haveSeed
	if g.table == nil || g.table.Len() <= 1 {
		return best, haveBest, false
	}

	n := len(g.table.Cells)
	proven = true
	if stopIdx >= n {
		// Sentinel stop from the query cell's entry: the table is too small
		// to bound this walk.
		proven = false
		stopIdx = n - 1
	}

	var buf [spiral.MaxVariants]geom.Offset3
	for i := 1; i < n; i++ {
		if stopIdx >= 0 && i > stopIdx {
			break
		}

		cell := g.table.Cells[i]
		found := false
		for _, v := range spiral.AppendVariants(buf[:0], cell.Offset) {
			idx1, inGrid := center.Add(v).Index1(g.dims)
			if !inGrid || len(g.cells[idx1]) == 0 {
				continue
			}
			r, _ := nearestInBucket(q, g.cells[idx1])
			found = true
			if !haveBest || r.dist2 < best.dist2 {
				best, haveBest = r, true
			}
		}

		if found && stopIdx < 0 {
			stopIdx = cell.StopCell
			if stopIdx >= n {
				proven = false
				stopIdx = n - 1
			}
		}
	}

	if stopIdx < 0 {
		// The whole table was walked without a hit; nothing was proven
		// about cells beyond it.
		proven = false
	}

	return best, haveBest, proven
}

// bruteForce scans every bucket. Only reachable when the spiral table could
// not prove a result, which needs a pathologically sparse cloud or a
// deliberately tiny table.
func (g *Grid[T]) bruteForce(q geom.Point) (int, float32, bool) {
	var best searchResult
	haveBest := false
	for _, bucket := range g.cells {
		if len(bucket) == 0 {
			continue
		}
		r, _ := nearestInBucket(q, bucket)
		if !haveBest || r.dist2 < best.dist2 {
			best, haveBest = r, true
		}
	}
	if !haveBest {
		return 0, 0, false
	}
	return best.index, best.dist2, true
}

// nearestWallDist returns the distance from p to the nearest face of the
// cell at the given offset, in world units. Walls live in the grid's frame:
// face k of an axis sits at minPos + k*cellWidth.
func (g *Grid[T]) nearestWallDist(p geom.Point, cell geom.Offset3) float32 {
	w := g.cellWidth
	relX := p[0] - g.minPos[0]
	relY := p[1] - g.minPos[1]
	relZ := p[2] - g.minPos[2]
	dx := geom.MinStrict(relX-float32(cell.X)*w, float32(cell.X+1)*w-relX)
	dy := geom.MinStrict(relY-float32(cell.Y)*w, float32(cell.Y+1)*w-relY)
	dz := geom.MinStrict(relZ-float32(cell.Z)*w, float32(cell.Z+1)*w-relZ)
	return geom.MinStrict(dx, geom.MinStrict(dy, dz))
}

// nearestInBucket returns the entry in bucket closest to q. ok is false for
// an empty bucket.
func nearestInBucket(q geom.Point, bucket []entry) (searchResult, bool) {
	if len(bucket) == 0 {
		return searchResult{}, false
	}
	best := searchResult{index: bucket[0].idx, dist2: q.Dist2(bucket[0].pos)}
	for _, e := range bucket[1:] {
		if d := q.Dist2(e.pos); d < best.dist2 {
			best = searchResult{index: e.idx, dist2: d}
		}
	}
	return best, true
}
