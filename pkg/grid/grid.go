// SPDX-License-Identifier: MPL-2.0

package grid

import (
	"errors"
	"fmt"
	"math"

	"neargrid/pkg/geom"
	"neargrid/pkg/spiral"
)

var (
	// ErrInvalidScale is returned when New is called with a non-positive or
	// non-finite scale.
	ErrInvalidScale = errors.New("invalid grid scale")

	// ErrPointOutOfBounds signals a construction-time consistency failure: a
	// point fell outside the grid that was sized to contain it.
	ErrPointOutOfBounds = errors.New("point outside grid bounds")
)

// PointSource is anything with a position that can be indexed by the grid.
type PointSource interface {
	Position() geom.Point
}

// entry is one bucketed point: its position, duplicated here so the hot path
// never chases the source slice, and its index into the sources.
type entry struct {
	pos geom.Point
	idx int
}

// Grid is a uniform 3D grid of cube-shaped cells over a finite region,
// indexing the positions of a fixed set of sources. A Grid is immutable
// after construction and safe for concurrent queries.
type Grid[T PointSource] struct {
	sources []T

	// cells is the flat row-major cell array; each bucket holds the points
	// whose positions fall inside that cell.
	cells [][]entry

	// minPos is the minimum corner of the region the grid covers.
	minPos geom.Point

	// cellWidth is the edge length of every cell, in world units.
	cellWidth float32

	// dims is the cell count per axis. The grid is always cubed: equal
	// counts in x, y, and z.
	dims geom.Offset3

	table *spiral.Table
}

// New buckets sources into a fresh grid. The total cell budget is
// len(sources) * scale, cubed down to equal per-axis counts; scale trades
// memory for shorter buckets. table drives outward searches and may be nil,
// in which case every query that fails the query-cell fast path scans all
// points.
func New[T PointSource](sources []T, scale float64, table *spiral.Table) (*Grid[T], error) {
	if scale <= 0 || math.IsInf(scale, 0) || math.IsNaN(scale) {
		return nil, fmt.Errorf("grid: scale %v: %w", scale, ErrInvalidScale)
	}

	positions := make([]geom.Point, len(sources))
	for i, s := range sources {
		positions[i] = s.Position()
	}

	bb, err := geom.NewBoundingBox(positions)
	if err != nil {
		return nil, fmt.Errorf("grid: %w", err)
	}

	maxCellCount := float64(len(sources)) * scale
	gridWidth := int64(math.Cbrt(maxCellCount))
	if gridWidth < 1 {
		gridWidth = 1
	}
	dims := geom.Offset3{X: gridWidth, Y: gridWidth, Z: gridWidth}

	// Cells are 1% wider than a perfect fit so points on the maximum faces
	// of the bounding box land strictly inside the outermost cells.
	cellWidth := bb.MaxWidth() * 1.01 / float32(gridWidth)
	if cellWidth <= 0 {
		// Degenerate cloud: every point coincides. Any positive width puts
		// them all in the origin cell.
		cellWidth = 1
	}

	cellCount := dims.Volume()
	counts := make([]int32, cellCount)
	for _, p := range positions {
		idx, ok := pointIndex1(p, bb.Min, cellWidth, dims)
		if !ok {
			return nil, fmt.Errorf("grid: point %v: %w", p, ErrPointOutOfBounds)
		}
		counts[idx]++
	}

	// Size each bucket exactly so the fill pass never reallocates.
	cells := make([][]entry, cellCount)
	for i, c := range counts {
		if c > 0 {
			cells[i] = make([]entry, 0, c)
		}
	}
	for i, p := range positions {
		idx, _ := pointIndex1(p, bb.Min, cellWidth, dims)
		cells[idx] = append(cells[idx], entry{pos: p, idx: i})
	}

	return &Grid[T]{
		sources:   sources,
		cells:     cells,
		minPos:    bb.Min,
		cellWidth: cellWidth,
		dims:      dims,
		table:     table,
	}, nil
}

// Len returns the number of indexed sources.
func (g *Grid[T]) Len() int {
	return len(g.sources)
}

// Source returns the source at index i, as reported by NearestNeighbor.
func (g *Grid[T]) Source(i int) T {
	return g.sources[i]
}

// CellWidth returns the edge length of the grid's cells in world units.
func (g *Grid[T]) CellWidth() float32 {
	return g.cellWidth
}

// Dims returns the per-axis cell counts.
func (g *Grid[T]) Dims() geom.Offset3 {
	return g.dims
}

// pointOffset returns the cell coordinates the point falls into, relative to
// the grid origin. The result can lie outside the grid when the point does.
func (g *Grid[T]) pointOffset(p geom.Point) geom.Offset3 {
	return pointOffset(p, g.minPos, g.cellWidth)
}

func pointOffset(p, minPos geom.Point, cellWidth float32) geom.Offset3 {
	return geom.Offset3{
		X: cellCoord(p[0]-minPos[0], cellWidth),
		Y: cellCoord(p[1]-minPos[1], cellWidth),
		Z: cellCoord(p[2]-minPos[2], cellWidth),
	}
}

// cellCoord floors rel/width to an integer cell coordinate. Plain conversion
// truncates toward zero, which would fold the band just below the grid into
// cell 0 and desync the spiral stop rule for queries outside the box.
func cellCoord(rel, width float32) int64 {
	t := rel / width
	i := int64(t)
	if t < 0 && float32(i) != t {
		i--
	}
	return i
}

func pointIndex1(p, minPos geom.Point, cellWidth float32, dims geom.Offset3) (int64, bool) {
	return pointOffset(p, minPos, cellWidth).Index1(dims)
}
