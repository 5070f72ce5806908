// SPDX-License-Identifier: MPL-2.0

package grid

import "neargrid/pkg/geom"

// Stats summarizes the shape and occupancy of a grid.
type Stats struct {
	// Points is the number of indexed sources.
	Points int `json:"points"`
	// Cells is the total cell count, Dims.Volume().
	Cells int64 `json:"cells"`
	// OccupiedCells counts cells holding at least one point.
	OccupiedCells int64 `json:"occupied_cells"`
	// MaxBucket is the largest number of points in any single cell.
	MaxBucket int `json:"max_bucket"`
	// MeanBucket is the average bucket size over occupied cells only; empty
	// cells say nothing about lookup cost.
	MeanBucket float64 `json:"mean_bucket"`
	// CellWidth is the cell edge length in world units.
	CellWidth float32 `json:"cell_width"`
	// Dims is the per-axis cell count.
	Dims geom.Offset3 `json:"dims"`
}

// ComputeStats walks every bucket. It is intended for reporting, not for the
// query path.
func (g *Grid[T]) ComputeStats() Stats {
	s := Stats{
		Points:    len(g.sources),
		Cells:     g.dims.Volume(),
		CellWidth: g.cellWidth,
		Dims:      g.dims,
	}

	var occupiedPoints int
	for _, bucket := range g.cells {
		if len(bucket) == 0 {
			continue
		}
		s.OccupiedCells++
		occupiedPoints += len(bucket)
		if len(bucket) > s.MaxBucket {
			s.MaxBucket = len(bucket)
		}
	}
	if s.OccupiedCells > 0 {
		s.MeanBucket = float64(occupiedPoints) / float64(s.OccupiedCells)
	}
	return s
}
