// SPDX-License-Identifier: MPL-2.0

package dataset

import (
	"context"

	"neargrid/pkg/geom"
)

// VerifyReport summarizes a dataset's on-disk state for 'dataset verify'.
type VerifyReport struct {
	Name  string
	Files []string
	// Points is the total vertex count across all files.
	Points int
	// BBox is the axis-aligned bounding box; zero when Points is 0.
	BBox geom.BoundingBox
	// ExpectedPoints echoes the manifest pin (0 = unpinned).
	ExpectedPoints int64
	// PointsMatch is false only when ExpectedPoints is pinned and differs.
	PointsMatch bool
}

// Verify loads the named dataset and reports its point count and bounding
// box. Unlike Load it does not fail on an expected_points mismatch; the
// report carries the discrepancy so the CLI can print both numbers.
func (m *Manifest) Verify(ctx context.Context, name string) (*VerifyReport, error) {
	entry, err := m.Find(name)
	if err != nil {
		return nil, err
	}
	return VerifyEntry(ctx, entry, m.BaseDir())
}

// VerifyEntry is Verify for an already-resolved entry.
func VerifyEntry(ctx context.Context, entry *Entry, baseDir string) (*VerifyReport, error) {
	files, err := ResolveFiles(entry, baseDir)
	if err != nil {
		return nil, err
	}

	// Counting needs the vertices anyway, so reuse the load path minus the
	// point count enforcement.
	probe := *entry
	probe.ExpectedPoints = 0
	vertices, err := LoadEntry(ctx, &probe, baseDir)
	if err != nil {
		return nil, err
	}

	report := &VerifyReport{
		Name:           entry.Name,
		Files:          files,
		Points:         len(vertices),
		ExpectedPoints: entry.ExpectedPoints,
		PointsMatch:    entry.ExpectedPoints == 0 || int64(len(vertices)) == entry.ExpectedPoints,
	}

	if len(vertices) > 0 {
		positions := make([]geom.Point, len(vertices))
		for i, v := range vertices {
			positions[i] = v.Pos
		}
		bbox, err := geom.NewBoundingBox(positions)
		if err != nil {
			return nil, err
		}
		report.BBox = bbox
	}

	return report, nil
}
