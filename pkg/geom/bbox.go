// SPDX-License-Identifier: MPL-2.0

package geom

import (
	"errors"
	"math"
)

// ErrEmptyPointSet is returned when a bounding box is requested for zero points.
var ErrEmptyPointSet = errors.New("empty point set")

// BoundingBox is the axis-aligned bounding box of a point set, stored as the
// minimum corner plus per-axis widths.
type BoundingBox struct {
	Min    Point
	WidthX float32
	WidthY float32
	WidthZ float32
}

// NewBoundingBox computes the axis-aligned bounding box of points.
// It returns ErrEmptyPointSet for an empty slice. NaN coordinates panic
// (see MinStrict); a point cloud containing NaN is unusable for indexing.
func NewBoundingBox(points []Point) (BoundingBox, error) {
	if len(points) == 0 {
		return BoundingBox{}, ErrEmptyPointSet
	}

	minP := Point{float32(math.Inf(1)), float32(math.Inf(1)), float32(math.Inf(1))}
	maxP := Point{float32(math.Inf(-1)), float32(math.Inf(-1)), float32(math.Inf(-1))}
	for _, p := range points {
		for axis := 0; axis < 3; axis++ {
			minP[axis] = MinStrict(minP[axis], p[axis])
			maxP[axis] = MaxStrict(maxP[axis], p[axis])
		}
	}

	return BoundingBox{
		Min:    minP,
		WidthX: maxP[0] - minP[0],
		WidthY: maxP[1] - minP[1],
		WidthZ: maxP[2] - minP[2],
	}, nil
}

// MaxWidth returns the largest of the three axis widths. The grid cubes its
// cell layout on this value so cells stay unit-aspect regardless of how
// elongated the cloud is.
func (b BoundingBox) MaxWidth() float32 {
	return MaxStrict(b.WidthX, MaxStrict(b.WidthY, b.WidthZ))
}

// Contains reports whether p lies inside the box, boundaries included.
func (b BoundingBox) Contains(p Point) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Min[0]+b.WidthX &&
		p[1] >= b.Min[1] && p[1] <= b.Min[1]+b.WidthY &&
		p[2] >= b.Min[2] && p[2] <= b.Min[2]+b.WidthZ
}
