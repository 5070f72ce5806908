// SPDX-License-Identifier: MPL-2.0

package geom

// Point is a position in 3D space. Components are indexed 0=x, 1=y, 2=z.
type Point [3]float32

// Sub returns the component-wise difference p - q.
func (p Point) Sub(q Point) Point {
	return Point{p[0] - q[0], p[1] - q[1], p[2] - q[2]}
}

// Dist2 returns the squared Euclidean distance between p and q.
// The squared form is used for all nearest-neighbor comparisons so the
// hot path never pays for a square root.
func (p Point) Dist2(q Point) float32 {
	dx := p[0] - q[0]
	dy := p[1] - q[1]
	dz := p[2] - q[2]
	return dx*dx + dy*dy + dz*dz
}
