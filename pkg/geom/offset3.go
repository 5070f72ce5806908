// SPDX-License-Identifier: MPL-2.0

package geom

// Offset3 is an integer triple used both as an absolute cell coordinate
// within a grid and as a relative offset between cells. Components are
// signed so offsets can point in any direction; linearization rejects
// coordinates that fall outside the grid.
type Offset3 struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
	Z int64 `json:"z"`
}

// Add returns the component-wise sum o + p.
func (o Offset3) Add(p Offset3) Offset3 {
	return Offset3{X: o.X + p.X, Y: o.Y + p.Y, Z: o.Z + p.Z}
}

// Index1 linearizes o into a row-major 1D index for a grid with the given
// dimensions. The second return value is false when any component lies
// outside [0, dim), in which case the index is meaningless.
func (o Offset3) Index1(dims Offset3) (int64, bool) {
	if o.X < 0 || o.X >= dims.X || o.Y < 0 || o.Y >= dims.Y || o.Z < 0 || o.Z >= dims.Z {
		return 0, false
	}
	return o.X + o.Y*dims.X + o.Z*dims.X*dims.Y, true
}

// OffsetFromIndex1 is the inverse of Index1 for in-bounds indices.
func OffsetFromIndex1(index1 int64, dims Offset3) Offset3 {
	plane := dims.X * dims.Y
	z := index1 / plane
	rem := index1 % plane
	return Offset3{
		X: rem % dims.X,
		Y: rem / dims.X,
		Z: z,
	}
}

// Volume returns X*Y*Z. For grid dimensions this is the total cell count.
func (o Offset3) Volume() int64 {
	return o.X * o.Y * o.Z
}
