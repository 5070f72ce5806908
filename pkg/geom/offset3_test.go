// SPDX-License-Identifier: MPL-2.0

package geom

import "testing"

func TestOffset3Index1(t *testing.T) {
	t.Parallel()

	dims := Offset3{X: 4, Y: 3, Z: 2}

	tests := []struct {
		name   string
		offset Offset3
		want   int64
		wantOK bool
	}{
		{name: "origin", offset: Offset3{0, 0, 0}, want: 0, wantOK: true},
		{name: "x only", offset: Offset3{3, 0, 0}, want: 3, wantOK: true},
		{name: "y steps by dim x", offset: Offset3{0, 2, 0}, want: 8, wantOK: true},
		{name: "z steps by plane", offset: Offset3{0, 0, 1}, want: 12, wantOK: true},
		{name: "last cell", offset: Offset3{3, 2, 1}, want: 23, wantOK: true},
		{name: "negative x", offset: Offset3{-1, 0, 0}, wantOK: false},
		{name: "x at dim", offset: Offset3{4, 0, 0}, wantOK: false},
		{name: "y at dim", offset: Offset3{0, 3, 0}, wantOK: false},
		{name: "z past dim", offset: Offset3{0, 0, 2}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := tt.offset.Index1(dims)
			if ok != tt.wantOK {
				t.Fatalf("Index1(%+v) ok = %v, want %v", tt.offset, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Index1(%+v) = %d, want %d", tt.offset, got, tt.want)
			}
		})
	}
}

func TestOffset3Index1RoundTrip(t *testing.T) {
	t.Parallel()

	dims := Offset3{X: 5, Y: 4, Z: 3}
	for z := int64(0); z < dims.Z; z++ {
		for y := int64(0); y < dims.Y; y++ {
			for x := int64(0); x < dims.X; x++ {
				o := Offset3{X: x, Y: y, Z: z}
				idx, ok := o.Index1(dims)
				if !ok {
					t.Fatalf("Index1(%+v) unexpectedly out of bounds", o)
				}
				if back := OffsetFromIndex1(idx, dims); back != o {
					t.Errorf("OffsetFromIndex1(%d) = %+v, want %+v", idx, back, o)
				}
			}
		}
	}
}

func TestOffset3Add(t *testing.T) {
	t.Parallel()

	a := Offset3{X: 1, Y: -2, Z: 3}
	b := Offset3{X: 4, Y: 5, Z: -6}
	want := Offset3{X: 5, Y: 3, Z: -3}
	if got := a.Add(b); got != want {
		t.Errorf("%+v.Add(%+v) = %+v, want %+v", a, b, got, want)
	}
}

func TestOffset3Volume(t *testing.T) {
	t.Parallel()

	if got := (Offset3{X: 4, Y: 3, Z: 2}).Volume(); got != 24 {
		t.Errorf("Volume() = %d, want 24", got)
	}
}
