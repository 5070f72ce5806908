// SPDX-License-Identifier: MPL-2.0

package spiral

import (
	"testing"

	"neargrid/pkg/geom"
)

func TestAppendVariants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		offset    geom.Offset3
		wantCount int
	}{
		{name: "origin has itself", offset: geom.Offset3{}, wantCount: 1},
		{name: "single axis", offset: geom.Offset3{Z: 1}, wantCount: 6},
		{name: "two equal axes", offset: geom.Offset3{Y: 1, Z: 1}, wantCount: 12},
		{name: "all equal", offset: geom.Offset3{X: 1, Y: 1, Z: 1}, wantCount: 8},
		{name: "two distinct nonzero", offset: geom.Offset3{Y: 1, Z: 2}, wantCount: 24},
		{name: "all distinct nonzero", offset: geom.Offset3{X: 1, Y: 2, Z: 3}, wantCount: MaxVariants},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf [MaxVariants]geom.Offset3
			got := AppendVariants(buf[:0], tt.offset)
			if len(got) != tt.wantCount {
				t.Errorf("AppendVariants(%+v) yielded %d variants, want %d", tt.offset, len(got), tt.wantCount)
			}

			seen := make(map[geom.Offset3]bool, len(got))
			for _, v := range got {
				if seen[v] {
					t.Errorf("duplicate variant %+v", v)
				}
				seen[v] = true

				// Every variant must be a sign/permutation of the canonical
				// offset: sorted absolute components must match.
				if canon := canonicalize(v); canon != tt.offset {
					t.Errorf("variant %+v canonicalizes to %+v, want %+v", v, canon, tt.offset)
				}
			}
		})
	}
}

func TestAppendVariantsCoversNeighborhood(t *testing.T) {
	t.Parallel()

	// The variants of the three canonical zero-distance offsets must be
	// exactly the 26 cells surrounding the origin.
	var buf [MaxVariants]geom.Offset3
	seen := make(map[geom.Offset3]bool)
	for _, canon := range []geom.Offset3{
		{X: 0, Y: 0, Z: 1},
		{X: 0, Y: 1, Z: 1},
		{X: 1, Y: 1, Z: 1},
	} {
		for _, v := range AppendVariants(buf[:0], canon) {
			seen[v] = true
		}
	}

	if len(seen) != 26 {
		t.Fatalf("neighborhood variant count = %d, want 26", len(seen))
	}
	for x := int64(-1); x <= 1; x++ {
		for y := int64(-1); y <= 1; y++ {
			for z := int64(-1); z <= 1; z++ {
				o := geom.Offset3{X: x, Y: y, Z: z}
				if o == (geom.Offset3{}) {
					continue
				}
				if !seen[o] {
					t.Errorf("neighborhood offset %+v not covered", o)
				}
			}
		}
	}
}

func TestAppendVariantsPreservesPrefix(t *testing.T) {
	t.Parallel()

	prefix := []geom.Offset3{{X: 9, Y: 9, Z: 9}}
	got := AppendVariants(prefix, geom.Offset3{Z: 1})
	if got[0] != (geom.Offset3{X: 9, Y: 9, Z: 9}) {
		t.Errorf("prefix clobbered: got[0] = %+v", got[0])
	}
	if len(got) != 1+6 {
		t.Errorf("len = %d, want 7", len(got))
	}
}

func canonicalize(o geom.Offset3) geom.Offset3 {
	c := [3]int64{abs(o.X), abs(o.Y), abs(o.Z)}
	if c[0] > c[1] {
		c[0], c[1] = c[1], c[0]
	}
	if c[1] > c[2] {
		c[1], c[2] = c[2], c[1]
	}
	if c[0] > c[1] {
		c[0], c[1] = c[1], c[0]
	}
	return geom.Offset3{X: c[0], Y: c[1], Z: c[2]}
}

func BenchmarkAppendVariants(b *testing.B) {
	var buf [MaxVariants]geom.Offset3
	o := geom.Offset3{X: 1, Y: 2, Z: 3}
	for b.Loop() {
		AppendVariants(buf[:0], o)
	}
}
