// SPDX-License-Identifier: MPL-2.0

package spiral

import "neargrid/pkg/geom"

// MaxVariants is the largest number of variants a canonical offset expands
// to: 6 axis permutations times 8 sign combinations, when all components are
// distinct and non-zero. Callers can use it to size stack buffers so variant
// expansion stays allocation-free in the query path.
const MaxVariants = 48

// permutations of component indices, in a fixed order so expansion is
// deterministic.
var permutations = [6][3]int{
	{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
}

// AppendVariants appends every distinct sign/permutation variant of the
// canonical offset c to dst and returns the extended slice. Zero or repeated
// components produce fewer than MaxVariants entries; duplicates are removed.
func AppendVariants(dst []geom.Offset3, c geom.Offset3) []geom.Offset3 {
	comps := [3]int64{c.X, c.Y, c.Z}
	start := len(dst)

	for _, perm := range permutations {
		p := [3]int64{comps[perm[0]], comps[perm[1]], comps[perm[2]]}
		for signs := 0; signs < 8; signs++ {
			v := p
			skip := false
			for axis := 0; axis < 3; axis++ {
				if signs&(1<<axis) == 0 {
					continue
				}
				if v[axis] == 0 {
					// Negating a zero duplicates the unflipped variant.
					skip = true
					break
				}
				v[axis] = -v[axis]
			}
			if skip {
				continue
			}

			variant := geom.Offset3{X: v[0], Y: v[1], Z: v[2]}
			if containsOffset(dst[start:], variant) {
				continue
			}
			dst = append(dst, variant)
		}
	}

	return dst
}

// containsOffset linear-scans prior variants. The slice never exceeds
// MaxVariants entries, so a scan beats any hashing scheme here.
func containsOffset(s []geom.Offset3, o geom.Offset3) bool {
	for _, e := range s {
		if e == o {
			return true
		}
	}
	return false
}
