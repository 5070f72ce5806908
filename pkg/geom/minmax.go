// SPDX-License-Identifier: MPL-2.0

package geom

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// MinStrict returns the smaller of a and b, panicking when either is NaN.
// The built-in min propagates NaN silently, which would poison bounding box
// folds and cell-width math; a malformed dataset must fail loudly instead.
func MinStrict[F constraints.Float](a, b F) F {
	if math.IsNaN(float64(a)) || math.IsNaN(float64(b)) {
		panic(fmt.Sprintf("geom.MinStrict: NaN operand (a=%v, b=%v)", a, b))
	}
	if a < b {
		return a
	}
	return b
}

// MaxStrict returns the larger of a and b, panicking when either is NaN.
func MaxStrict[F constraints.Float](a, b F) F {
	if math.IsNaN(float64(a)) || math.IsNaN(float64(b)) {
		panic(fmt.Sprintf("geom.MaxStrict: NaN operand (a=%v, b=%v)", a, b))
	}
	if a > b {
		return a
	}
	return b
}
