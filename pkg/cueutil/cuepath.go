// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCUEPath is the sentinel error wrapped by CUEPath.Validate failures.
var ErrInvalidCUEPath = errors.New("invalid CUE path")

// CUEPath identifies a value inside a CUE document in JSON-path notation,
// e.g. "scenarios.build.iterations" or "dataset_search_paths[0]".
// A valid path must be non-empty and not whitespace-only.
type CUEPath string

// String returns the string representation of the CUEPath.
func (p CUEPath) String() string { return string(p) }

// Validate returns an error wrapping ErrInvalidCUEPath if the path is empty
// or whitespace-only.
func (p CUEPath) Validate() error {
	if strings.TrimSpace(string(p)) == "" {
		return fmt.Errorf("%w: must be non-empty", ErrInvalidCUEPath)
	}
	return nil
}
