// SPDX-License-Identifier: MPL-2.0

package dataset

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidDatasetName is the sentinel error wrapped by InvalidDatasetNameError.
var ErrInvalidDatasetName = errors.New("invalid dataset name")

// datasetNameRegex matches the same name grammar scenarios use, so a
// scenario's dataset reference is always a valid manifest key.
var datasetNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{0,63}$`)

type (
	// DatasetName identifies a dataset within a manifest.
	// A valid name starts with a lowercase letter or digit and continues
	// with lowercase letters, digits, dots, underscores, or hyphens, up to
	// 64 characters total.
	DatasetName string

	// InvalidDatasetNameError is returned when a DatasetName does not
	// match the allowed pattern.
	InvalidDatasetNameError struct {
		Value DatasetName
	}
)

// Error implements the error interface.
func (e *InvalidDatasetNameError) Error() string {
	return fmt.Sprintf("invalid dataset name %q (must match %s)", e.Value, datasetNameRegex)
}

// Unwrap returns ErrInvalidDatasetName so callers can use errors.Is for programmatic detection.
func (e *InvalidDatasetNameError) Unwrap() error { return ErrInvalidDatasetName }

// IsValid returns whether the DatasetName matches the allowed pattern,
// and a list of validation errors if it does not.
func (n DatasetName) IsValid() (bool, []error) {
	if !datasetNameRegex.MatchString(string(n)) {
		return false, []error{&InvalidDatasetNameError{Value: n}}
	}
	return true, nil
}

// String returns the string representation of the DatasetName.
func (n DatasetName) String() string { return string(n) }
