// SPDX-License-Identifier: MPL-2.0

package benchfile

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidScenarioName is the sentinel error wrapped by InvalidScenarioNameError.
var ErrInvalidScenarioName = errors.New("invalid scenario name")

// scenarioNameRegex mirrors the pattern constraint on scenario keys in the
// CUE schema. Names are lowercase so they can double as report directory
// components and benchfmt sub-benchmark names without escaping.
var scenarioNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{0,63}$`)

type (
	// ScenarioName identifies a scenario within a benchfile.
	// A valid name starts with a lowercase letter or digit and continues
	// with lowercase letters, digits, dots, underscores, or hyphens, up to
	// 64 characters total.
	ScenarioName string

	// InvalidScenarioNameError is returned when a ScenarioName does not
	// match the allowed pattern.
	InvalidScenarioNameError struct {
		Value ScenarioName
	}
)

// Error implements the error interface.
func (e *InvalidScenarioNameError) Error() string {
	return fmt.Sprintf("invalid scenario name %q (must match %s)", e.Value, scenarioNameRegex)
}

// Unwrap returns ErrInvalidScenarioName so callers can use errors.Is for programmatic detection.
func (e *InvalidScenarioNameError) Unwrap() error { return ErrInvalidScenarioName }

// IsValid returns whether the ScenarioName matches the allowed pattern,
// and a list of validation errors if it does not.
func (n ScenarioName) IsValid() (bool, []error) {
	if !scenarioNameRegex.MatchString(string(n)) {
		return false, []error{&InvalidScenarioNameError{Value: n}}
	}
	return true, nil
}

// String returns the string representation of the ScenarioName.
func (n ScenarioName) String() string { return string(n) }
