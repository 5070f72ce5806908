// SPDX-License-Identifier: MPL-2.0

package benchfile

import (
	"fmt"
	"strconv"
	"strings"
)

type (
	// ValidationError represents a single validation issue found during
	// benchfile validation.
	ValidationError struct {
		// Field is the field path where the error occurred
		// (e.g., "scenario 'dragon' queries").
		Field string
		// Message is the human-readable error message.
		Message string
	}

	// ValidationErrors is a collection of validation errors that implements
	// the error interface. This allows returning multiple validation issues
	// from a single validation pass.
	ValidationErrors []ValidationError
)

// Error implements the error interface for ValidationError.
func (e ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

// Error implements the error interface by joining all error messages.
func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Error()
	}

	var b strings.Builder
	b.WriteString("validation failed with ")
	b.WriteString(strconv.Itoa(len(errs)))
	b.WriteString(" errors:\n")
	for i, err := range errs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("  - ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Validate checks the benchfile for errors that the CUE schema cannot
// express (or that Go-constructed values bypass). Unlike traditional
// validation that stops on the first error, this collects ALL errors to
// provide comprehensive feedback.
func (bf *Benchfile) Validate() ValidationErrors {
	var errs ValidationErrors

	if len(bf.Scenarios) == 0 {
		errs = append(errs, ValidationError{
			Field:   "scenarios",
			Message: "no scenarios defined",
		})
		return errs
	}

	for _, name := range bf.List() {
		sc := bf.Scenarios[name]
		errs = append(errs, validateScenario(name, &sc)...)
	}

	return errs
}

// Validate checks a single scenario outside the context of a full benchfile.
// The name is validated as a scenario name and prefixes every issue found.
func (sc *Scenario) Validate(name string) ValidationErrors {
	return validateScenario(name, sc)
}

// validateScenario checks a single scenario and returns all issues found.
func validateScenario(name string, sc *Scenario) []ValidationError {
	var errs []ValidationError
	field := fmt.Sprintf("scenario %q", name)

	if valid, nameErrs := ScenarioName(name).IsValid(); !valid {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: nameErrs[0].Error(),
		})
	}

	if valid, descErrs := sc.Description.IsValid(); !valid {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: descErrs[0].Error(),
		})
	}

	switch {
	case sc.Dataset == "" && sc.DatasetPath == "":
		errs = append(errs, ValidationError{
			Field:   field,
			Message: "one of dataset or dataset_path must be set",
		})
	case sc.Dataset != "" && sc.DatasetPath != "":
		errs = append(errs, ValidationError{
			Field:   field,
			Message: "dataset and dataset_path are mutually exclusive - specify only one",
		})
	}

	// Zero means "unset, apply default"; negatives and over-bounds are
	// always wrong. Parsed files never hit these (the schema rejects them
	// first); Go-constructed scenarios do.
	if sc.Scale != 0 && (sc.Scale < 1.0 || sc.Scale > 16.0) {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("scale %v out of range [1.0, 16.0]", sc.Scale),
		})
	}
	if sc.Iterations < 0 || sc.Iterations > 10000 {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("iterations %d out of range [1, 10000]", sc.Iterations),
		})
	}
	if sc.Warmup < 0 || sc.Warmup > 100 {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("warmup %d out of range [0, 100]", sc.Warmup),
		})
	}
	if sc.SpiralShells < 0 || sc.SpiralShells > 512 {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("spiral_shells %d out of range [1, 512]", sc.SpiralShells),
		})
	}
	if sc.Workers < 0 || sc.Workers > 1024 {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("workers %d out of range [0, 1024]", sc.Workers),
		})
	}

	errs = append(errs, validateQueries(field, sc.Queries)...)

	if sc.Hooks != nil {
		if sc.Hooks.Setup != "" && strings.TrimSpace(sc.Hooks.Setup) == "" {
			errs = append(errs, ValidationError{
				Field:   field + " hooks",
				Message: "setup script is whitespace-only",
			})
		}
		if sc.Hooks.Teardown != "" && strings.TrimSpace(sc.Hooks.Teardown) == "" {
			errs = append(errs, ValidationError{
				Field:   field + " hooks",
				Message: "teardown script is whitespace-only",
			})
		}
	}

	if sc.Watch != nil {
		errs = append(errs, validateWatch(field, sc.Watch)...)
	}

	return errs
}

// validateQueries checks the query sampling parameters.
func validateQueries(scenarioField string, q QuerySpec) []ValidationError {
	var errs []ValidationError
	field := scenarioField + " queries"

	if q.Count < 0 || q.Count > 10000000 {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("count %d out of range [1, 10000000]", q.Count),
		})
	}
	if q.OffsetX < 0 || q.OffsetX > 16.0 {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("offset_x %v out of range [0, 16.0]", q.OffsetX),
		})
	}
	if q.OffsetZ < 0 || q.OffsetZ > 16.0 {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("offset_z %v out of range [0, 16.0]", q.OffsetZ),
		})
	}

	return errs
}

// validateWatch checks the watch configuration.
func validateWatch(scenarioField string, w *WatchConfig) []ValidationError {
	var errs []ValidationError
	field := scenarioField + " watch"

	if len(w.Patterns) == 0 {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: "at least one pattern is required",
		})
	}
	for i, p := range w.Patterns {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("patterns[%d] is empty", i),
			})
		}
	}
	if _, err := w.ParseDebounce(); err != nil {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: err.Error(),
		})
	}

	return errs
}
