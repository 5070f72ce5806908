// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"neargrid/pkg/types"
)

// ErrInvalidWatchConfig is the sentinel error wrapped by InvalidWatchConfigError.
var ErrInvalidWatchConfig = errors.New("invalid watch config")

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Patterns are doublestar-compatible glob patterns (e.g., "data/**/*.ply")
		// that select which files trigger re-runs. An empty slice watches all
		// non-ignored files.
		Patterns []string

		// Ignore are additional doublestar-compatible glob patterns for paths
		// that should never trigger re-runs. These are merged with the
		// built-in default ignores.
		Ignore []string

		// Debounce is the quiet period after the last event before the re-run
		// fires. Zero or negative values fall back to defaultDebounce.
		Debounce time.Duration

		// ClearScreen controls whether the terminal is cleared before each
		// re-run by writing ANSI escape sequences to Stdout. No terminal
		// detection is performed; callers should ensure Stdout is a real
		// terminal when enabling this option.
		ClearScreen bool

		// BaseDir is the root directory to watch. All patterns are resolved
		// relative to this path. An empty value defaults to the current working
		// directory.
		BaseDir types.FilesystemPath

		// OnChange is called after the debounce window closes with the
		// deduplicated list of changed file paths (relative to BaseDir).
		// For 'bench run --watch' this re-runs the scenario. A nil callback
		// is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		// Stdout and Stderr are the output writers for informational and error
		// messages respectively. nil values default to os.Stdout / os.Stderr.
		Stdout io.Writer
		Stderr io.Writer
	}

	// InvalidWatchConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidWatchConfig for errors.Is() compatibility and
	// collects field-level validation errors.
	InvalidWatchConfigError struct {
		FieldErrors []error
	}
)

// Error implements the error interface.
func (e *InvalidWatchConfigError) Error() string {
	return fmt.Sprintf("invalid watch config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidWatchConfig for errors.Is() compatibility.
func (e *InvalidWatchConfigError) Unwrap() error { return ErrInvalidWatchConfig }

// Validate checks every field and returns an InvalidWatchConfigError
// collecting all problems found, or nil when the config is usable. The zero
// value is valid: no patterns means "watch everything", no BaseDir means
// "watch the working directory".
func (c *Config) Validate() error {
	var errs []error

	errs = append(errs, validatePatterns(c.Patterns, "patterns")...)
	errs = append(errs, validatePatterns(c.Ignore, "ignore")...)

	if c.BaseDir != "" {
		if valid, pathErrs := c.BaseDir.IsValid(); !valid {
			errs = append(errs, fmt.Errorf("base_dir: %w", pathErrs[0]))
		}
	}

	if len(errs) > 0 {
		return &InvalidWatchConfigError{FieldErrors: errs}
	}
	return nil
}

// validatePatterns checks that every pattern in the slice is a non-empty,
// valid doublestar glob. The field name (e.g., "patterns" or "ignore") is
// used in error messages.
func validatePatterns(patterns []string, field string) []error {
	var errs []error
	for i, pat := range patterns {
		if strings.TrimSpace(pat) == "" {
			errs = append(errs, fmt.Errorf("%s[%d]: pattern must not be empty", field, i))
			continue
		}
		if !doublestar.ValidatePattern(pat) {
			errs = append(errs, fmt.Errorf("%s[%d]: invalid glob pattern %q", field, i, pat))
		}
	}
	return errs
}
