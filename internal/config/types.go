// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// SamplerAuto picks the platform sampler automatically (perf on Linux,
	// sample on macOS).
	SamplerAuto SamplerEngine = "auto"
	// SamplerPerf forces the Linux perf(1) sampler.
	SamplerPerf SamplerEngine = "perf"
	// SamplerSample forces the macOS sample(1) sampler.
	SamplerSample SamplerEngine = "sample"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidSamplerEngine is returned when a SamplerEngine value is not recognized.
	ErrInvalidSamplerEngine = errors.New("invalid sampler engine")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidReportsDirPath is returned when a ReportsDirPath value is whitespace-only.
	ErrInvalidReportsDirPath = errors.New("invalid reports dir path")
	// ErrInvalidCacheDirPath is returned when a CacheDirPath value is whitespace-only.
	ErrInvalidCacheDirPath = errors.New("invalid cache dir path")
	// ErrInvalidBinaryFilePath is returned when a BinaryFilePath value is whitespace-only.
	ErrInvalidBinaryFilePath = errors.New("invalid binary file path")
	// ErrInvalidSearchPath is the sentinel error wrapped by InvalidSearchPathError.
	ErrInvalidSearchPath = errors.New("invalid dataset search path")
	// ErrInvalidProfileConfig is the sentinel error wrapped by InvalidProfileConfigError.
	ErrInvalidProfileConfig = errors.New("invalid profile config")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidBenchConfig is the sentinel error wrapped by InvalidBenchConfigError.
	ErrInvalidBenchConfig = errors.New("invalid bench config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// SamplerEngine selects the system profiler used by 'profile sample'.
	SamplerEngine string

	// InvalidSamplerEngineError is returned when a SamplerEngine value is not recognized.
	// It wraps ErrInvalidSamplerEngine for errors.Is() compatibility.
	InvalidSamplerEngineError struct {
		Value SamplerEngine
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// ReportsDirPath represents a filesystem path where benchmark report
	// directories are written. The zero value ("") is valid and means
	// "use the default reports directory".
	ReportsDirPath string

	// InvalidReportsDirPathError is returned when a ReportsDirPath value is
	// non-empty but whitespace-only.
	InvalidReportsDirPathError struct {
		Value ReportsDirPath
	}

	// CacheDirPath represents a filesystem path to the spiral table cache.
	// The zero value ("") is valid and means "use the default cache directory".
	// Non-zero values must not be whitespace-only.
	CacheDirPath string

	// InvalidCacheDirPathError is returned when a CacheDirPath value is
	// non-empty but whitespace-only.
	InvalidCacheDirPathError struct {
		Value CacheDirPath
	}

	// BinaryFilePath represents a filesystem path to an external executable.
	// A valid path must be non-empty and not whitespace-only.
	// The zero value ("") is valid and means "resolve from PATH".
	BinaryFilePath string

	// InvalidBinaryFilePathError is returned when a BinaryFilePath value is
	// non-empty but whitespace-only.
	InvalidBinaryFilePathError struct {
		Value BinaryFilePath
	}

	// InvalidSearchPathError is returned when a dataset_search_paths entry is
	// empty or whitespace-only. It wraps ErrInvalidSearchPath for errors.Is().
	InvalidSearchPathError struct {
		Index int
		Value string
	}

	// InvalidProfileConfigError is returned when a ProfileConfig has invalid fields.
	// It wraps ErrInvalidProfileConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidProfileConfigError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	// It wraps ErrInvalidUIConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidBenchConfigError is returned when a BenchConfig has invalid fields.
	// It wraps ErrInvalidBenchConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidBenchConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// ReportsDir is where benchmark report directories are written.
		ReportsDir ReportsDirPath `json:"reports_dir" mapstructure:"reports_dir"`
		// CacheDir overrides the spiral table cache directory.
		CacheDir CacheDirPath `json:"cache_dir,omitempty" mapstructure:"cache_dir"`
		// DatasetSearchPaths lists extra directories scanned for dataset manifests.
		DatasetSearchPaths []string `json:"dataset_search_paths" mapstructure:"dataset_search_paths"`
		// Profile configures profiling runs.
		Profile ProfileConfig `json:"profile" mapstructure:"profile"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// Bench supplies fallback values for scenarios that omit them.
		Bench BenchConfig `json:"bench" mapstructure:"bench"`
	}

	// ProfileConfig configures profiling behavior.
	ProfileConfig struct {
		// Sampler selects the system sampling backend.
		Sampler SamplerEngine `json:"sampler" mapstructure:"sampler"`
		// PprofBinary overrides the executable used to post-process pprof
		// captures (default: the "go" binary from PATH).
		PprofBinary BinaryFilePath `json:"pprof_binary,omitempty" mapstructure:"pprof_binary"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// BenchConfig supplies defaults for scenario fields left unset in a benchfile.
	BenchConfig struct {
		// DefaultScale pads the grid bounding box when a scenario omits scale.
		DefaultScale float64 `json:"default_scale" mapstructure:"default_scale"`
		// DefaultIterations is the measured iteration count when a scenario
		// omits iterations.
		DefaultIterations int `json:"default_iterations" mapstructure:"default_iterations"`
	}
)

// String returns the string representation of the SamplerEngine.
func (s SamplerEngine) String() string { return string(s) }

// IsValid returns whether the SamplerEngine is one of the defined engines,
// and a list of validation errors if it is not.
func (s SamplerEngine) IsValid() (bool, []error) {
	switch s {
	case SamplerAuto, SamplerPerf, SamplerSample:
		return true, nil
	default:
		return false, []error{&InvalidSamplerEngineError{Value: s}}
	}
}

// Error implements the error interface for InvalidSamplerEngineError.
func (e *InvalidSamplerEngineError) Error() string {
	return fmt.Sprintf("invalid sampler engine %q (valid: auto, perf, sample)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidSamplerEngineError) Unwrap() error {
	return ErrInvalidSamplerEngine
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ReportsDirPath.
func (p ReportsDirPath) String() string { return string(p) }

// IsValid returns whether the ReportsDirPath is valid.
// The zero value ("") is valid (means "use default reports directory").
// Non-zero values must not be whitespace-only.
func (p ReportsDirPath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidReportsDirPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidReportsDirPathError.
func (e *InvalidReportsDirPathError) Error() string {
	return fmt.Sprintf("invalid reports dir path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidReportsDirPath for errors.Is() compatibility.
func (e *InvalidReportsDirPathError) Unwrap() error { return ErrInvalidReportsDirPath }

// String returns the string representation of the CacheDirPath.
func (p CacheDirPath) String() string { return string(p) }

// IsValid returns whether the CacheDirPath is valid.
// The zero value ("") is valid (means "use default cache directory").
// Non-zero values must not be whitespace-only.
func (p CacheDirPath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidCacheDirPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidCacheDirPathError.
func (e *InvalidCacheDirPathError) Error() string {
	return fmt.Sprintf("invalid cache dir path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidCacheDirPath for errors.Is() compatibility.
func (e *InvalidCacheDirPathError) Unwrap() error { return ErrInvalidCacheDirPath }

// String returns the string representation of the BinaryFilePath.
func (p BinaryFilePath) String() string { return string(p) }

// IsValid returns whether the BinaryFilePath is valid.
// The zero value ("") is valid (means "resolve from PATH").
// Non-zero values must not be whitespace-only.
func (p BinaryFilePath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidBinaryFilePathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidBinaryFilePathError.
func (e *InvalidBinaryFilePathError) Error() string {
	return fmt.Sprintf("invalid binary file path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidBinaryFilePath for errors.Is() compatibility.
func (e *InvalidBinaryFilePathError) Unwrap() error { return ErrInvalidBinaryFilePath }

// Error implements the error interface for InvalidSearchPathError.
func (e *InvalidSearchPathError) Error() string {
	return fmt.Sprintf("invalid dataset search path [%d] %q: must be non-empty", e.Index, e.Value)
}

// Unwrap returns ErrInvalidSearchPath for errors.Is() compatibility.
func (e *InvalidSearchPathError) Unwrap() error { return ErrInvalidSearchPath }

// IsValid returns whether the ProfileConfig has valid fields.
// It delegates to Sampler.IsValid() and PprofBinary.IsValid().
func (c ProfileConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Sampler.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.PprofBinary.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidProfileConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidProfileConfigError.
func (e *InvalidProfileConfigError) Error() string {
	return fmt.Sprintf("invalid profile config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidProfileConfig for errors.Is() compatibility.
func (e *InvalidProfileConfigError) Unwrap() error { return ErrInvalidProfileConfig }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the BenchConfig has valid fields.
// DefaultScale must be at least 1 (the grid never shrinks below the cloud's
// bounding box) and DefaultIterations must be positive.
func (c BenchConfig) IsValid() (bool, []error) {
	var errs []error
	if c.DefaultScale < 1 {
		errs = append(errs, fmt.Errorf("%w: default_scale %v must be >= 1", ErrInvalidBenchConfig, c.DefaultScale))
	}
	if c.DefaultIterations < 1 {
		errs = append(errs, fmt.Errorf("%w: default_iterations %d must be >= 1", ErrInvalidBenchConfig, c.DefaultIterations))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidBenchConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidBenchConfigError.
func (e *InvalidBenchConfigError) Error() string {
	return fmt.Sprintf("invalid bench config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidBenchConfig for errors.Is() compatibility.
func (e *InvalidBenchConfigError) Unwrap() error { return ErrInvalidBenchConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to ReportsDir.IsValid(), CacheDir.IsValid(), each
// DatasetSearchPaths entry, Profile.IsValid(), UI.IsValid(), and
// Bench.IsValid().
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ReportsDir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.CacheDir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	for i, p := range c.DatasetSearchPaths {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, &InvalidSearchPathError{Index: i, Value: p})
		}
	}
	if valid, fieldErrs := c.Profile.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Bench.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ReportsDir:         "reports",
		CacheDir:           "", // Will use default cache dir if empty
		DatasetSearchPaths: []string{},
		Profile: ProfileConfig{
			Sampler:     SamplerAuto,
			PprofBinary: "", // Will resolve "go" from PATH if empty
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
		Bench: BenchConfig{
			DefaultScale:      1.19,
			DefaultIterations: 5,
		},
	}
}
