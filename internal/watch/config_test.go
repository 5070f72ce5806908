// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"errors"
	"testing"

	"neargrid/pkg/types"
)

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cfg    Config
		wantOK bool
	}{
		{
			name:   "zero value is valid (empty patterns and empty BaseDir)",
			cfg:    Config{},
			wantOK: true,
		},
		{
			name: "all valid fields",
			cfg: Config{
				Patterns: []string{"**/*.ply", "benchfile.cue"},
				Ignore:   []string{"**/scratch/**"},
				BaseDir:  "/home/user/bench",
			},
			wantOK: true,
		},
		{
			name: "empty pattern slices are valid",
			cfg: Config{
				Patterns: []string{},
				Ignore:   []string{},
			},
			wantOK: true,
		},
		{
			name: "non-pattern fields do not affect validity",
			cfg: Config{
				ClearScreen: true,
				Patterns:    []string{"data/**/*.ply"},
			},
			wantOK: true,
		},
		{
			name: "empty pattern is invalid",
			cfg: Config{
				Patterns: []string{""},
			},
			wantOK: false,
		},
		{
			name: "whitespace-only pattern is invalid",
			cfg: Config{
				Patterns: []string{"   "},
			},
			wantOK: false,
		},
		{
			name: "empty ignore is invalid",
			cfg: Config{
				Ignore: []string{""},
			},
			wantOK: false,
		},
		{
			name: "whitespace-only BaseDir is invalid",
			cfg: Config{
				BaseDir: types.FilesystemPath("   "),
			},
			wantOK: false,
		},
		{
			name: "malformed glob is invalid",
			cfg: Config{
				Patterns: []string{"[invalid"},
			},
			wantOK: false,
		},
		{
			name: "valid patterns with empty BaseDir (uses cwd default)",
			cfg: Config{
				Patterns: []string{"**/*.ply"},
			},
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if (err == nil) != tt.wantOK {
				t.Errorf("Validate() error = %v, wantOK %v", err, tt.wantOK)
			}
		})
	}
}

func TestConfigValidate_SentinelError(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Patterns: []string{""},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid config")
	}
	if !errors.Is(err, ErrInvalidWatchConfig) {
		t.Errorf("error should wrap ErrInvalidWatchConfig, got: %v", err)
	}

	var configErr *InvalidWatchConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("error should be *InvalidWatchConfigError, got: %T", err)
	}
	if len(configErr.FieldErrors) != 1 {
		t.Errorf("expected 1 field error, got %d", len(configErr.FieldErrors))
	}
}

func TestConfigValidate_MultipleFieldErrors(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Patterns: []string{"", "**/*.ply", ""},
		Ignore:   []string{""},
		BaseDir:  types.FilesystemPath("   "),
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid config")
	}

	var configErr *InvalidWatchConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("error should be *InvalidWatchConfigError, got: %T", err)
	}
	// 2 empty Patterns + 1 empty Ignore + 1 whitespace BaseDir = 4 field errors
	if len(configErr.FieldErrors) != 4 {
		t.Errorf("expected 4 field errors, got %d: %v", len(configErr.FieldErrors), configErr.FieldErrors)
	}

	if configErr.Error() == "" {
		t.Error("Error() returned empty string")
	}
}

func TestInvalidWatchConfigError_Unwrap(t *testing.T) {
	t.Parallel()

	err := &InvalidWatchConfigError{
		FieldErrors: []error{errors.New("test")},
	}
	if !errors.Is(err, ErrInvalidWatchConfig) {
		t.Error("Unwrap() should return ErrInvalidWatchConfig")
	}
}
