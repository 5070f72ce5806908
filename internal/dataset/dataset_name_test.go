// SPDX-License-Identifier: MPL-2.0

package dataset

import (
	"errors"
	"strings"
	"testing"
)

func TestDatasetName_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   DatasetName
		want    bool
		wantErr bool
	}{
		{"simple name", DatasetName("dragon"), true, false},
		{"digit start", DatasetName("3dscan"), true, false},
		{"dots hyphens underscores", DatasetName("bunny.res4_dec-2"), true, false},
		{"max length 64", DatasetName("a" + strings.Repeat("b", 63)), true, false},
		{"empty is invalid", DatasetName(""), false, true},
		{"uppercase is invalid", DatasetName("Dragon"), false, true},
		{"space is invalid", DatasetName("big dragon"), false, true},
		{"leading dot is invalid", DatasetName(".dragon"), false, true},
		{"slash is invalid", DatasetName("data/dragon"), false, true},
		{"too long is invalid", DatasetName("a" + strings.Repeat("b", 64)), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			isValid, errs := tt.value.IsValid()
			if isValid != tt.want {
				t.Errorf("DatasetName(%q).IsValid() = %v, want %v", tt.value, isValid, tt.want)
			}
			if tt.wantErr {
				if len(errs) == 0 {
					t.Fatalf("DatasetName(%q).IsValid() returned no errors, want error", tt.value)
				}
				if !errors.Is(errs[0], ErrInvalidDatasetName) {
					t.Errorf("error should wrap ErrInvalidDatasetName, got: %v", errs[0])
				}
				var dnErr *InvalidDatasetNameError
				if !errors.As(errs[0], &dnErr) {
					t.Errorf("error should be *InvalidDatasetNameError, got: %T", errs[0])
				}
			} else if len(errs) > 0 {
				t.Errorf("DatasetName(%q).IsValid() returned unexpected errors: %v", tt.value, errs)
			}
		})
	}
}

func TestDatasetName_String(t *testing.T) {
	t.Parallel()
	n := DatasetName("dragon")
	if n.String() != "dragon" {
		t.Errorf("DatasetName.String() = %q, want %q", n.String(), "dragon")
	}
}
