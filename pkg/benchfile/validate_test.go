// SPDX-License-Identifier: MPL-2.0

package benchfile

import (
	"strings"
	"testing"
)

// validScenario returns a scenario that passes all Go-side checks, for use
// as a mutation base in validation tests.
func validScenario() Scenario {
	return Scenario{
		Dataset:      "dragon",
		Warmup:       1,
		SpiralShells: 100,
		Queries: QuerySpec{
			Count:   10000,
			Seed:    42,
			Removed: true,
			OffsetX: 0.7,
			OffsetZ: 0.7,
		},
	}
}

func TestValidate_ValidBenchfile(t *testing.T) {
	t.Parallel()

	bf := &Benchfile{Scenarios: map[string]Scenario{
		"dragon": validScenario(),
	}}

	if errs := bf.Validate(); len(errs) != 0 {
		t.Errorf("Validate() returned unexpected errors: %v", errs)
	}
}

func TestValidate_NoScenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		bf   *Benchfile
	}{
		{"nil map", &Benchfile{}},
		{"empty map", &Benchfile{Scenarios: map[string]Scenario{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			errs := tt.bf.Validate()
			if len(errs) != 1 {
				t.Fatalf("Validate() returned %d errors, want 1: %v", len(errs), errs)
			}
			if errs[0].Message != "no scenarios defined" {
				t.Errorf("Message = %q", errs[0].Message)
			}
			if errs[0].Field != "scenarios" {
				t.Errorf("Field = %q, want scenarios", errs[0].Field)
			}
		})
	}
}

func TestValidate_ScenarioChecks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Scenario)
		wantMsg string
	}{
		{
			name:    "neither dataset nor dataset_path",
			mutate:  func(s *Scenario) { s.Dataset = "" },
			wantMsg: "one of dataset or dataset_path must be set",
		},
		{
			name:    "both dataset and dataset_path",
			mutate:  func(s *Scenario) { s.DatasetPath = "./dragon.ply" },
			wantMsg: "mutually exclusive",
		},
		{
			name:    "whitespace-only description",
			mutate:  func(s *Scenario) { s.Description = "   " },
			wantMsg: "invalid description text",
		},
		{
			name:    "scale below range",
			mutate:  func(s *Scenario) { s.Scale = 0.5 },
			wantMsg: "scale 0.5 out of range",
		},
		{
			name:    "scale above range",
			mutate:  func(s *Scenario) { s.Scale = 20 },
			wantMsg: "scale 20 out of range",
		},
		{
			name:    "negative iterations",
			mutate:  func(s *Scenario) { s.Iterations = -1 },
			wantMsg: "iterations -1 out of range",
		},
		{
			name:    "iterations above range",
			mutate:  func(s *Scenario) { s.Iterations = 20000 },
			wantMsg: "iterations 20000 out of range",
		},
		{
			name:    "negative warmup",
			mutate:  func(s *Scenario) { s.Warmup = -1 },
			wantMsg: "warmup -1 out of range",
		},
		{
			name:    "warmup above range",
			mutate:  func(s *Scenario) { s.Warmup = 101 },
			wantMsg: "warmup 101 out of range",
		},
		{
			name:    "negative spiral shells",
			mutate:  func(s *Scenario) { s.SpiralShells = -1 },
			wantMsg: "spiral_shells -1 out of range",
		},
		{
			name:    "spiral shells above range",
			mutate:  func(s *Scenario) { s.SpiralShells = 600 },
			wantMsg: "spiral_shells 600 out of range",
		},
		{
			name:    "workers above range",
			mutate:  func(s *Scenario) { s.Workers = 1025 },
			wantMsg: "workers 1025 out of range",
		},
		{
			name:    "negative query count",
			mutate:  func(s *Scenario) { s.Queries.Count = -5 },
			wantMsg: "count -5 out of range",
		},
		{
			name:    "query count above range",
			mutate:  func(s *Scenario) { s.Queries.Count = 20000000 },
			wantMsg: "count 20000000 out of range",
		},
		{
			name:    "negative offset_x",
			mutate:  func(s *Scenario) { s.Queries.OffsetX = -0.5 },
			wantMsg: "offset_x -0.5 out of range",
		},
		{
			name:    "offset_z above range",
			mutate:  func(s *Scenario) { s.Queries.OffsetZ = 17 },
			wantMsg: "offset_z 17 out of range",
		},
		{
			name:    "whitespace-only setup hook",
			mutate:  func(s *Scenario) { s.Hooks = &Hooks{Setup: "   "} },
			wantMsg: "setup script is whitespace-only",
		},
		{
			name:    "whitespace-only teardown hook",
			mutate:  func(s *Scenario) { s.Hooks = &Hooks{Teardown: "\t\n"} },
			wantMsg: "teardown script is whitespace-only",
		},
		{
			name:    "watch without patterns",
			mutate:  func(s *Scenario) { s.Watch = &WatchConfig{} },
			wantMsg: "at least one pattern is required",
		},
		{
			name: "watch with blank pattern",
			mutate: func(s *Scenario) {
				s.Watch = &WatchConfig{Patterns: []string{"data/**/*.ply", "  "}}
			},
			wantMsg: "patterns[1] is empty",
		},
		{
			name: "watch with malformed debounce",
			mutate: func(s *Scenario) {
				s.Watch = &WatchConfig{Patterns: []string{"*.ply"}, Debounce: "fast"}
			},
			wantMsg: `invalid debounce "fast"`,
		},
		{
			name: "watch with negative debounce",
			mutate: func(s *Scenario) {
				s.Watch = &WatchConfig{Patterns: []string{"*.ply"}, Debounce: "-1s"}
			},
			wantMsg: "must be a positive duration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sc := validScenario()
			tt.mutate(&sc)
			bf := &Benchfile{Scenarios: map[string]Scenario{"dragon": sc}}

			errs := bf.Validate()
			if len(errs) == 0 {
				t.Fatal("Validate() returned no errors, want at least one")
			}
			found := false
			for _, e := range errs {
				if strings.Contains(e.Message, tt.wantMsg) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("Validate() = %v, want message containing %q", errs, tt.wantMsg)
			}
		})
	}
}

func TestValidate_InvalidScenarioNameKey(t *testing.T) {
	t.Parallel()

	bf := &Benchfile{Scenarios: map[string]Scenario{
		"Big Dragon": validScenario(),
	}}

	errs := bf.Validate()
	if len(errs) != 1 {
		t.Fatalf("Validate() returned %d errors, want 1: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0].Message, "invalid scenario name") {
		t.Errorf("Message = %q", errs[0].Message)
	}
	if errs[0].Field != `scenario "Big Dragon"` {
		t.Errorf("Field = %q", errs[0].Field)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	t.Parallel()

	bad := Scenario{
		Scale:        0.5,
		Warmup:       -1,
		SpiralShells: 600,
		Queries:      QuerySpec{Count: -1},
	}
	bf := &Benchfile{Scenarios: map[string]Scenario{"bad": bad}}

	errs := bf.Validate()
	// dataset XOR, scale, warmup, spiral_shells, query count.
	if len(errs) != 5 {
		t.Errorf("Validate() returned %d errors, want 5: %v", len(errs), errs)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		if got := (ValidationErrors{}).Error(); got != "" {
			t.Errorf("Error() = %q, want empty", got)
		}
	})

	t.Run("single error is bare", func(t *testing.T) {
		t.Parallel()
		errs := ValidationErrors{{Field: "scenarios", Message: "no scenarios defined"}}
		if got := errs.Error(); got != "scenarios: no scenarios defined" {
			t.Errorf("Error() = %q", got)
		}
	})

	t.Run("multiple errors are joined", func(t *testing.T) {
		t.Parallel()
		errs := ValidationErrors{
			{Field: "a", Message: "first"},
			{Field: "b", Message: "second"},
		}
		got := errs.Error()
		if !strings.Contains(got, "validation failed with 2 errors:") {
			t.Errorf("Error() = %q, want count header", got)
		}
		if !strings.Contains(got, "  - a: first") || !strings.Contains(got, "  - b: second") {
			t.Errorf("Error() = %q, want bulleted entries", got)
		}
	})

	t.Run("message without field", func(t *testing.T) {
		t.Parallel()
		e := ValidationError{Message: "standalone"}
		if got := e.Error(); got != "standalone" {
			t.Errorf("Error() = %q", got)
		}
	})
}
