// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"strings"
	"testing"

	"neargrid/pkg/benchfile"
)

// TestGenerateBenchfile parses the starter benchfile back through the real
// parser so 'neargrid init' can never write a file the next command rejects.
func TestGenerateBenchfile(t *testing.T) {
	t.Parallel()

	content := generateBenchfile()

	bf, err := benchfile.ParseBytes([]byte(content), benchfile.DefaultFileName)
	if err != nil {
		t.Fatalf("starter benchfile does not parse: %v\n%s", err, content)
	}

	smoke := bf.Get("smoke")
	if smoke == nil {
		t.Fatal("starter benchfile has no smoke scenario")
	}
	if smoke.Dataset != "smoke" {
		t.Errorf("smoke.Dataset = %q, want the starter cloud", smoke.Dataset)
	}
	if smoke.Iterations != 3 {
		t.Errorf("smoke.Iterations = %d, want 3", smoke.Iterations)
	}
	if smoke.Queries.Count != 2000 {
		t.Errorf("smoke.Queries.Count = %d, want 2000 (must stay below the starter cloud size)", smoke.Queries.Count)
	}
	if smoke.Warmup != benchfile.DefaultWarmup {
		t.Errorf("smoke.Warmup = %d, want the schema default %d", smoke.Warmup, benchfile.DefaultWarmup)
	}

	sweep := bf.Get("sweep")
	if sweep == nil {
		t.Fatal("starter benchfile has no sweep scenario")
	}
	if sweep.Queries.Count != benchfile.DefaultQueryCount {
		t.Errorf("sweep.Queries.Count = %d, want the schema default %d", sweep.Queries.Count, benchfile.DefaultQueryCount)
	}

	// Both scenarios must keep queries off-index: the starter file would be
	// misleading if the generator serialized removed=false because the Go
	// zero value differs from the schema default.
	for name, sc := range map[string]*benchfile.Scenario{"smoke": smoke, "sweep": sweep} {
		if !sc.Queries.Removed {
			t.Errorf("%s.Queries.Removed = false, want true", name)
		}
		if sc.Queries.OffsetX != benchfile.DefaultOffset || sc.Queries.OffsetZ != benchfile.DefaultOffset {
			t.Errorf("%s offsets = (%v, %v), want the schema defaults", name, sc.Queries.OffsetX, sc.Queries.OffsetZ)
		}
	}
	if strings.Contains(content, "removed") {
		t.Errorf("starter benchfile spells out 'removed'; defaults should stay implicit:\n%s", content)
	}
}
