// SPDX-License-Identifier: MPL-2.0

package benchfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"neargrid/pkg/types"
)

const minimalBenchfile = `
scenarios: {
	dragon: {
		dataset: "dragon"
	}
}
`

func TestParseBytes_AppliesSchemaDefaults(t *testing.T) {
	t.Parallel()

	bf, err := ParseBytes([]byte(minimalBenchfile), "benchfile.cue")
	if err != nil {
		t.Fatalf("ParseBytes() returned error: %v", err)
	}

	sc := bf.Get("dragon")
	if sc == nil {
		t.Fatal("Get(dragon) returned nil")
	}

	if sc.Dataset != "dragon" {
		t.Errorf("Dataset = %q, want dragon", sc.Dataset)
	}
	if sc.Scale != 0 {
		t.Errorf("Scale = %v, want 0 (unset, config fallback)", sc.Scale)
	}
	if sc.Iterations != 0 {
		t.Errorf("Iterations = %d, want 0 (unset, config fallback)", sc.Iterations)
	}
	if sc.Warmup != 1 {
		t.Errorf("Warmup = %d, want schema default 1", sc.Warmup)
	}
	if sc.SpiralShells != 100 {
		t.Errorf("SpiralShells = %d, want schema default 100", sc.SpiralShells)
	}
	if sc.Workers != 0 {
		t.Errorf("Workers = %d, want 0", sc.Workers)
	}

	q := sc.Queries
	if q.Count != 10000 {
		t.Errorf("Queries.Count = %d, want schema default 10000", q.Count)
	}
	if q.Seed != 42 {
		t.Errorf("Queries.Seed = %d, want schema default 42", q.Seed)
	}
	if !q.Removed {
		t.Error("Queries.Removed = false, want schema default true")
	}
	if q.OffsetX != 0.7 {
		t.Errorf("Queries.OffsetX = %v, want schema default 0.7", q.OffsetX)
	}
	if q.OffsetZ != 0.7 {
		t.Errorf("Queries.OffsetZ = %v, want schema default 0.7", q.OffsetZ)
	}
}

func TestParseBytes_FullScenario(t *testing.T) {
	t.Parallel()

	content := `
version: "1"

scenarios: {
	"bunny-offsets": {
		description:   "Bunny with offset queries disabled"
		dataset_path:  "./data/bunny.ply"
		scale:         2.5
		warmup:        3
		iterations:    20
		spiral_shells: 64
		workers:       8
		queries: {
			count:    500
			seed:     7
			removed:  false
			offset_x: 0
			offset_z: 0
		}
		hooks: {
			setup:    "echo starting"
			teardown: "echo done"
		}
		watch: {
			patterns: ["data/**/*.ply"]
			debounce: "1s"
		}
	}
}
`
	bf, err := ParseBytes([]byte(content), "benchfile.cue")
	if err != nil {
		t.Fatalf("ParseBytes() returned error: %v", err)
	}

	if bf.Version != "1" {
		t.Errorf("Version = %q, want 1", bf.Version)
	}

	sc := bf.Get("bunny-offsets")
	if sc == nil {
		t.Fatal("Get(bunny-offsets) returned nil")
	}

	if sc.DatasetPath != "./data/bunny.ply" {
		t.Errorf("DatasetPath = %q", sc.DatasetPath)
	}
	if sc.Scale != 2.5 {
		t.Errorf("Scale = %v, want 2.5", sc.Scale)
	}
	if sc.Warmup != 3 {
		t.Errorf("Warmup = %d, want 3", sc.Warmup)
	}
	if sc.Iterations != 20 {
		t.Errorf("Iterations = %d, want 20", sc.Iterations)
	}
	if sc.SpiralShells != 64 {
		t.Errorf("SpiralShells = %d, want 64", sc.SpiralShells)
	}
	if sc.Workers != 8 {
		t.Errorf("Workers = %d, want 8", sc.Workers)
	}

	q := sc.Queries
	if q.Count != 500 || q.Seed != 7 || q.Removed {
		t.Errorf("Queries = %+v, want count 500 seed 7 removed false", q)
	}
	if q.OffsetsEnabled() {
		t.Error("OffsetsEnabled() = true, want false when both offsets are 0")
	}

	if !sc.HasSetup() || !sc.HasTeardown() {
		t.Error("expected both hooks to be set")
	}
	if sc.Hooks.Setup != "echo starting" {
		t.Errorf("Hooks.Setup = %q", sc.Hooks.Setup)
	}

	if sc.Watch == nil {
		t.Fatal("Watch is nil")
	}
	if len(sc.Watch.Patterns) != 1 || sc.Watch.Patterns[0] != "data/**/*.ply" {
		t.Errorf("Watch.Patterns = %v", sc.Watch.Patterns)
	}
	d, err := sc.Watch.ParseDebounce()
	if err != nil {
		t.Fatalf("ParseDebounce() returned error: %v", err)
	}
	if d.Seconds() != 1 {
		t.Errorf("debounce = %v, want 1s", d)
	}
}

func TestParseBytes_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "uppercase scenario name rejected",
			content: `scenarios: Dragon: dataset: "dragon"`,
		},
		{
			name:    "scenario name starting with hyphen rejected",
			content: `scenarios: "-dragon": dataset: "dragon"`,
		},
		{
			name:    "scale below 1.0 rejected",
			content: `scenarios: d: { dataset: "d", scale: 0.5 }`,
		},
		{
			name:    "scale above 16.0 rejected",
			content: `scenarios: d: { dataset: "d", scale: 20 }`,
		},
		{
			name:    "zero iterations rejected",
			content: `scenarios: d: { dataset: "d", iterations: 0 }`,
		},
		{
			name:    "zero query count rejected",
			content: `scenarios: d: { dataset: "d", queries: count: 0 }`,
		},
		{
			name:    "negative offset rejected",
			content: `scenarios: d: { dataset: "d", queries: offset_x: -0.5 }`,
		},
		{
			name:    "unknown scenario field rejected",
			content: `scenarios: d: { dataset: "d", gpu: true }`,
		},
		{
			name:    "unknown top-level field rejected",
			content: `datasets: ["dragon"]`,
		},
		{
			name:    "empty dataset rejected",
			content: `scenarios: d: { dataset: "" }`,
		},
		{
			name:    "watch without patterns rejected",
			content: `scenarios: d: { dataset: "d", watch: { debounce: "1s" } }`,
		},
		{
			name:    "spiral shells above 512 rejected",
			content: `scenarios: d: { dataset: "d", spiral_shells: 600 }`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := ParseBytes([]byte(tt.content), "benchfile.cue"); err == nil {
				t.Error("expected parse error, got nil")
			}
		})
	}
}

func TestParseBytes_NoScenarios(t *testing.T) {
	t.Parallel()

	_, err := ParseBytes([]byte(`scenarios: {}`), "benchfile.cue")
	if err == nil {
		t.Fatal("expected error for empty scenarios")
	}
	if !strings.Contains(err.Error(), "no scenarios defined") {
		t.Errorf("error = %q, want mention of no scenarios", err)
	}
}

func TestParseBytes_DatasetExclusivity(t *testing.T) {
	t.Parallel()

	t.Run("neither set", func(t *testing.T) {
		t.Parallel()

		_, err := ParseBytes([]byte(`scenarios: d: { scale: 1.5 }`), "benchfile.cue")
		if err == nil {
			t.Fatal("expected error when no dataset reference is set")
		}
		if !strings.Contains(err.Error(), "one of dataset or dataset_path") {
			t.Errorf("error = %q", err)
		}
	})

	t.Run("both set", func(t *testing.T) {
		t.Parallel()

		content := `scenarios: d: { dataset: "dragon", dataset_path: "./dragon.ply" }`
		_, err := ParseBytes([]byte(content), "benchfile.cue")
		if err == nil {
			t.Fatal("expected error when both dataset references are set")
		}
		if !strings.Contains(err.Error(), "mutually exclusive") {
			t.Errorf("error = %q", err)
		}
	})
}

func TestParse_File(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "benchfile.cue")
	if err := os.WriteFile(path, []byte(minimalBenchfile), 0o644); err != nil {
		t.Fatalf("failed to write benchfile: %v", err)
	}

	bf, err := Parse(types.FilesystemPath(path))
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}

	if bf.FilePath.String() != path {
		t.Errorf("FilePath = %q, want %q", bf.FilePath, path)
	}
	if bf.Get("dragon") == nil {
		t.Error("Get(dragon) returned nil")
	}
}

func TestParse_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := Parse(types.FilesystemPath("/does/not/exist/benchfile.cue"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "failed to read benchfile") {
		t.Errorf("error = %q", err)
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	bf := &Benchfile{Scenarios: map[string]Scenario{
		"a": {Dataset: "one"},
		"b": {Dataset: "two"},
	}}

	if sc := bf.Get("a"); sc == nil || sc.Dataset != "one" {
		t.Errorf("Get(a) = %+v", sc)
	}
	if sc := bf.Get("missing"); sc != nil {
		t.Errorf("Get(missing) = %+v, want nil", sc)
	}
	if sc := bf.Get(""); sc != nil {
		t.Errorf("Get(\"\") = %+v, want nil", sc)
	}
}

func TestList_Sorted(t *testing.T) {
	t.Parallel()

	bf := &Benchfile{Scenarios: map[string]Scenario{
		"zebra":  {},
		"alpha":  {},
		"middle": {},
	}}

	got := bf.List()
	want := []string{"alpha", "middle", "zebra"}
	if len(got) != len(want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEffectiveAccessors(t *testing.T) {
	t.Parallel()

	sc := &Scenario{}
	if got := sc.EffectiveScale(1.19); got != 1.19 {
		t.Errorf("EffectiveScale(1.19) = %v on unset scale", got)
	}
	if got := sc.EffectiveIterations(5); got != 5 {
		t.Errorf("EffectiveIterations(5) = %d on unset iterations", got)
	}
	if got := sc.EffectiveSpiralShells(); got != DefaultSpiralShells {
		t.Errorf("EffectiveSpiralShells() = %d on unset shells", got)
	}
	if got := (QuerySpec{}).EffectiveCount(); got != DefaultQueryCount {
		t.Errorf("EffectiveCount() = %d on unset count", got)
	}

	sc = &Scenario{Scale: 2.0, Iterations: 9, SpiralShells: 32}
	if got := sc.EffectiveScale(1.19); got != 2.0 {
		t.Errorf("EffectiveScale = %v, want explicit 2.0", got)
	}
	if got := sc.EffectiveIterations(5); got != 9 {
		t.Errorf("EffectiveIterations = %d, want explicit 9", got)
	}
	if got := sc.EffectiveSpiralShells(); got != 32 {
		t.Errorf("EffectiveSpiralShells = %d, want explicit 32", got)
	}
	if got := (QuerySpec{Count: 100}).EffectiveCount(); got != 100 {
		t.Errorf("EffectiveCount = %d, want explicit 100", got)
	}
}

func TestOffsetsEnabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		q    QuerySpec
		want bool
	}{
		{"both set", QuerySpec{OffsetX: 0.7, OffsetZ: 0.7}, true},
		{"only x", QuerySpec{OffsetX: 0.5}, true},
		{"only z", QuerySpec{OffsetZ: 0.5}, true},
		{"both zero", QuerySpec{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.q.OffsetsEnabled(); got != tt.want {
				t.Errorf("OffsetsEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}
