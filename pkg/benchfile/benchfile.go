// SPDX-License-Identifier: MPL-2.0

package benchfile

import (
	"maps"
	"slices"

	"neargrid/pkg/types"
)

type (
	// Benchfile is the root of a parsed benchfile.cue.
	Benchfile struct {
		// Version is the schema version of this file (optional, reserved
		// for future migrations).
		Version string `json:"version,omitempty"`
		// Scenarios holds the scenario definitions keyed by name.
		Scenarios map[string]Scenario `json:"scenarios"`
		// FilePath is where this benchfile was loaded from (not serialized).
		FilePath types.FilesystemPath `json:"-"`
	}

	// Scenario describes one benchmark run: the dataset to index, grid
	// construction parameters, query sampling, and optional hooks.
	Scenario struct {
		// Description provides help text shown by 'neargrid bench list'.
		Description types.DescriptionText `json:"description,omitempty"`
		// Dataset names an entry in a datasets.toml manifest.
		// Mutually exclusive with DatasetPath; exactly one must be set.
		Dataset string `json:"dataset,omitempty"`
		// DatasetPath points directly at a PLY file, bypassing manifests.
		// Mutually exclusive with Dataset; exactly one must be set.
		DatasetPath string `json:"dataset_path,omitempty"`
		// Scale is the bounding box padding factor for grid construction.
		// Zero means "use bench.default_scale from config".
		Scale float64 `json:"scale,omitempty"`
		// Queries configures query point sampling.
		Queries QuerySpec `json:"queries"`
		// Warmup is the number of unrecorded iterations before measurement.
		Warmup int `json:"warmup"`
		// Iterations is the number of measured iterations.
		// Zero means "use bench.default_iterations from config".
		Iterations int `json:"iterations,omitempty"`
		// SpiralShells is the shell radius of the spiral search table.
		SpiralShells int `json:"spiral_shells"`
		// Hooks holds optional setup/teardown shell scripts.
		Hooks *Hooks `json:"hooks,omitempty"`
		// Workers is the goroutine count for batch query phases
		// (0 = GOMAXPROCS).
		Workers int `json:"workers"`
		// Watch defines file-watching configuration for 'bench run --watch'.
		Watch *WatchConfig `json:"watch,omitempty"`
	}

	// QuerySpec configures how query points are sampled from the dataset.
	QuerySpec struct {
		// Count is the number of query points sampled from the cloud.
		Count int `json:"count"`
		// Seed is the PRNG seed for query sampling.
		Seed int64 `json:"seed"`
		// Removed extracts the sampled vertices from the build set so
		// queries are off-index.
		Removed bool `json:"removed"`
		// OffsetX and OffsetZ are per-axis multipliers for the offset
		// query phase. Both zero disables the phase.
		OffsetX float64 `json:"offset_x"`
		OffsetZ float64 `json:"offset_z"`
	}

	// Hooks holds POSIX shell scripts run around a scenario. Scripts run
	// in the embedded interpreter with NEARGRID_SCENARIO, NEARGRID_DATASET,
	// and NEARGRID_RUN_ID in the environment.
	Hooks struct {
		// Setup runs before the first iteration.
		Setup string `json:"setup,omitempty"`
		// Teardown runs after the last iteration, also on error.
		Teardown string `json:"teardown,omitempty"`
	}
)

// Get finds a scenario by its name. Returns nil when the name is empty or
// not defined.
func (bf *Benchfile) Get(name string) *Scenario {
	if name == "" {
		return nil
	}
	if sc, ok := bf.Scenarios[name]; ok {
		return &sc
	}
	return nil
}

// List returns all scenario names in sorted order.
func (bf *Benchfile) List() []string {
	return slices.Sorted(maps.Keys(bf.Scenarios))
}

// EffectiveScale resolves the grid scale, falling back when the scenario
// leaves it unset.
func (s *Scenario) EffectiveScale(fallback float64) float64 {
	if s.Scale == 0 {
		return fallback
	}
	return s.Scale
}

// EffectiveIterations resolves the measured iteration count, falling back
// when the scenario leaves it unset.
func (s *Scenario) EffectiveIterations(fallback int) int {
	if s.Iterations == 0 {
		return fallback
	}
	return s.Iterations
}

// OffsetsEnabled reports whether the scenario runs the offset query phase.
func (q QuerySpec) OffsetsEnabled() bool {
	return q.OffsetX != 0 || q.OffsetZ != 0
}

// HasSetup reports whether a setup hook is defined.
func (s *Scenario) HasSetup() bool {
	return s.Hooks != nil && s.Hooks.Setup != ""
}

// HasTeardown reports whether a teardown hook is defined.
func (s *Scenario) HasTeardown() bool {
	return s.Hooks != nil && s.Hooks.Teardown != ""
}
