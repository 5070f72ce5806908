// SPDX-License-Identifier: MPL-2.0

package benchfile

import (
	_ "embed"
	"fmt"
	"os"

	"neargrid/pkg/cueutil"
	"neargrid/pkg/types"
)

//go:embed benchfile_schema.cue
var benchfileSchema string

// DefaultFileName is the benchfile name looked up in the working directory.
const DefaultFileName = "benchfile.cue"

// Defaults applied by the CUE schema when a scenario omits the field.
// Go-constructed scenarios resolve zero values against these through the
// Effective* accessors.
const (
	// DefaultSpiralShells is the spiral table radius.
	DefaultSpiralShells = 100
	// DefaultQueryCount is the number of sampled query points.
	DefaultQueryCount = 10000
	// DefaultQuerySeed seeds the query sampling PRNG.
	DefaultQuerySeed int64 = 42
	// DefaultOffset is the per-axis multiplier for the offset query phase.
	DefaultOffset = 0.7
	// DefaultWarmup is the number of unrecorded iterations.
	DefaultWarmup = 1
)

// Parse reads and parses a benchfile from the given path.
func Parse(path types.FilesystemPath) (*Benchfile, error) {
	pathStr := string(path)
	data, err := os.ReadFile(pathStr)
	if err != nil {
		return nil, fmt.Errorf("failed to read benchfile at %s: %w", path, err)
	}

	return ParseBytes(data, pathStr)
}

// ParseBytes parses benchfile content from bytes.
// Uses cueutil.ParseAndDecodeString for the 3-step CUE parsing flow:
// compile schema → compile user data → validate and decode.
func ParseBytes(data []byte, path string) (*Benchfile, error) {
	result, err := cueutil.ParseAndDecodeString[Benchfile](
		benchfileSchema,
		data,
		"#Benchfile",
		cueutil.WithFilename(path),
	)
	if err != nil {
		return nil, err
	}

	bf := result.Value
	bf.FilePath = types.FilesystemPath(path)

	// Validate and collect all errors
	if errs := bf.Validate(); len(errs) > 0 {
		// Return ValidationErrors which implements error interface
		return nil, errs
	}

	return bf, nil
}

// EffectiveSpiralShells resolves the spiral table radius, applying the
// schema default when unset.
func (s *Scenario) EffectiveSpiralShells() int {
	if s.SpiralShells == 0 {
		return DefaultSpiralShells
	}
	return s.SpiralShells
}

// EffectiveCount resolves the query sample size, applying the schema
// default when unset.
func (q QuerySpec) EffectiveCount() int {
	if q.Count == 0 {
		return DefaultQueryCount
	}
	return q.Count
}
