// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"neargrid/internal/dataset"
	"neargrid/pkg/benchfile"
	"neargrid/pkg/geom"
)

var (
	initForce bool

	// initCmd creates a starter benchfile and dataset manifest
	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Create a starter benchfile in the current directory",
		Long: `Create a starter benchfile.cue and datasets.toml in the current
directory, plus a small synthetic point cloud so the starter scenarios
run without any external data.`,
		RunE: runInit,
	}
)

// The starter cloud is big enough for the default grid to have structure
// but small enough that 'bench run smoke' finishes in seconds.
const (
	initCloudFile   = "clouds/smoke.ply"
	initCloudPoints = 20000
	initCloudSeed   = 42
)

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing files")
}

func runInit(cmd *cobra.Command, args []string) error {
	targets := []string{benchfile.DefaultFileName, dataset.ManifestFileName, initCloudFile}
	if !initForce {
		for _, target := range targets {
			if _, err := os.Stat(target); err == nil {
				return fmt.Errorf("file '%s' already exists. Use --force to overwrite", target)
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(initCloudFile), 0o755); err != nil {
		return fmt.Errorf("failed to create clouds directory: %w", err)
	}
	if err := dataset.GenerateFile(initCloudFile, dataset.GenSpec{
		Points: initCloudPoints,
		Seed:   initCloudSeed,
		Min:    geom.Point{0, 0, 0},
		Max:    geom.Point{1, 1, 1},
	}); err != nil {
		return fmt.Errorf("failed to generate starter cloud: %w", err)
	}

	manifest, err := dataset.GenerateTOML(&dataset.Manifest{Datasets: []dataset.Entry{{
		Name:           "smoke",
		Path:           initCloudFile,
		ExpectedPoints: initCloudPoints,
		Description:    "synthetic uniform cloud for the starter scenarios",
	}}})
	if err != nil {
		return fmt.Errorf("failed to generate dataset manifest: %w", err)
	}
	if err := os.WriteFile(dataset.ManifestFileName, []byte(manifest), 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	content := generateBenchfile()
	if err := os.WriteFile(benchfile.DefaultFileName, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	for _, target := range targets {
		absPath, _ := filepath.Abs(target)
		fmt.Printf("%s Created %s\n", successIcon, absPath)
	}
	fmt.Println()
	fmt.Println(SubtitleStyle.Render("Next steps:"))
	fmt.Println("  1. Run 'neargrid bench list' to see the starter scenarios")
	fmt.Println("  2. Run 'neargrid bench run smoke' for a first measurement")
	fmt.Println("  3. Edit benchfile.cue to point scenarios at your own datasets")

	return nil
}

// generateBenchfile builds the starter scenarios. Fields at their schema
// defaults are left unset so the generated file stays minimal; queries keep
// removed/offsets pinned to the defaults explicitly because the Go zero
// value for removed differs from the schema default.
func generateBenchfile() string {
	defaultQueries := benchfile.QuerySpec{
		Removed: true,
		OffsetX: benchfile.DefaultOffset,
		OffsetZ: benchfile.DefaultOffset,
	}

	smoke := defaultQueries
	smoke.Count = 2000

	bf := &benchfile.Benchfile{Scenarios: map[string]benchfile.Scenario{
		"smoke": {
			Description: "quick sanity run against the starter cloud",
			Dataset:     "smoke",
			Warmup:      benchfile.DefaultWarmup,
			Iterations:  3,
			Queries:     smoke,
		},
		"sweep": {
			Description: "full query sweep with the schema defaults",
			Dataset:     "smoke",
			Warmup:      benchfile.DefaultWarmup,
			Queries:     defaultQueries,
		},
	}}

	return benchfile.GenerateCUE(bf)
}
