// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"neargrid/internal/config"
	"neargrid/internal/dataset"
	"neargrid/internal/discovery"
	"neargrid/internal/issue"
	"neargrid/pkg/grid"
	"neargrid/pkg/ply"
)

var (
	// indexBenchfile overrides benchfile discovery with an explicit path
	indexBenchfile string

	// indexDataset indexes a manifest dataset directly instead of a scenario
	indexDataset string

	// indexJSON emits the stats record instead of the styled summary
	indexJSON bool
)

// indexCmd represents the index command group
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Inspect the grid index",
	Long: `Inspect the uniform grid index without running a benchmark.

Examples:
  neargrid index stats smoke
  neargrid index stats --dataset dragon`,
}

// indexStatsCmd builds a grid once and prints its shape and occupancy
var indexStatsCmd = &cobra.Command{
	Use:   "stats [scenario]",
	Short: "Build a grid and print its statistics",
	Long: `Build the grid once and print its shape and occupancy.

Given a scenario name, the grid is built exactly as 'bench run' would
build it (the scenario's dataset and scale). With --dataset, a manifest
dataset is indexed directly using the configured default scale. Useful
for judging bucket skew before committing to a long benchmark run.

Examples:
  neargrid index stats smoke
  neargrid index stats --dataset dragon
  neargrid index stats blade --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndexStats,
}

func init() {
	indexCmd.AddCommand(indexStatsCmd)

	indexStatsCmd.Flags().StringVar(&indexBenchfile, "benchfile", "", "path to the benchfile (default: ./benchfile.cue)")
	indexStatsCmd.Flags().StringVar(&indexDataset, "dataset", "", "index a manifest dataset instead of a scenario")
	indexStatsCmd.Flags().BoolVar(&indexJSON, "json", false, "print the stats record as JSON instead of the styled summary")
}

func runIndexStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Get()

	var (
		vertices []ply.Vertex
		label    string
		scale    float64
	)

	switch {
	case len(args) == 1 && indexDataset == "":
		bf, svcErr := loadBenchfile(indexBenchfile)
		if svcErr != nil {
			return failCommand(cmd, svcErr)
		}
		sc, svcErr := requireScenario(bf, args[0])
		if svcErr != nil {
			return failCommand(cmd, svcErr)
		}
		var datasetName string
		vertices, datasetName, svcErr = loadScenarioDataset(ctx, bf, sc)
		if svcErr != nil {
			return failCommand(cmd, svcErr)
		}
		label = fmt.Sprintf("%s (scenario %s)", datasetName, args[0])
		scale = sc.EffectiveScale(cfg.Bench.DefaultScale)

	case len(args) == 0 && indexDataset != "":
		d := discovery.New(cfg)
		info, diags := d.LookupDataset(indexDataset)
		printDiagnostics(os.Stderr, diags)
		if info == nil {
			err := &dataset.NotFoundError{Name: indexDataset}
			return failCommand(cmd, newServiceError(err, issue.DatasetNotFoundId, ""))
		}
		verts, err := dataset.LoadEntry(ctx, &info.Entry, info.BaseDir)
		if err != nil {
			return failCommand(cmd, newServiceError(err, plyIssueFor(err), ""))
		}
		vertices = verts
		label = indexDataset
		scale = cfg.Bench.DefaultScale

	default:
		err := errors.New("name a scenario or pass --dataset, not both")
		return failCommand(cmd, newServiceError(err, 0, ""))
	}

	start := time.Now()
	// Stats never touch the search path, so the grid can skip the spiral
	// table entirely.
	g, err := grid.New(vertices, scale, nil)
	if err != nil {
		return failCommand(cmd, newServiceError(err, 0, ""))
	}
	buildTime := time.Since(start)
	stats := g.ComputeStats()

	if indexJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(stats); err != nil {
			return failCommand(cmd, newServiceError(err, 0, ""))
		}
		return nil
	}

	fmt.Println(TitleStyle.Render("Grid Statistics"))
	fmt.Printf("%s Dataset: %s\n", infoIcon, datasetNameStyle.Render(label))
	fmt.Printf("%s Scale:   %.2f\n", infoIcon, scale)
	fmt.Printf("%s Build:   %s\n", infoIcon, formatDuration(buildTime))
	fmt.Println()

	occupancy := 0.0
	if stats.Cells > 0 {
		occupancy = float64(stats.OccupiedCells) / float64(stats.Cells) * 100
	}
	fmt.Printf("  %-12s %d\n", "points", stats.Points)
	fmt.Printf("  %-12s %d (%d per axis)\n", "cells", stats.Cells, stats.Dims.X)
	fmt.Printf("  %-12s %d (%.1f%%)\n", "occupied", stats.OccupiedCells, occupancy)
	fmt.Printf("  %-12s %g world units\n", "cell width", stats.CellWidth)
	fmt.Printf("  %-12s %d\n", "max bucket", stats.MaxBucket)
	fmt.Printf("  %-12s %.2f\n", "mean bucket", stats.MeanBucket)

	return nil
}
