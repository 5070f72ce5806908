// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"neargrid/internal/bench"
	"neargrid/internal/config"
	"neargrid/pkg/geom"
	"neargrid/pkg/grid"
)

var (
	// queryBenchfile overrides benchfile discovery with an explicit path
	queryBenchfile string

	// queryScenario picks the scenario whose grid is queried
	queryScenario string
)

// queryCmd runs a single nearest-neighbor lookup
var queryCmd = &cobra.Command{
	Use:   "query <x> <y> <z>",
	Short: "Run a single nearest-neighbor query",
	Long: `Run one nearest-neighbor query against a scenario's grid.

The scenario's dataset is loaded and indexed exactly as 'bench run' would
index it, then the given point is queried once. A debugging aid: when a
benchmark result looks suspicious, this shows what the search actually
returns for a concrete point.

Examples:
  neargrid query 0.1 0.25 -0.3 --scenario smoke
  neargrid query 0 0 0 --scenario blade --benchfile ./perf/benchfile.cue`,
	Args: cobra.ExactArgs(3),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryScenario, "scenario", "", "scenario whose grid is queried")
	queryCmd.Flags().StringVar(&queryBenchfile, "benchfile", "", "path to the benchfile (default: ./benchfile.cue)")
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if queryScenario == "" {
		err := errors.New("pass --scenario to choose which grid to query")
		return failCommand(cmd, newServiceError(err, 0, ""))
	}

	var q geom.Point
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 32)
		if err != nil {
			return failCommand(cmd, newServiceError(
				fmt.Errorf("coordinate %q is not a number: %w", arg, err), 0, ""))
		}
		q[i] = float32(v)
	}

	bf, svcErr := loadBenchfile(queryBenchfile)
	if svcErr != nil {
		return failCommand(cmd, svcErr)
	}
	sc, svcErr := requireScenario(bf, queryScenario)
	if svcErr != nil {
		return failCommand(cmd, svcErr)
	}
	vertices, datasetName, svcErr := loadScenarioDataset(ctx, bf, sc)
	if svcErr != nil {
		return failCommand(cmd, svcErr)
	}

	cfg := config.Get()
	cacheDir := ""
	if dir, err := spiralCacheDir(); err == nil {
		cacheDir = dir
	}
	table := bench.SpiralTable(cacheDir, sc.EffectiveSpiralShells())

	buildStart := time.Now()
	g, err := grid.New(vertices, sc.EffectiveScale(cfg.Bench.DefaultScale), table)
	if err != nil {
		return failCommand(cmd, newServiceError(err, 0, ""))
	}
	buildTime := time.Since(buildStart)

	lookupStart := time.Now()
	idx, dist2, ok := g.NearestNeighbor(q)
	lookupTime := time.Since(lookupStart)

	fmt.Printf("%s Dataset: %s (%d points, built in %s)\n",
		infoIcon, datasetNameStyle.Render(datasetName), g.Len(), formatDuration(buildTime))
	fmt.Printf("%s Query:   (%g, %g, %g)\n", infoIcon, q[0], q[1], q[2])

	if !ok {
		err := errors.New("the grid returned no nearest neighbor")
		return failCommand(cmd, newServiceError(err, 0, ""))
	}

	p := g.Source(idx).Pos
	fmt.Printf("%s Nearest: point #%d at (%g, %g, %g), distance %g (lookup %s)\n",
		successIcon, idx, p[0], p[1], p[2],
		math.Sqrt(float64(dist2)), formatDuration(lookupTime))

	return nil
}
