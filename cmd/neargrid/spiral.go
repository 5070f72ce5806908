// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"neargrid/internal/bench"
	"neargrid/internal/config"
	"neargrid/internal/issue"
	"neargrid/pkg/benchfile"
	"neargrid/pkg/spiral"
)

var (
	// spiralShells is the per-axis cell radius of the generated table
	spiralShells int

	// spiralOutput overrides the default cache file location
	spiralOutput string
)

// spiralCmd represents the spiral command group
var spiralCmd = &cobra.Command{
	Use:   "spiral",
	Short: "Manage precomputed spiral search tables",
	Long: `Manage the precomputed spiral search tables used by nearest-neighbor
queries.

A spiral table orders grid cell offsets by minimum distance from the query
cell so a search can stop as soon as no closer point is possible. Tables
depend only on the shell radius, so they are generated once and cached;
benchmark runs pick them up from the cache directory automatically.

Examples:
  neargrid spiral gen
  neargrid spiral gen --shells 50 -o /tmp/spiral_50.json.gz
  neargrid spiral info ~/.cache/neargrid/spiral_100.json.gz`,
}

// spiralGenCmd generates and saves a table
var spiralGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a spiral search table",
	Long: `Generate a spiral search table and save it to the cache.

Benchmark runs generate missing tables on demand, so this command is only
needed to warm the cache ahead of time (for example before a profiling
session, to keep table generation out of the capture).

By default the table lands in the cache directory under the name the
benchmark runner looks for. An explicit --output writes elsewhere; runs
will not find it there.

Examples:
  neargrid spiral gen
  neargrid spiral gen --shells 50`,
	RunE: runSpiralGen,
}

// spiralInfoCmd inspects a saved table
var spiralInfoCmd = &cobra.Command{
	Use:   "info <path>",
	Short: "Inspect a saved spiral table",
	Long: `Inspect a saved spiral table file.

Examples:
  neargrid spiral info ~/.cache/neargrid/spiral_100.json.gz`,
	Args: cobra.ExactArgs(1),
	RunE: runSpiralInfo,
}

func init() {
	spiralCmd.AddCommand(spiralGenCmd)
	spiralCmd.AddCommand(spiralInfoCmd)

	spiralGenCmd.Flags().IntVar(&spiralShells, "shells", benchfile.DefaultSpiralShells, "per-axis cell radius of the table")
	spiralGenCmd.Flags().StringVarP(&spiralOutput, "output", "o", "", "output file (default: the cache directory)")
}

func runSpiralGen(cmd *cobra.Command, args []string) error {
	if spiralShells < 1 {
		err := fmt.Errorf("shells must be at least 1, got %d", spiralShells)
		return failCommand(cmd, newServiceError(err, 0, ""))
	}

	path := spiralOutput
	if path == "" {
		dir, err := spiralCacheDir()
		if err != nil {
			return failCommand(cmd, newServiceError(err, issue.ConfigLoadFailedId, ""))
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return failCommand(cmd, newServiceError(err, issue.PermissionDeniedId, ""))
		}
		path = filepath.Join(dir, bench.SpiralCacheName(spiralShells))
	}

	fmt.Printf("%s Generating spiral table (%d shells)\n", infoIcon, spiralShells)
	table := spiral.Generate(spiralShells)

	if err := table.Save(path); err != nil {
		return failCommand(cmd, newServiceError(err, issue.PermissionDeniedId, ""))
	}

	fmt.Printf("%s Spiral table written to %s\n", successIcon, path)
	fmt.Printf("%s %d canonical cells, %d shells\n", infoIcon, table.Len(), table.Shells())
	return nil
}

func runSpiralInfo(cmd *cobra.Command, args []string) error {
	path := args[0]

	table, err := spiral.Load(path)
	if err != nil {
		return failCommand(cmd, newServiceError(err, issue.SpiralCacheCorruptId, ""))
	}

	fmt.Println(TitleStyle.Render("Spiral Table"))
	fmt.Printf("%s Path:    %s\n", infoIcon, SubtitleStyle.Render(path))
	if fi, statErr := os.Stat(path); statErr == nil {
		fmt.Printf("%s Size:    %d bytes on disk\n", infoIcon, fi.Size())
	}
	fmt.Printf("%s Radius:  %d\n", infoIcon, table.Radius)
	fmt.Printf("%s Shells:  %d\n", infoIcon, table.Shells())
	fmt.Printf("%s Cells:   %d canonical entries\n", infoIcon, table.Len())
	return nil
}

// spiralCacheDir resolves the table cache directory the same way the
// benchmark runner does: the configured override when set, the per-user
// cache directory otherwise.
func spiralCacheDir() (string, error) {
	if dir := config.Get().CacheDir; dir != "" {
		return dir.String(), nil
	}
	return config.CacheDir()
}
