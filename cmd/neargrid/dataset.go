// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"neargrid/internal/config"
	"neargrid/internal/dataset"
	"neargrid/internal/discovery"
	"neargrid/internal/issue"
	"neargrid/pkg/geom"
	"neargrid/pkg/types"
)

var (
	// datasetPoints is the vertex count for generated clouds
	datasetPoints int

	// datasetSeed feeds the generation PRNG
	datasetSeed int64

	// datasetOutput is where the generated PLY file is written
	datasetOutput string
)

// datasetCmd represents the dataset command group
var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "List, verify, and generate point cloud datasets",
	Long: `List, verify, and generate the point cloud datasets scenarios run
against.

Datasets are declared in datasets.toml manifests. Manifests are discovered
in the working directory, the neargrid config directory, and any configured
search paths, in that order; earlier manifests shadow later ones.

Examples:
  neargrid dataset list
  neargrid dataset verify dragon
  neargrid dataset gen --points 100000 -o clouds/uniform.ply`,
}

// datasetListCmd lists datasets across all discovered manifests
var datasetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List datasets from discovered manifests",
	Long: `List every dataset declared across discovered manifests.

Examples:
  neargrid dataset list`,
	RunE: runDatasetList,
}

// datasetVerifyCmd checks a dataset's files against its manifest entry
var datasetVerifyCmd = &cobra.Command{
	Use:   "verify <name>",
	Short: "Verify a dataset against its manifest entry",
	Long: `Load the named dataset and check it against its manifest entry.

Every file the entry's path matches is parsed; the command reports the
total point count, the bounding box, and whether the count matches the
expected_points pin (when the entry has one). A pinned mismatch fails
the command.

Examples:
  neargrid dataset verify dragon`,
	Args: cobra.ExactArgs(1),
	RunE: runDatasetVerify,
}

// datasetGenCmd generates a synthetic point cloud
var datasetGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a synthetic point cloud",
	Long: `Generate a uniform-random point cloud and write it as ASCII PLY.

Points are sampled uniformly inside the unit cube. The same seed always
produces the same cloud, so generated datasets are reproducible across
machines and safe to pin with expected_points.

Examples:
  neargrid dataset gen --points 100000 -o clouds/uniform.ply
  neargrid dataset gen --points 1000000 --seed 7 -o clouds/uniform1m.ply`,
	RunE: runDatasetGen,
}

func init() {
	datasetCmd.AddCommand(datasetListCmd)
	datasetCmd.AddCommand(datasetVerifyCmd)
	datasetCmd.AddCommand(datasetGenCmd)

	datasetGenCmd.Flags().IntVar(&datasetPoints, "points", 100000, "number of points to generate")
	datasetGenCmd.Flags().Int64Var(&datasetSeed, "seed", 42, "generation seed")
	datasetGenCmd.Flags().StringVarP(&datasetOutput, "output", "o", "generated.ply", "output PLY file")
}

// datasetNameStyle highlights dataset names in listings
var datasetNameStyle = lipgloss.NewStyle().
	Foreground(ColorHighlight).
	Bold(true)

func runDatasetList(cmd *cobra.Command, args []string) error {
	d := discovery.New(config.Get())
	datasets, diags := d.AllDatasets()
	printDiagnostics(os.Stderr, diags)

	fmt.Println(TitleStyle.Render("Datasets"))
	fmt.Println()

	if len(datasets) == 0 {
		fmt.Printf("  %s\n", SubtitleStyle.Render("(no datasets declared)"))
		fmt.Printf("\n%s Create a starter manifest with: %s\n", infoIcon, CmdStyle.Render("neargrid init"))
		return nil
	}

	width := 0
	for _, info := range datasets {
		if len(info.Entry.Name) > width {
			width = len(info.Entry.Name)
		}
	}

	var lastManifest string
	for _, info := range datasets {
		if info.ManifestPath != lastManifest {
			if lastManifest != "" {
				fmt.Println()
			}
			fmt.Printf("%s %s\n", infoIcon,
				SubtitleStyle.Render(fmt.Sprintf("%s (%s)", info.ManifestPath, info.Source)))
			lastManifest = info.ManifestPath
		}

		pin := SubtitleStyle.Render("unpinned")
		if info.Entry.ExpectedPoints > 0 {
			pin = fmt.Sprintf("%d points", info.Entry.ExpectedPoints)
		}
		// Pad before styling: ANSI escapes would distort %-*s alignment.
		padded := fmt.Sprintf("%-*s", width, info.Entry.Name)
		line := fmt.Sprintf("  %s  %-16s", datasetNameStyle.Render(padded), pin)
		if info.Entry.Description != "" {
			line += "  " + info.Entry.Description.String()
		}
		fmt.Println(line)
	}

	return nil
}

func runDatasetVerify(cmd *cobra.Command, args []string) error {
	name := args[0]

	d := discovery.New(config.Get())
	info, diags := d.LookupDataset(name)
	printDiagnostics(os.Stderr, diags)
	if info == nil {
		err := &dataset.NotFoundError{Name: name}
		return failCommand(cmd, newServiceError(err, issue.DatasetNotFoundId, ""))
	}

	report, err := dataset.VerifyEntry(cmd.Context(), &info.Entry, info.BaseDir)
	if err != nil {
		return failCommand(cmd, newServiceError(err, plyIssueFor(err), ""))
	}

	fmt.Println(TitleStyle.Render("Dataset " + name))
	fmt.Printf("%s Manifest: %s\n", infoIcon, SubtitleStyle.Render(info.ManifestPath))
	for _, file := range report.Files {
		fmt.Printf("%s File:     %s\n", infoIcon, file)
	}
	fmt.Printf("%s Points:   %d\n", infoIcon, report.Points)
	if report.Points > 0 {
		fmt.Printf("%s Bounds:   min %v, widths %.3f × %.3f × %.3f\n",
			infoIcon, report.BBox.Min, report.BBox.WidthX, report.BBox.WidthY, report.BBox.WidthZ)
	}

	switch {
	case report.ExpectedPoints == 0:
		fmt.Printf("%s No expected_points pin in the manifest entry\n", warnIcon)
	case report.PointsMatch:
		fmt.Printf("%s Point count matches the manifest pin (%d)\n", successIcon, report.ExpectedPoints)
	default:
		mismatch := &dataset.PointCountError{
			Name: name,
			Want: report.ExpectedPoints,
			Got:  int64(report.Points),
		}
		return failCommand(cmd, newServiceError(mismatch, issue.DatasetVerifyFailedId, ""))
	}

	return nil
}

func runDatasetGen(cmd *cobra.Command, args []string) error {
	spec := dataset.GenSpec{
		Points: datasetPoints,
		Seed:   datasetSeed,
		Min:    geom.Point{0, 0, 0},
		Max:    geom.Point{1, 1, 1},
	}

	if dir := filepath.Dir(datasetOutput); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return failCommand(cmd, newServiceError(err, issue.PermissionDeniedId, ""))
		}
	}
	if err := dataset.GenerateFile(datasetOutput, spec); err != nil {
		return failCommand(cmd, newServiceError(err, 0, ""))
	}

	fmt.Printf("%s Generated %d points to %s\n", successIcon, datasetPoints, datasetOutput)

	// A ready-to-paste manifest entry saves the round trip through the
	// datasets.toml syntax docs.
	name := strings.TrimSuffix(filepath.Base(datasetOutput), filepath.Ext(datasetOutput))
	snippet, err := dataset.GenerateTOML(&dataset.Manifest{Datasets: []dataset.Entry{{
		Name:           name,
		Path:           datasetOutput,
		ExpectedPoints: int64(datasetPoints),
		Description:    types.DescriptionText(fmt.Sprintf("synthetic uniform cloud (seed %d)", datasetSeed)),
	}}})
	if err != nil {
		return nil
	}
	fmt.Printf("\n%s Manifest entry for %s:\n\n", infoIcon, dataset.ManifestFileName)
	for _, line := range strings.Split(strings.TrimRight(snippet, "\n"), "\n") {
		// Skip the manifest usage header; only the entry itself is pasteable.
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}
		fmt.Printf("  %s\n", CmdStyle.Render(line))
	}
	return nil
}
