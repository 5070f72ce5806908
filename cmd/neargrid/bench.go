// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"neargrid/internal/bench"
	"neargrid/internal/config"
	"neargrid/internal/dataset"
	"neargrid/internal/issue"
	"neargrid/internal/profile"
	"neargrid/internal/watch"
	"neargrid/pkg/benchfile"
	"neargrid/pkg/types"
)

var (
	// benchBenchfile overrides benchfile discovery with an explicit path
	benchBenchfile string

	// benchOutput overrides the reports directory from config
	benchOutput string

	// benchIterations overrides the scenario's measured iteration count
	benchIterations int

	// benchWarmup overrides the scenario's warmup iteration count
	benchWarmup int

	// benchWorkers overrides the scenario's query worker count
	benchWorkers int

	// benchCPUProfile captures a CPU profile of the run to the given file
	benchCPUProfile string

	// benchMemProfile captures a heap profile after the run to the given file
	benchMemProfile string

	// benchWatch re-runs the scenario when watched files change
	benchWatch bool

	// benchJSON emits the structured run record instead of the styled summary
	benchJSON bool

	// benchPlot renders timings.png with gnuplot after the run
	benchPlot bool

	// benchProfileChild marks a run spawned by 'profile sample' so it skips
	// the interactive follow-up hints
	benchProfileChild bool
)

// benchCmd represents the bench command group
var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run and compare macro benchmarks",
	Long: `Run and compare macro benchmarks defined in a benchfile.

Each scenario builds a uniform grid over its dataset and times the build,
query, and optional offset-query phases over several iterations. Results
are written as a report directory containing results.txt (Go benchmark
format) and run.json (the full structured record).

Examples:
  neargrid bench list
  neargrid bench run smoke
  neargrid bench run blade --iterations 10 --output /tmp/reports
  neargrid bench compare reports/old/results.txt reports/new/results.txt`,
}

// benchRunCmd executes one scenario
var benchRunCmd = &cobra.Command{
	Use:   "run <scenario>",
	Short: "Run a benchmark scenario",
	Long: `Run a single benchmark scenario from the benchfile.

The scenario's dataset is loaded, query points are sampled with the
scenario's seed, and every phase is timed over the configured iterations.
Flags override the corresponding scenario fields for this run only.

Arguments after -- are not interpreted; they are recorded verbatim in the
run metadata so external wrappers can tag runs:

  neargrid bench run smoke -- --tag pre-refactor

Examples:
  neargrid bench run smoke
  neargrid bench run blade --iterations 10 --warmup 2
  neargrid bench run blade --cpuprofile cpu.pprof
  neargrid bench run smoke --watch`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBenchRun,
}

// benchListCmd lists the scenarios a benchfile defines
var benchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scenarios in the benchfile",
	Long: `List every scenario the benchfile defines, with descriptions.

Examples:
  neargrid bench list
  neargrid bench list --benchfile ./perf/benchfile.cue`,
	RunE: runBenchList,
}

// benchCompareCmd compares two results.txt files
var benchCompareCmd = &cobra.Command{
	Use:   "compare <old> <new>",
	Short: "Compare two benchmark result files",
	Long: `Compare two results.txt files and report per-benchmark deltas.

Both files must be in Go benchmark format as written by 'bench run'.
Deltas come with a Mann-Whitney significance test; statistically
insignificant differences render as '~'.

Examples:
  neargrid bench compare reports/1712000000-aaaa/results.txt reports/1712009999-bbbb/results.txt`,
	Args: cobra.ExactArgs(2),
	RunE: runBenchCompare,
}

func init() {
	benchCmd.AddCommand(benchRunCmd)
	benchCmd.AddCommand(benchListCmd)
	benchCmd.AddCommand(benchCompareCmd)

	benchRunCmd.Flags().StringVar(&benchBenchfile, "benchfile", "", "path to the benchfile (default: ./benchfile.cue)")
	benchRunCmd.Flags().StringVarP(&benchOutput, "output", "o", "", "reports directory (default: reports_dir from config)")
	benchRunCmd.Flags().IntVar(&benchIterations, "iterations", 0, "override the scenario's measured iterations")
	benchRunCmd.Flags().IntVar(&benchWarmup, "warmup", 0, "override the scenario's warmup iterations")
	benchRunCmd.Flags().IntVar(&benchWorkers, "workers", 0, "override the scenario's query workers (0 = GOMAXPROCS)")
	benchRunCmd.Flags().StringVar(&benchCPUProfile, "cpuprofile", "", "write a CPU profile of the run to this file")
	benchRunCmd.Flags().StringVar(&benchMemProfile, "memprofile", "", "write a heap profile after the run to this file")
	benchRunCmd.Flags().BoolVar(&benchWatch, "watch", false, "re-run the scenario when watched files change")
	benchRunCmd.Flags().BoolVar(&benchJSON, "json", false, "print the run record as JSON instead of the styled summary")
	benchRunCmd.Flags().BoolVar(&benchPlot, "plot", false, "render timings.png with gnuplot after the run")
	benchRunCmd.Flags().BoolVar(&benchProfileChild, "profile-child", false, "")
	if err := benchRunCmd.Flags().MarkHidden("profile-child"); err != nil {
		panic(err)
	}

	benchListCmd.Flags().StringVar(&benchBenchfile, "benchfile", "", "path to the benchfile (default: ./benchfile.cue)")
}

// Style definitions for bench output
var (
	benchTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	benchNameStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true)

	benchValueStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	benchFasterStyle = lipgloss.NewStyle().
				Foreground(ColorSuccess)

	benchSlowerStyle = lipgloss.NewStyle().
				Foreground(ColorError)
)

func runBenchRun(cmd *cobra.Command, args []string) error {
	// Everything after -- is pass-through metadata, not arguments.
	passThrough := splitDashArgs(cmd, &args)
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one scenario name, got %d", len(args))
	}
	scenarioName := args[0]

	if !benchWatch {
		if svcErr := executeScenario(cmd.Context(), cmd, scenarioName, passThrough); svcErr != nil {
			return failCommand(cmd, svcErr)
		}
		return nil
	}

	return runBenchWatch(cmd, scenarioName, passThrough)
}

// runBenchWatch runs the scenario once, then re-runs it whenever watched
// files change, until the context is cancelled (Ctrl+C).
func runBenchWatch(cmd *cobra.Command, scenarioName string, passThrough []string) error {
	ctx := cmd.Context()

	// The first run also validates the benchfile and scenario name before
	// we commit to watching.
	bf, svcErr := loadBenchfile(benchBenchfile)
	if svcErr != nil {
		return failCommand(cmd, svcErr)
	}
	sc, svcErr := requireScenario(bf, scenarioName)
	if svcErr != nil {
		return failCommand(cmd, svcErr)
	}

	fmt.Printf("%s Watch mode: initial run of '%s'\n", VerboseHighlightStyle.Render("→"), scenarioName)
	if svcErr := executeScenario(ctx, cmd, scenarioName, passThrough); svcErr != nil {
		// In watch mode a failing run is not fatal: the next edit may fix it.
		fmt.Fprintf(os.Stderr, "%s Initial run failed: %s\n", warnIcon, formatErrorForDisplay(svcErr.Err, verbose))
		renderServiceError(os.Stderr, svcErr)
	}

	wc, err := watchConfigFor(bf, sc, func(ctx context.Context, changed []string) error {
		fmt.Printf("%s Detected %d change(s). Re-running '%s'...\n",
			VerboseHighlightStyle.Render("→"), len(changed), scenarioName)
		if verbose {
			fmt.Println(VerboseStyle.Render(fmt.Sprintf("  changed: %v", changed)))
		}
		if svcErr := executeScenario(ctx, cmd, scenarioName, passThrough); svcErr != nil {
			fmt.Fprintf(os.Stderr, "%s Run failed: %s\n", warnIcon, formatErrorForDisplay(svcErr.Err, verbose))
			renderServiceError(os.Stderr, svcErr)
		}
		fmt.Printf("\n%s Watching for changes...\n\n", VerboseHighlightStyle.Render("→"))
		return nil
	})
	if err != nil {
		return failCommand(cmd, newServiceError(err, 0, ""))
	}

	watcher, err := watch.New(wc)
	if err != nil {
		return failCommand(cmd, newServiceError(err, 0, ""))
	}

	fmt.Printf("\n%s Watching for changes (%v). Press Ctrl+C to stop.\n\n",
		VerboseHighlightStyle.Render("→"), wc.Patterns)
	if verbose {
		ignores := append(watch.DefaultIgnores(), wc.Ignore...)
		fmt.Println(VerboseStyle.Render(fmt.Sprintf("  ignoring: %v", ignores)))
	}
	return watcher.Run(ctx)
}

// watchConfigFor builds the watcher configuration for a scenario. A scenario
// with an explicit watch block uses it; otherwise the benchfile itself, the
// dataset manifests, and PLY files are watched.
func watchConfigFor(bf *benchfile.Benchfile, sc *benchfile.Scenario, onChange func(context.Context, []string) error) (watch.Config, error) {
	wc := watch.Config{
		BaseDir:  types.FilesystemPath(filepath.Dir(bf.FilePath.String())),
		OnChange: onChange,
	}

	if sc.Watch == nil {
		wc.Patterns = []string{
			filepath.Base(bf.FilePath.String()),
			dataset.ManifestFileName,
		}
		if sc.DatasetPath != "" {
			wc.Patterns = append(wc.Patterns, filepath.ToSlash(sc.DatasetPath))
		} else {
			wc.Patterns = append(wc.Patterns, "**/*.ply")
		}
		return wc, nil
	}

	debounce, err := sc.Watch.ParseDebounce()
	if err != nil {
		return watch.Config{}, err
	}
	wc.Patterns = sc.Watch.Patterns
	wc.Ignore = sc.Watch.Ignore
	wc.Debounce = debounce
	wc.ClearScreen = sc.Watch.ClearScreen
	return wc, nil
}

// executeScenario runs one scenario end to end: benchfile parse, dataset
// load, timed run (optionally under CPU/heap capture), report emission, and
// result rendering. Re-parsing per invocation keeps watch-mode re-runs
// current when the benchfile itself was the file that changed.
func executeScenario(ctx context.Context, cmd *cobra.Command, scenarioName string, passThrough []string) *ServiceError {
	bf, svcErr := loadBenchfile(benchBenchfile)
	if svcErr != nil {
		return svcErr
	}
	sc, svcErr := requireScenario(bf, scenarioName)
	if svcErr != nil {
		return svcErr
	}

	run := *sc
	applyBenchFlags(cmd, &run)

	vertices, datasetName, svcErr := loadScenarioDataset(ctx, bf, sc)
	if svcErr != nil {
		return svcErr
	}

	req := bench.Request{
		Name:        scenarioName,
		Scenario:    &run,
		DatasetName: datasetName,
		Vertices:    vertices,
		PassThrough: passThrough,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
	}

	runner := bench.New(config.Get())

	var res *bench.Result
	doRun := func() error {
		var runErr error
		res, runErr = runner.Run(ctx, req)
		return runErr
	}
	if benchMemProfile != "" {
		inner := doRun
		doRun = func() error { return profile.CaptureHeap(benchMemProfile, inner) }
	}
	if benchCPUProfile != "" {
		inner := doRun
		doRun = func() error { return profile.CaptureCPU(benchCPUProfile, inner) }
	}

	if err := doRun(); err != nil {
		return newServiceError(err, issueForRunError(err), "")
	}

	reportsDir := benchOutput
	if reportsDir == "" {
		reportsDir = config.Get().ReportsDir.String()
	}
	reportDir, err := bench.WriteReport(reportsDir, res)
	if err != nil {
		return newServiceError(err, issue.ReportWriteFailedId, "")
	}
	if _, _, err := profile.WriteTimings(reportDir, res); err != nil {
		return newServiceError(err, issue.ReportWriteFailedId, "")
	}

	if benchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return newServiceError(err, 0, "")
		}
	} else {
		renderRunResult(res, reportDir)
		renderProfileHints()
	}

	if benchPlot {
		if _, err := profile.RenderPlot(ctx, reportDir, os.Stdout, os.Stderr); err != nil {
			fmt.Fprintf(os.Stderr, "%s %s\n", warnIcon, formatErrorForDisplay(err, verbose))
		} else if !benchJSON {
			fmt.Printf("%s Plot written to %s\n", successIcon, filepath.Join(reportDir, profile.TimingsPlotFileName))
		}
	} else if !benchJSON && !benchProfileChild {
		fmt.Printf("%s Render the timings plot with: %s\n",
			infoIcon, CmdStyle.Render(profile.PlotInvocation(reportDir)))
	}

	return nil
}

// issueForRunError picks the issue catalog entry for a failed run.
func issueForRunError(err error) issue.Id {
	switch {
	case errors.Is(err, bench.ErrHookFailed):
		return issue.HookExecutionFailedId
	case errors.Is(err, bench.ErrInvalidRequest), errors.Is(err, bench.ErrQueryCount):
		return issue.BenchfileParseErrorId
	default:
		return 0
	}
}

// applyBenchFlags overlays explicitly-set run flags onto a scenario copy.
// Unset flags leave the benchfile values (and their config fallbacks) alone.
func applyBenchFlags(cmd *cobra.Command, sc *benchfile.Scenario) {
	if cmd.Flags().Changed("iterations") {
		sc.Iterations = benchIterations
	}
	if cmd.Flags().Changed("warmup") {
		sc.Warmup = benchWarmup
	}
	if cmd.Flags().Changed("workers") {
		sc.Workers = benchWorkers
	}
}

// renderRunResult prints the styled per-phase summary for a finished run.
func renderRunResult(res *bench.Result, reportDir string) {
	fmt.Println(benchTitleStyle.Render("Scenario " + res.Scenario))

	fmt.Printf("%s Dataset:    %s (%d points)\n", infoIcon, benchNameStyle.Render(res.Dataset), res.Points)
	fmt.Printf("%s Run:        %s\n", infoIcon, SubtitleStyle.Render(res.RunID))
	fmt.Printf("%s Iterations: %d measured, %d warmup\n", infoIcon, res.Iterations, res.Warmup)
	fmt.Printf("%s Grid:       %d cells (%d occupied), max bucket %d, mean bucket %.2f\n",
		infoIcon, res.Grid.Cells, res.Grid.OccupiedCells, res.Grid.MaxBucket, res.Grid.MeanBucket)
	if len(res.PassThrough) > 0 {
		fmt.Printf("%s Tags:       %v\n", infoIcon, res.PassThrough)
	}
	fmt.Println()

	for _, ph := range res.Phases {
		line := fmt.Sprintf("  %-12s mean %s ±%s  p50 %s  p99 %s",
			ph.Phase,
			benchValueStyle.Render(formatDuration(ph.Stats.Mean)),
			formatDuration(ph.Stats.StdDev),
			formatDuration(ph.Stats.P50),
			formatDuration(ph.Stats.P99))
		if ph.Stats.PerQuery > 0 {
			line += fmt.Sprintf("  (%s/query over %d queries)",
				benchValueStyle.Render(formatDuration(ph.Stats.PerQuery)), ph.Queries)
		}
		fmt.Println(line)
	}
	fmt.Println()

	fmt.Printf("%s Report written to %s\n", successIcon, reportDir)
}

// renderProfileHints prints the pprof follow-up commands when the run
// captured a profile.
func renderProfileHints() {
	for _, path := range []string{benchCPUProfile, benchMemProfile} {
		if path == "" {
			continue
		}
		fmt.Printf("%s Profile written to %s\n", successIcon, path)
		for _, hint := range profile.PprofHints(path) {
			fmt.Printf("    %s\n", CmdStyle.Render(hint))
		}
	}
}

// formatDuration renders a duration with enough precision for benchmark
// deltas without drowning the table in digits.
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Second:
		return d.Round(time.Millisecond).String()
	case d >= time.Millisecond:
		return d.Round(10 * time.Microsecond).String()
	case d >= time.Microsecond:
		return d.Round(10 * time.Nanosecond).String()
	default:
		return d.String()
	}
}

func runBenchList(cmd *cobra.Command, args []string) error {
	bf, svcErr := loadBenchfile(benchBenchfile)
	if svcErr != nil {
		return failCommand(cmd, svcErr)
	}

	names := bf.List()

	fmt.Println(benchTitleStyle.Render("Scenarios"))
	fmt.Printf("%s %s\n", infoIcon, SubtitleStyle.Render(bf.FilePath.String()))
	fmt.Println()

	if len(names) == 0 {
		fmt.Printf("  %s\n", SubtitleStyle.Render("(no scenarios defined)"))
		return nil
	}

	width := 0
	for _, name := range names {
		if len(name) > width {
			width = len(name)
		}
	}

	for _, name := range names {
		sc := bf.Scenarios[name]
		desc := sc.Description.String()
		if desc == "" {
			desc = SubtitleStyle.Render("(no description)")
		}
		// Pad before styling: ANSI escapes would distort %-*s alignment.
		padded := fmt.Sprintf("%-*s", width, name)
		fmt.Printf("  %s  %s\n", benchNameStyle.Render(padded), desc)
	}

	return nil
}

func runBenchCompare(cmd *cobra.Command, args []string) error {
	cmpRes, err := bench.Compare(args[0], args[1])
	if err != nil {
		return failCommand(cmd, newServiceError(err, issue.CompareInputInvalidId, ""))
	}

	fmt.Println(benchTitleStyle.Render("Benchmark Comparison"))
	fmt.Printf("%s old: %s\n", infoIcon, SubtitleStyle.Render(cmpRes.OldPath))
	fmt.Printf("%s new: %s\n", infoIcon, SubtitleStyle.Render(cmpRes.NewPath))
	fmt.Println()

	nameWidth := len("benchmark")
	for _, row := range cmpRes.Rows {
		if len(row.Name) > nameWidth {
			nameWidth = len(row.Name)
		}
	}

	fmt.Printf("  %-*s  %12s  %12s  %10s  %8s\n", nameWidth, "benchmark", "old", "new", "delta", "p")
	for _, row := range cmpRes.Rows {
		// Pad the delta before styling so ANSI escapes don't distort %10s.
		delta := styleDelta(fmt.Sprintf("%10s", row.Delta))
		fmt.Printf("  %-*s  %12s  %12s  %s  %8.3f\n",
			nameWidth, row.Name,
			formatDuration(time.Duration(row.OldCenter)),
			formatDuration(time.Duration(row.NewCenter)),
			delta,
			row.P)
	}

	for _, name := range cmpRes.OldOnly {
		fmt.Printf("  %s %s only in old file\n", warnIcon, name)
	}
	for _, name := range cmpRes.NewOnly {
		fmt.Printf("  %s %s only in new file\n", warnIcon, name)
	}

	return nil
}

// styleDelta colors a benchmath delta: negative deltas are faster (green),
// positive are slower (red), and '~' means statistically indistinguishable.
// The input may carry padding; only the trimmed value is classified.
func styleDelta(delta string) string {
	switch trimmed := strings.TrimSpace(delta); {
	case trimmed == "~":
		return SubtitleStyle.Render(delta)
	case strings.HasPrefix(trimmed, "-"):
		return benchFasterStyle.Render(delta)
	default:
		return benchSlowerStyle.Render(delta)
	}
}
