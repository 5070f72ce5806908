// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"neargrid/internal/bench"
	"neargrid/internal/config"
	"neargrid/internal/issue"
	"neargrid/internal/profile"
)

var (
	// profileBenchfile overrides benchfile discovery with an explicit path
	profileBenchfile string

	// flameOutput is the flamegraph SVG output path
	flameOutput string

	// sampleOutput is the directory the system sampler writes into
	sampleOutput string
)

// profileCmd represents the profile command group
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Profile a benchmark scenario",
	Long: `Profile a benchmark scenario.

'cpu' and 'heap' use the Go runtime's built-in pprof capture and need no
external tools. 'flame' renders the CPU capture as an SVG flamegraph via
'go tool pprof'. 'sample' hands the whole run to the operating system's
sampler (perf on Linux, sample on macOS).

Examples:
  neargrid profile cpu smoke
  neargrid profile heap blade
  neargrid profile flame smoke --output /tmp/flame.svg
  neargrid profile sample blade -- --call-graph dwarf`,
}

// profileCPUCmd captures a CPU profile of a scenario run
var profileCPUCmd = &cobra.Command{
	Use:   "cpu <scenario>",
	Short: "Run a scenario under the CPU profiler",
	Long: `Run a scenario with runtime CPU profiling enabled.

The profile covers every phase of every iteration and lands in the run's
report directory as cpu.pprof, next to results.txt and run.json.

Examples:
  neargrid profile cpu smoke`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileCPU,
}

// profileHeapCmd captures a heap profile after a scenario run
var profileHeapCmd = &cobra.Command{
	Use:   "heap <scenario>",
	Short: "Run a scenario and capture a heap profile",
	Long: `Run a scenario and capture a heap profile when it finishes.

The capture runs after a forced GC, so it reflects memory the grid and
result buffers retain rather than transient allocation noise. The profile
lands in the run's report directory as heap.pprof.

Examples:
  neargrid profile heap blade`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileHeap,
}

// profileFlameCmd renders a flamegraph from a profiled run
var profileFlameCmd = &cobra.Command{
	Use:   "flame <scenario>",
	Short: "Run a scenario and render a CPU flamegraph",
	Long: `Run a scenario under the CPU profiler and render the capture as an
SVG flamegraph using 'go tool pprof -svg'.

Arguments after -- are forwarded to pprof:

  neargrid profile flame smoke -- -nodecount 80

Examples:
  neargrid profile flame smoke
  neargrid profile flame blade --output /tmp/blade.svg`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProfileFlame,
}

// profileSampleCmd runs a scenario under the OS sampler
var profileSampleCmd = &cobra.Command{
	Use:   "sample <scenario>",
	Short: "Run a scenario under the system sampler",
	Long: `Run a scenario under the operating system's sampling profiler.

On Linux this wraps the run in 'perf record -g'; on macOS it launches the
run and attaches 'sample' to it (root required). Arguments after -- are
forwarded to the sampler:

  neargrid profile sample blade -- --call-graph dwarf

Examples:
  neargrid profile sample smoke
  sudo neargrid profile sample smoke   # macOS`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProfileSample,
}

func init() {
	profileCmd.AddCommand(profileCPUCmd)
	profileCmd.AddCommand(profileHeapCmd)
	profileCmd.AddCommand(profileFlameCmd)
	profileCmd.AddCommand(profileSampleCmd)

	profileCmd.PersistentFlags().StringVar(&profileBenchfile, "benchfile", "", "path to the benchfile (default: ./benchfile.cue)")
	profileFlameCmd.Flags().StringVarP(&flameOutput, "output", "o", "", "flamegraph output path (default: <report dir>/"+profile.DefaultFlamegraphFile+")")
	profileSampleCmd.Flags().StringVarP(&sampleOutput, "output", "o", "", "directory for the sampler output (default: reports_dir from config)")
}

// runScenarioForProfile runs one scenario with the run call wrapped by the
// given capture function, then writes the standard report. The returned
// report directory is where capture artifacts should be moved.
func runScenarioForProfile(ctx context.Context, scenarioName string, passThrough []string, wrap func(func() error) error) (*bench.Result, string, *ServiceError) {
	bf, svcErr := loadBenchfile(profileBenchfile)
	if svcErr != nil {
		return nil, "", svcErr
	}
	sc, svcErr := requireScenario(bf, scenarioName)
	if svcErr != nil {
		return nil, "", svcErr
	}
	vertices, datasetName, svcErr := loadScenarioDataset(ctx, bf, sc)
	if svcErr != nil {
		return nil, "", svcErr
	}

	req := bench.Request{
		Name:        scenarioName,
		Scenario:    sc,
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
	if wrap != nil {
		inner := doRun
		doRun = func() error { return wrap(inner) }
	}

	if err := doRun(); err != nil {
		return nil, "", newServiceError(err, issueForRunError(err), "")
	}

	reportsDir := config.Get().ReportsDir.String()
	reportDir, err := bench.WriteReport(reportsDir, res)
	if err != nil {
		return nil, "", newServiceError(err, issue.ReportWriteFailedId, "")
	}
	if _, _, err := profile.WriteTimings(reportDir, res); err != nil {
		return nil, "", newServiceError(err, issue.ReportWriteFailedId, "")
	}

	return res, reportDir, nil
}

// capturedRun runs a scenario with a pprof capture writing to a temporary
// file next to the final report tree, then moves the capture into the run's
// report directory under fileName. Capture and report stay on the same
// filesystem so the final placement is a plain rename.
func capturedRun(ctx context.Context, scenarioName, fileName string, passThrough []string, capture func(path string, fn func() error) error) (*bench.Result, string, *ServiceError) {
	reportsDir := config.Get().ReportsDir.String()
	if err := os.MkdirAll(reportsDir, 0o755); err != nil {
		return nil, "", newServiceError(fmt.Errorf("create reports directory: %w", err), issue.ReportWriteFailedId, "")
	}
	tmpProfile := filepath.Join(reportsDir, fmt.Sprintf(".%s.%d.tmp", fileName, os.Getpid()))

	res, reportDir, svcErr := runScenarioForProfile(ctx, scenarioName, passThrough, func(run func() error) error {
		return capture(tmpProfile, run)
	})
	if svcErr != nil {
		if rmErr := os.Remove(tmpProfile); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "%s remove partial profile %s: %v\n", warnIcon, tmpProfile, rmErr)
		}
		return nil, "", svcErr
	}

	dst := filepath.Join(reportDir, fileName)
	if err := os.Rename(tmpProfile, dst); err != nil {
		return nil, "", newServiceError(fmt.Errorf("move profile into report directory: %w", err), issue.ReportWriteFailedId, "")
	}

	return res, reportDir, nil
}

func runProfileCPU(cmd *cobra.Command, args []string) error {
	res, reportDir, svcErr := capturedRun(cmd.Context(), args[0], profile.CPUProfileFileName, nil, profile.CaptureCPU)
	if svcErr != nil {
		return failCommand(cmd, svcErr)
	}

	renderRunResult(res, reportDir)
	renderCaptureHints(filepath.Join(reportDir, profile.CPUProfileFileName))
	return nil
}

func runProfileHeap(cmd *cobra.Command, args []string) error {
	res, reportDir, svcErr := capturedRun(cmd.Context(), args[0], profile.HeapProfileFileName, nil, profile.CaptureHeap)
	if svcErr != nil {
		return failCommand(cmd, svcErr)
	}

	renderRunResult(res, reportDir)
	renderCaptureHints(filepath.Join(reportDir, profile.HeapProfileFileName))
	return nil
}

// renderCaptureHints prints the profile location and its pprof follow-ups.
func renderCaptureHints(profilePath string) {
	fmt.Printf("%s Profile written to %s\n", successIcon, profilePath)
	for _, hint := range profile.PprofHints(profilePath) {
		fmt.Printf("    %s\n", CmdStyle.Render(hint))
	}
}

func runProfileFlame(cmd *cobra.Command, args []string) error {
	passThrough := splitDashArgs(cmd, &args)
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one scenario name, got %d", len(args))
	}

	ctx := cmd.Context()
	res, reportDir, svcErr := capturedRun(ctx, args[0], profile.CPUProfileFileName, nil, profile.CaptureCPU)
	if svcErr != nil {
		return failCommand(cmd, svcErr)
	}

	renderRunResult(res, reportDir)

	svgPath, err := profile.Flamegraph(ctx, profile.FlamegraphOptions{
		ProfilePath: filepath.Join(reportDir, profile.CPUProfileFileName),
		OutputPath:  flameOutput,
		PprofBinary: config.Get().Profile.PprofBinary.String(),
		PassThrough: passThrough,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
	})
	if err != nil {
		return failCommand(cmd, newServiceError(err, issue.ProfileToolNotFoundId, ""))
	}

	fmt.Printf("%s Flamegraph written to %s\n", successIcon, svgPath)
	return nil
}

func runProfileSample(cmd *cobra.Command, args []string) error {
	passThrough := splitDashArgs(cmd, &args)
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one scenario name, got %d", len(args))
	}
	scenarioName := args[0]

	// The scenario still has to exist before we hand the run to the sampler;
	// failing here beats failing inside the wrapped child process.
	bf, svcErr := loadBenchfile(profileBenchfile)
	if svcErr != nil {
		return failCommand(cmd, svcErr)
	}
	if _, svcErr := requireScenario(bf, scenarioName); svcErr != nil {
		return failCommand(cmd, svcErr)
	}

	outDir := sampleOutput
	if outDir == "" {
		outDir = config.Get().ReportsDir.String()
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return failCommand(cmd, newServiceError(fmt.Errorf("create sampler output directory: %w", err), issue.ReportWriteFailedId, ""))
	}

	exe, err := os.Executable()
	if err != nil {
		return failCommand(cmd, newServiceError(fmt.Errorf("resolve own executable for sampler target: %w", err), 0, ""))
	}
	target := []string{exe, "bench", "run", scenarioName, "--profile-child"}
	if profileBenchfile != "" {
		target = append(target, "--benchfile", profileBenchfile)
	}

	plan, err := profile.PlanSampler(config.Get().Profile.Sampler, outDir, target, passThrough)
	if err != nil {
		return failCommand(cmd, newServiceError(err, sampleIssueFor(err), ""))
	}

	fmt.Printf("%s Sampling via %s\n", infoIcon, CmdStyle.Render(plan.Tool))
	if err := plan.Run(cmd.Context(), os.Stdout, os.Stderr); err != nil {
		return failCommand(cmd, newServiceError(err, 0, ""))
	}

	fmt.Printf("%s Sampler output written to %s\n", successIcon, plan.OutputFile)
	for _, note := range plan.Notes {
		fmt.Printf("%s %s\n", infoIcon, note)
	}
	return nil
}

// sampleIssueFor maps sampler planning failures onto the issue catalog.
func sampleIssueFor(err error) issue.Id {
	switch {
	case errors.Is(err, profile.ErrUnsupportedPlatform):
		return issue.SamplerNotSupportedId
	case errors.Is(err, profile.ErrNeedsRoot):
		return issue.SamplerPrivilegesId
	default:
		return issue.ProfileToolNotFoundId
	}
}

// splitDashArgs removes everything after -- from args and returns it.
func splitDashArgs(cmd *cobra.Command, args *[]string) []string {
	at := cmd.ArgsLenAtDash()
	if at < 0 {
		return nil
	}
	passThrough := (*args)[at:]
	*args = (*args)[:at]
	return passThrough
}
