// SPDX-License-Identifier: MPL-2.0

package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"

	"neargrid/internal/config"
	"neargrid/internal/issue"
	"neargrid/pkg/platform"
)

// Sampler output file names inside a run's report directory.
const (
	// PerfDataFileName is where perf record writes its samples.
	PerfDataFileName = "perf.data"
	// SampleFileName is where macOS sample writes its call stacks.
	SampleFileName = "sample.txt"
)

// sampleDuration caps how long sample(1) observes the target, in seconds.
// -mayDie tolerates the target finishing sooner.
const sampleDuration = "30"

var (
	// ErrUnsupportedPlatform indicates a GOOS with no known sampling
	// profiler.
	ErrUnsupportedPlatform = errors.New("no sampling profiler for this platform")

	// ErrNeedsRoot indicates a sampler the OS only allows with elevated
	// privileges.
	ErrNeedsRoot = errors.New("sampling requires elevated privileges")
)

// Test seams; production values are the real platform.
var (
	currentGOOS = runtime.GOOS
	geteuid     = os.Geteuid
	lookPath    = exec.LookPath
)

// SamplerPlan is a resolved sampler invocation: which tool runs, how it
// observes the benchmark process, and what to tell the user afterwards.
type SamplerPlan struct {
	// Engine is the resolved engine, never auto.
	Engine config.SamplerEngine
	// Tool is the sampler executable path.
	Tool string
	// OutputFile is where the sampler writes its data.
	OutputFile string
	// Target is the benchmark command being profiled.
	Target []string
	// PassThrough args are forwarded into the sampler invocation.
	PassThrough []string
	// Notes are printed after a successful run.
	Notes []string
}

// PlanSampler resolves the sampling profiler for engine on this platform.
// Auto picks perf on Linux and sample on macOS; an explicit engine skips
// platform detection. Target is the benchmark command to profile, outDir
// receives the sampler output.
func PlanSampler(engine config.SamplerEngine, outDir string, target, passThrough []string) (*SamplerPlan, error) {
	if engine == "" || engine == config.SamplerAuto {
		switch currentGOOS {
		case platform.Linux:
			engine = config.SamplerPerf
		case platform.Darwin:
			engine = config.SamplerSample
		default:
			return nil, fmt.Errorf("%s: %w", currentGOOS, ErrUnsupportedPlatform)
		}
	}

	switch engine {
	case config.SamplerPerf:
		return planPerf(outDir, target, passThrough)
	case config.SamplerSample:
		return planSample(outDir, target, passThrough)
	default:
		return nil, &config.InvalidSamplerEngineError{Value: engine}
	}
}

func planPerf(outDir string, target, passThrough []string) (*SamplerPlan, error) {
	tool, err := lookPath("perf")
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("locate sampling profiler").
			WithResource("perf").
			WithSuggestions(
				"install perf: apt install linux-tools-common linux-tools-generic",
				"or select a different engine via profile.sampler in config.cue",
			).
			Wrap(err).
			Build()
	}

	out := filepath.Join(outDir, PerfDataFileName)
	return &SamplerPlan{
		Engine:      config.SamplerPerf,
		Tool:        tool,
		OutputFile:  out,
		Target:      target,
		PassThrough: passThrough,
		Notes: []string{
			"inspect with: perf report -i " + out,
			"perf may show mangled names for Go closures and generic functions; the samples are still attributed correctly",
		},
	}, nil
}

func planSample(outDir string, target, passThrough []string) (*SamplerPlan, error) {
	// macOS denies cross-process sampling to unprivileged users.
	if geteuid() != 0 {
		return nil, issue.NewErrorContext().
			WithOperation("run sampling profiler").
			WithResource("sample").
			WithSuggestion("re-run with elevated privileges: sudo neargrid profile sample ...").
			Wrap(ErrNeedsRoot).
			Build()
	}
	tool, err := lookPath("sample")
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("locate sampling profiler").
			WithResource("sample").
			WithSuggestion("install the Xcode command line tools: xcode-select --install").
			Wrap(err).
			Build()
	}

	out := filepath.Join(outDir, SampleFileName)
	return &SamplerPlan{
		Engine:      config.SamplerSample,
		Tool:        tool,
		OutputFile:  out,
		Target:      target,
		PassThrough: passThrough,
		Notes: []string{
			"call stacks written to " + out,
		},
	}, nil
}

// Run executes the plan and returns once the target and the sampler both
// exited. perf wraps the target process; sample cannot, so it attaches to
// the target after launch.
func (p *SamplerPlan) Run(ctx context.Context, stdout, stderr io.Writer) error {
	switch p.Engine {
	case config.SamplerPerf:
		cmd := exec.CommandContext(ctx, p.Tool, p.wrapArgs()...)
		cmd.Stdout = stdout
		cmd.Stderr = stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("perf record: %w", err)
		}
		return nil
	case config.SamplerSample:
		return p.runAttached(ctx, stdout, stderr)
	default:
		return &config.InvalidSamplerEngineError{Value: p.Engine}
	}
}

// wrapArgs builds the perf record argv tail: options, output, then the
// target command after the separator.
func (p *SamplerPlan) wrapArgs() []string {
	args := []string{"record", "-g"}
	args = append(args, p.PassThrough...)
	args = append(args, "-o", p.OutputFile, "--")
	return append(args, p.Target...)
}

// attachArgs builds the sample argv tail for observing pid.
func (p *SamplerPlan) attachArgs(pid int) []string {
	args := []string{strconv.Itoa(pid), sampleDuration, "-mayDie", "-file", p.OutputFile}
	return append(args, p.PassThrough...)
}

func (p *SamplerPlan) runAttached(ctx context.Context, stdout, stderr io.Writer) error {
	if len(p.Target) == 0 {
		return errors.New("no target command to profile")
	}

	target := exec.CommandContext(ctx, p.Target[0], p.Target[1:]...)
	target.Stdout = stdout
	target.Stderr = stderr
	if err := target.Start(); err != nil {
		return fmt.Errorf("start target: %w", err)
	}

	sampler := exec.CommandContext(ctx, p.Tool, p.attachArgs(target.Process.Pid)...)
	sampler.Stdout = stdout
	sampler.Stderr = stderr
	if err := sampler.Start(); err != nil {
		_ = target.Process.Kill()
		_ = target.Wait()
		return fmt.Errorf("start sample: %w", err)
	}

	targetErr := target.Wait()
	samplerErr := sampler.Wait()
	if targetErr != nil {
		return fmt.Errorf("target exited: %w", targetErr)
	}
	if samplerErr != nil {
		return fmt.Errorf("sample: %w", samplerErr)
	}
	return nil
}
