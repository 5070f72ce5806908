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
	"strings"

	"neargrid/internal/bench"
	"neargrid/internal/issue"
)

// Plot artifact names inside a run's report directory.
const (
	// TimingsDataFileName holds one row per iteration with a nanosecond
	// column per phase.
	TimingsDataFileName = "timings.dat"
	// TimingsScriptFileName is the gnuplot script rendering the data.
	TimingsScriptFileName = "timings.gp"
	// TimingsPlotFileName is the image the script produces.
	TimingsPlotFileName = "timings.png"
)

// WriteTimings writes the per-iteration phase timings as a gnuplot data file
// plus a ready-to-run script into dir and returns their paths. The script
// references the data file by name, so it must run with dir as the working
// directory (see PlotInvocation).
func WriteTimings(dir string, res *bench.Result) (string, string, error) {
	if len(res.Phases) == 0 {
		return "", "", errors.New("result has no phases to plot")
	}
	dataPath := filepath.Join(dir, TimingsDataFileName)
	scriptPath := filepath.Join(dir, TimingsScriptFileName)

	var data strings.Builder
	data.WriteString("# iteration")
	for _, ph := range res.Phases {
		fmt.Fprintf(&data, " %s_ns", ph.Phase)
	}
	data.WriteString("\n")
	for i := 0; i < res.Iterations; i++ {
		fmt.Fprintf(&data, "%d", i+1)
		for _, ph := range res.Phases {
			var ns int64
			if i < len(ph.Samples) {
				ns = ph.Samples[i].Nanoseconds()
			}
			fmt.Fprintf(&data, " %d", ns)
		}
		data.WriteString("\n")
	}
	if err := os.WriteFile(dataPath, []byte(data.String()), 0o644); err != nil {
		return "", "", fmt.Errorf("write %s: %w", TimingsDataFileName, err)
	}

	var script strings.Builder
	script.WriteString("set terminal pngcairo size 960,540\n")
	fmt.Fprintf(&script, "set output %q\n", TimingsPlotFileName)
	fmt.Fprintf(&script, "set title \"scenario %s (%s)\"\n", res.Scenario, res.Dataset)
	script.WriteString("set xlabel \"iteration\"\n")
	script.WriteString("set ylabel \"time (ms)\"\n")
	script.WriteString("set key outside\n")
	script.WriteString("set grid\n")
	script.WriteString("plot ")
	for i, ph := range res.Phases {
		if i > 0 {
			script.WriteString(", \\\n     ")
		}
		fmt.Fprintf(&script, "%q using 1:($%d/1e6) title %q with linespoints",
			TimingsDataFileName, i+2, string(ph.Phase))
	}
	script.WriteString("\n")
	if err := os.WriteFile(scriptPath, []byte(script.String()), 0o644); err != nil {
		return "", "", fmt.Errorf("write %s: %w", TimingsScriptFileName, err)
	}
	return dataPath, scriptPath, nil
}

// RenderPlot runs gnuplot on the written script and returns the rendered
// image path.
func RenderPlot(ctx context.Context, dir string, stdout, stderr io.Writer) (string, error) {
	tool, err := lookPath("gnuplot")
	if err != nil {
		return "", issue.NewErrorContext().
			WithOperation("render timings plot").
			WithResource("gnuplot").
			WithSuggestions(
				"install gnuplot (apt install gnuplot / brew install gnuplot)",
				"or render manually: "+PlotInvocation(dir),
			).
			Wrap(err).
			Build()
	}

	cmd := exec.CommandContext(ctx, tool, TimingsScriptFileName)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("gnuplot: %w", err)
	}
	return filepath.Join(dir, TimingsPlotFileName), nil
}

// PlotInvocation is the manual command line for rendering the plot.
func PlotInvocation(dir string) string {
	return fmt.Sprintf("cd %s && gnuplot %s", dir, TimingsScriptFileName)
}
