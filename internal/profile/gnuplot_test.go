// SPDX-License-Identifier: MPL-2.0

package profile

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"neargrid/internal/bench"
	"neargrid/internal/issue"
)

func plotResult() *bench.Result {
	return &bench.Result{
		Scenario:   "demo",
		Dataset:    "tiny",
		Iterations: 2,
		Phases: []bench.PhaseResult{
			{
				Phase:   bench.PhaseBuild,
				Samples: []time.Duration{100 * time.Millisecond, 110 * time.Millisecond},
			},
			{
				Phase:   bench.PhaseQuery,
				Samples: []time.Duration{10 * time.Millisecond, 12 * time.Millisecond},
			},
		},
	}
}

func TestWriteTimings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dataPath, scriptPath, err := WriteTimings(dir, plotResult())
	if err != nil {
		t.Fatalf("WriteTimings() error = %v", err)
	}

	data, err := os.ReadFile(dataPath)
	if err != nil {
		t.Fatalf("reading data file: %v", err)
	}
	wantData := "# iteration build_ns query_ns\n" +
		"1 100000000 10000000\n" +
		"2 110000000 12000000\n"
	if string(data) != wantData {
		t.Errorf("data file = %q, want %q", data, wantData)
	}

	script, err := os.ReadFile(scriptPath)
	if err != nil {
		t.Fatalf("reading script file: %v", err)
	}
	for _, want := range []string{
		`set output "timings.png"`,
		`set title "scenario demo (tiny)"`,
		`"timings.dat" using 1:($2/1e6) title "build" with linespoints`,
		`"timings.dat" using 1:($3/1e6) title "query" with linespoints`,
	} {
		if !strings.Contains(string(script), want) {
			t.Errorf("script is missing %q:\n%s", want, script)
		}
	}
}

func TestWriteTimings_NoPhases(t *testing.T) {
	t.Parallel()

	_, _, err := WriteTimings(t.TempDir(), &bench.Result{Scenario: "demo"})
	if err == nil {
		t.Error("WriteTimings() with no phases returned nil error")
	}
}

func TestRenderPlot_MissingGnuplot(t *testing.T) {
	swapSeams(t, "linux", 0, missingTool("gnuplot"))

	_, err := RenderPlot(context.Background(), "reports/run", nil, nil)

	var actionable *issue.ActionableError
	if !errors.As(err, &actionable) {
		t.Fatalf("RenderPlot() error = %v, want an actionable error", err)
	}
	if !actionable.HasSuggestions() {
		t.Error("missing-gnuplot error carries no install suggestion")
	}
}

func TestPlotInvocation(t *testing.T) {
	t.Parallel()

	got := PlotInvocation("reports/1-abc")
	if !strings.Contains(got, "reports/1-abc") || !strings.Contains(got, "gnuplot timings.gp") {
		t.Errorf("PlotInvocation() = %q", got)
	}
}
