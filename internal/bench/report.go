// SPDX-License-Identifier: MPL-2.0

package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/perf/benchfmt"
)

// Files written into each run's report directory.
const (
	// ResultsFileName holds the run in Go benchmark format.
	ResultsFileName = "results.txt"
	// RunJSONFileName holds the full structured Result.
	RunJSONFileName = "run.json"
)

// WriteReport persists res under reportsDir in a fresh per-run directory
// named <unix-start>-<short-run-id> and returns that directory. The
// directory also serves as the home for profiles and plots the caller
// captures alongside the run.
func WriteReport(reportsDir string, res *Result) (string, error) {
	dir := filepath.Join(reportsDir, fmt.Sprintf("%d-%s", res.Start.Unix(), shortID(res.RunID)))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, ResultsFileName))
	if err != nil {
		return "", fmt.Errorf("create %s: %w", ResultsFileName, err)
	}
	if err := WriteBenchfmt(f, res); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", ResultsFileName, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", ResultsFileName, err)
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal run: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(dir, RunJSONFileName), data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", RunJSONFileName, err)
	}
	return dir, nil
}

// WriteBenchfmt writes the run's phases in Go benchmark format: one line per
// measured iteration, so downstream tools see real samples rather than a
// single pre-averaged value. Query phases carry a derived ns/query value
// next to the standard ns/op.
func WriteBenchfmt(w io.Writer, res *Result) error {
	bw := benchfmt.NewWriter(w)
	for _, ph := range res.Phases {
		for _, sample := range ph.Samples {
			rec := &benchfmt.Result{
				Name:  benchfmt.Name(fmt.Sprintf("Scenario/%s/phase=%s", res.Scenario, ph.Phase)),
				Iters: 1,
				Values: []benchfmt.Value{
					{Value: float64(sample.Nanoseconds()), Unit: "ns/op"},
				},
			}
			rec.SetConfig("points", strconv.Itoa(res.Points))
			rec.SetConfig("queries", strconv.Itoa(res.Queries))
			rec.SetConfig("cells", strconv.FormatInt(res.Grid.Cells, 10))
			if ph.Queries > 0 {
				rec.Values = append(rec.Values, benchfmt.Value{
					Value: float64(sample.Nanoseconds()) / float64(ph.Queries),
					Unit:  "ns/query",
				})
			}
			if err := bw.Write(rec); err != nil {
				return fmt.Errorf("write benchmark line: %w", err)
			}
		}
	}
	return nil
}

// shortID truncates a run ID for use in directory names; the full ID stays
// in run.json.
func shortID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}
