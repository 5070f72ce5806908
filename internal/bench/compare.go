// SPDX-License-Identifier: MPL-2.0

package bench

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/perf/benchfmt"
	"golang.org/x/perf/benchmath"
)

// ErrNoBenchmarks indicates a results file with no benchmark lines.
var ErrNoBenchmarks = errors.New("no benchmark results found")

// Comparison is the outcome of comparing two results files.
type Comparison struct {
	// OldPath and NewPath are the compared files.
	OldPath string
	NewPath string

	// Rows holds one entry per benchmark present in both files, in the
	// old file's order.
	Rows []ComparisonRow

	// OldOnly and NewOnly list benchmarks present in only one file.
	OldOnly []string
	NewOnly []string
}

// ComparisonRow is one benchmark's old/new centers and the significance of
// their difference.
type ComparisonRow struct {
	// Name is the full benchmark name without the Benchmark prefix.
	Name string

	// OldCenter and NewCenter are the sample medians in ns/op.
	OldCenter float64
	NewCenter float64

	// Delta is the formatted percent change, or "~" when the difference
	// is not statistically significant.
	Delta string

	// P is the Mann-Whitney U p-value for the difference.
	P float64

	// OldN and NewN are the sample sizes.
	OldN int
	NewN int
}

// Compare reads two results files in Go benchmark format and tests each
// benchmark present in both for a significant difference. The test is
// Mann-Whitney U, which assumes nothing about the sample distribution; with
// the default alpha of 0.05 that needs at least four samples per side to
// ever report significance.
func Compare(oldPath, newPath string) (*Comparison, error) {
	oldSamples, oldOrder, err := readSamples(oldPath)
	if err != nil {
		return nil, err
	}
	newSamples, newOrder, err := readSamples(newPath)
	if err != nil {
		return nil, err
	}

	cmp := &Comparison{OldPath: oldPath, NewPath: newPath}
	thresholds := benchmath.DefaultThresholds
	for _, name := range oldOrder {
		oldVals := oldSamples[name]
		newVals, ok := newSamples[name]
		if !ok {
			cmp.OldOnly = append(cmp.OldOnly, name)
			continue
		}

		oldSample := benchmath.NewSample(oldVals, &thresholds)
		newSample := benchmath.NewSample(newVals, &thresholds)
		oldSummary := benchmath.AssumeNothing.Summary(oldSample, 0.95)
		newSummary := benchmath.AssumeNothing.Summary(newSample, 0.95)
		diff := benchmath.AssumeNothing.Compare(oldSample, newSample)

		cmp.Rows = append(cmp.Rows, ComparisonRow{
			Name:      name,
			OldCenter: oldSummary.Center,
			NewCenter: newSummary.Center,
			Delta:     diff.FormatDelta(oldSummary.Center, newSummary.Center),
			P:         diff.P,
			OldN:      len(oldVals),
			NewN:      len(newVals),
		})
	}
	for _, name := range newOrder {
		if _, ok := oldSamples[name]; !ok {
			cmp.NewOnly = append(cmp.NewOnly, name)
		}
	}
	return cmp, nil
}

// readSamples collects ns/op values per benchmark name from a results file,
// preserving first-seen order.
func readSamples(path string) (map[string][]float64, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open results file: %w", err)
	}
	defer f.Close()

	samples := make(map[string][]float64)
	var order []string
	reader := benchfmt.NewReader(f, filepath.Base(path))
	for reader.Scan() {
		switch rec := reader.Result().(type) {
		case *benchfmt.Result:
			name := string(rec.Name)
			for _, v := range rec.Values {
				if v.Unit != "ns/op" {
					continue
				}
				if _, seen := samples[name]; !seen {
					order = append(order, name)
				}
				samples[name] = append(samples[name], v.Value)
			}
		case *benchfmt.SyntaxError:
			return nil, nil, fmt.Errorf("parse results file: %w", rec)
		}
	}
	if err := reader.Err(); err != nil {
		return nil, nil, fmt.Errorf("read results file: %w", err)
	}
	if len(samples) == 0 {
		return nil, nil, fmt.Errorf("%s: %w", path, ErrNoBenchmarks)
	}
	return samples, order, nil
}
