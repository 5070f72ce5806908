// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"neargrid/internal/bench"
	"neargrid/internal/config"
	"neargrid/internal/dataset"
	"neargrid/internal/discovery"
	"neargrid/internal/issue"
	"neargrid/pkg/benchfile"
	"neargrid/pkg/ply"
	"neargrid/pkg/types"
)

// failCommand renders a ServiceError to stderr and converts it into the
// ExitError that Execute() maps to the process exit code. Cobra's own error
// and usage output is silenced because the rendering already happened here.
func failCommand(cmd *cobra.Command, svcErr *ServiceError) error {
	fmt.Fprintf(os.Stderr, "%s %s\n", errorIcon, formatErrorForDisplay(svcErr.Err, verbose))
	renderServiceError(os.Stderr, svcErr)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: exitCodeFor(svcErr.Err), Err: svcErr.Err}
}

// exitCodeFor maps a failure onto the process exit code. A failed hook
// propagates its own exit status so CI wrappers can tell hook failures
// apart from harness errors; everything else exits 1. A hook code of 0
// or out of range still exits 1, since the process did fail.
func exitCodeFor(err error) types.ExitCode {
	if hookErr, ok := errors.AsType[*bench.HookError](err); ok {
		if code := hookErr.ExitCode; code.Validate() == nil && !code.IsSuccess() {
			return code
		}
	}
	return 1
}

// loadBenchfile parses the benchfile at the explicit path when given,
// otherwise the one discovered in the working directory. Parse and
// validation failures come back as ServiceErrors carrying the matching
// issue catalog entry.
func loadBenchfile(explicitPath string) (*benchfile.Benchfile, *ServiceError) {
	path := explicitPath
	if path == "" {
		found := discovery.New(config.Get()).FirstBenchfile()
		if found == nil {
			return nil, newServiceError(
				fmt.Errorf("no %s in the current directory", benchfile.DefaultFileName),
				issue.BenchfileNotFoundId, "")
		}
		path = found.Path
	}

	bf, err := benchfile.Parse(types.FilesystemPath(path))
	if err != nil {
		id := issue.BenchfileParseErrorId
		if errors.Is(err, os.ErrNotExist) {
			id = issue.BenchfileNotFoundId
		}
		return nil, newServiceError(err, id, "")
	}

	return bf, nil
}

// requireScenario looks up a scenario by name, turning a miss into a
// ServiceError that lists the names that do exist.
func requireScenario(bf *benchfile.Benchfile, name string) (*benchfile.Scenario, *ServiceError) {
	sc := bf.Get(name)
	if sc != nil {
		return sc, nil
	}

	msg := fmt.Sprintf("scenario %q not found in %s", name, bf.FilePath)
	if names := bf.List(); len(names) > 0 {
		msg += fmt.Sprintf(" (defined: %v)", names)
	}
	return nil, newServiceError(errors.New(msg), issue.ScenarioNotFoundId, "")
}

// loadScenarioDataset resolves and reads the point cloud a scenario indexes.
// A dataset_path loads directly (relative to the benchfile's directory); a
// dataset name goes through manifest discovery. Returns the vertices plus
// the dataset label recorded in reports.
func loadScenarioDataset(ctx context.Context, bf *benchfile.Benchfile, sc *benchfile.Scenario) ([]ply.Vertex, string, *ServiceError) {
	if sc.DatasetPath != "" {
		path := sc.DatasetPath
		if !filepath.IsAbs(path) && bf.FilePath != "" {
			path = filepath.Join(filepath.Dir(bf.FilePath.String()), path)
		}
		vertices, err := dataset.LoadFile(ctx, path)
		if err != nil {
			return nil, "", newServiceError(err, plyIssueFor(err), "")
		}
		return vertices, filepath.Base(path), nil
	}

	d := discovery.New(config.Get())
	info, diags := d.LookupDataset(sc.Dataset)
	printDiagnostics(os.Stderr, diags)
	if info == nil {
		return nil, "", newServiceError(
			&dataset.NotFoundError{Name: sc.Dataset},
			issue.DatasetNotFoundId, "")
	}

	vertices, err := dataset.LoadEntry(ctx, &info.Entry, info.BaseDir)
	if err != nil {
		return nil, "", newServiceError(err, plyIssueFor(err), "")
	}
	return vertices, sc.Dataset, nil
}

// plyIssueFor maps a dataset load failure onto the issue catalog. PLY
// decoding problems get the parse card; everything else (missing files,
// point count mismatches) gets the verification card.
func plyIssueFor(err error) issue.Id {
	switch {
	case errors.Is(err, ply.ErrNotPLY),
		errors.Is(err, ply.ErrUnsupportedFormat),
		errors.Is(err, ply.ErrNoVertexElement):
		return issue.PlyParseErrorId
	default:
		return issue.DatasetVerifyFailedId
	}
}

// printDiagnostics writes discovery diagnostics to w. Warnings always
// surface so shadowed datasets and unparseable manifests don't fail silently.
func printDiagnostics(w io.Writer, diags []discovery.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(w, "%s %s\n", warnIcon, d.Message)
	}
}
