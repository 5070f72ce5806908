// SPDX-License-Identifier: MPL-2.0

package bench

import (
	"errors"
	"fmt"
	"io"
	"time"

	"neargrid/pkg/benchfile"
	"neargrid/pkg/grid"
	"neargrid/pkg/ply"
)

// Phase names one timed section of a scenario iteration.
type Phase string

const (
	// PhaseBuild times constructing the grid from the build set.
	PhaseBuild Phase = "build"
	// PhaseQuery times answering all nearest-neighbor queries.
	PhaseQuery Phase = "query"
	// PhaseQueryOffset times the same queries displaced off the surface.
	PhaseQueryOffset Phase = "query-offset"
)

// String returns the phase name.
func (p Phase) String() string { return string(p) }

var (
	// ErrInvalidRequest indicates a Request that fails validation.
	ErrInvalidRequest = errors.New("invalid bench request")

	// ErrQueryCount indicates a query count the dataset cannot satisfy.
	ErrQueryCount = errors.New("query count exceeds usable dataset points")
)

// InvalidRequestError aggregates everything wrong with a Request so callers
// see all problems at once instead of fixing them one by one.
type InvalidRequestError struct {
	FieldErrors []error
}

// Error implements the error interface.
func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid bench request: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidRequest so callers can match with errors.Is.
func (e *InvalidRequestError) Unwrap() error { return ErrInvalidRequest }

// Request carries one resolved scenario execution. The caller has already
// parsed the benchfile, picked the scenario, and loaded the dataset; the
// runner only times things.
type Request struct {
	// Name is the scenario name, used in reports and hook environments.
	Name string

	// Scenario is the scenario to execute. Required.
	Scenario *benchfile.Scenario

	// DatasetName identifies the dataset in reports. For manifest datasets
	// this is the manifest entry name; for direct paths, the file path.
	DatasetName string

	// Vertices is the loaded point cloud. Required, must be non-empty.
	Vertices []ply.Vertex

	// PassThrough holds arguments after "--" on the command line. They are
	// recorded in the run report verbatim.
	PassThrough []string

	// Stdout and Stderr receive hook script output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer
}

// Validate checks the request and returns an InvalidRequestError listing
// every problem found, or nil. The CLI boundary validates the benchfile as a
// whole; this re-checks the single scenario so Go-constructed requests get
// the same guarantees.
func (req *Request) Validate() error {
	var errs []error

	if req.Scenario == nil {
		errs = append(errs, errors.New("scenario: must not be nil"))
	} else {
		for _, verr := range req.Scenario.Validate(req.Name) {
			errs = append(errs, verr)
		}
	}
	if len(req.Vertices) == 0 {
		errs = append(errs, errors.New("vertices: dataset is empty"))
	}

	if len(errs) > 0 {
		return &InvalidRequestError{FieldErrors: errs}
	}
	return nil
}

// Result is the full outcome of one scenario run.
type Result struct {
	// RunID uniquely identifies this run across reports and hook
	// environments.
	RunID string `json:"run_id"`

	// Scenario and Dataset echo the request.
	Scenario string `json:"scenario"`
	Dataset  string `json:"dataset"`

	// Start and End bound the whole run including warmup and hooks.
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	// Points is the build set size. With removed queries this is smaller
	// than the dataset because sampled vertices are extracted.
	Points int `json:"points"`
	// Queries is the number of query points answered per query phase.
	Queries int `json:"queries"`

	// Resolved scenario parameters after defaults were applied.
	Iterations   int     `json:"iterations"`
	Warmup       int     `json:"warmup"`
	Scale        float64 `json:"scale"`
	Workers      int     `json:"workers"`
	SpiralShells int     `json:"spiral_shells"`
	Removed      bool    `json:"removed"`

	// Host describes the machine the run executed on.
	Host HostInfo `json:"host"`

	// Grid summarizes the built index. Identical across iterations since
	// the inputs never change.
	Grid grid.Stats `json:"grid"`

	// Phases holds per-phase samples and statistics, in execution order.
	Phases []PhaseResult `json:"phases"`

	// PassThrough echoes the recorded pass-through arguments.
	PassThrough []string `json:"pass_through,omitempty"`
}

// PhaseResult holds the measured samples for one phase.
type PhaseResult struct {
	// Phase names the timed section.
	Phase Phase `json:"phase"`
	// Samples holds one duration per measured iteration.
	Samples []time.Duration `json:"samples_ns"`
	// Stats summarizes Samples.
	Stats Stats `json:"stats"`
	// Queries is the number of queries answered per iteration in this
	// phase, zero for the build phase.
	Queries int `json:"queries,omitempty"`
}

// HostInfo captures the execution environment for later comparison; results
// from different machines are not directly comparable.
type HostInfo struct {
	GOOS      string `json:"goos"`
	GOARCH    string `json:"goarch"`
	NumCPU    int    `json:"num_cpu"`
	GoVersion string `json:"go_version"`
	Hostname  string `json:"hostname,omitempty"`
}
