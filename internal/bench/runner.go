// SPDX-License-Identifier: MPL-2.0

package bench

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"

	"neargrid/internal/config"
	"neargrid/internal/testutil"
	"neargrid/pkg/benchfile"
	"neargrid/pkg/geom"
	"neargrid/pkg/grid"
	"neargrid/pkg/ply"
)

// Runner executes benchmark scenarios.
type Runner struct {
	cfg   *config.Config
	clock testutil.Clock
}

// New creates a Runner reading time from the system clock. A nil cfg falls
// back to the built-in defaults.
func New(cfg *config.Config) *Runner {
	return NewWithClock(cfg, testutil.RealClock{})
}

// NewWithClock creates a Runner that reads time from clock. Tests inject a
// fake to make phase timings deterministic.
func NewWithClock(cfg *config.Config, clock testutil.Clock) *Runner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Runner{cfg: cfg, clock: clock}
}

// Run executes one scenario: sample queries, run the setup hook, time the
// warmup and measured iterations, summarize, run the teardown hook. Teardown
// runs once setup has succeeded, even when an iteration fails or the context
// is canceled. The context is checked between iterations, so cancellation
// never loses a completed run.
func (r *Runner) Run(ctx context.Context, req Request) (res *Result, retErr error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	sc := req.Scenario

	iterations := sc.EffectiveIterations(r.cfg.Bench.DefaultIterations)
	scale := sc.EffectiveScale(r.cfg.Bench.DefaultScale)
	shells := sc.EffectiveSpiralShells()
	queryCount := sc.Queries.EffectiveCount()
	workers := sc.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	if queryCount > len(req.Vertices) {
		return nil, fmt.Errorf("scenario %q: %d queries from %d points: %w",
			req.Name, queryCount, len(req.Vertices), ErrQueryCount)
	}
	if sc.Queries.Removed && queryCount == len(req.Vertices) {
		return nil, fmt.Errorf("scenario %q: removing all %d points leaves nothing to index: %w",
			req.Name, queryCount, ErrQueryCount)
	}

	table := SpiralTable(r.cacheDir(), shells)

	buildSet, queries := sampleQueries(req.Vertices, sc.Queries, queryCount)
	var offsetQueries []geom.Point
	if sc.Queries.OffsetsEnabled() {
		offsetQueries = offsetPoints(queries, sc.Queries.OffsetX, sc.Queries.OffsetZ)
	}

	runID := uuid.NewString()
	res = &Result{
		RunID:        runID,
		Scenario:     req.Name,
		Dataset:      req.DatasetName,
		Start:        r.clock.Now(),
		Points:       len(buildSet),
		Queries:      len(queries),
		Iterations:   iterations,
		Warmup:       sc.Warmup,
		Scale:        scale,
		Workers:      workers,
		SpiralShells: shells,
		Removed:      sc.Queries.Removed,
		Host:         hostInfo(),
		PassThrough:  req.PassThrough,
	}
	slog.Debug("running scenario",
		"scenario", req.Name, "run_id", runID,
		"points", res.Points, "queries", res.Queries,
		"iterations", iterations, "warmup", sc.Warmup)

	env := hookEnv(req.Name, req.DatasetName, runID)
	if sc.HasSetup() {
		if err := runHook(ctx, "setup", sc.Hooks.Setup, env, req.Stdout, req.Stderr); err != nil {
			return nil, err
		}
	}
	if sc.HasTeardown() {
		defer func() {
			// Teardown survives cancellation of the run itself.
			tdCtx := context.WithoutCancel(ctx)
			tdErr := runHook(tdCtx, "teardown", sc.Hooks.Teardown, env, req.Stdout, req.Stderr)
			if tdErr == nil {
				return
			}
			if retErr == nil {
				res, retErr = nil, tdErr
				return
			}
			slog.Warn("teardown hook failed after run error", "scenario", req.Name, "error", tdErr)
		}()
	}

	buildSamples := make([]time.Duration, 0, iterations)
	querySamples := make([]time.Duration, 0, iterations)
	var offsetSamples []time.Duration
	if len(offsetQueries) > 0 {
		offsetSamples = make([]time.Duration, 0, iterations)
	}

	total := sc.Warmup + iterations
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", req.Name, err)
		}
		record := i >= sc.Warmup

		start := r.clock.Now()
		g, err := grid.New(buildSet, scale, table)
		buildTime := r.clock.Since(start)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", req.Name, err)
		}
		if record {
			buildSamples = append(buildSamples, buildTime)
		}
		if i == sc.Warmup {
			res.Grid = g.ComputeStats()
		}

		start = r.clock.Now()
		if _, err := g.NearestAll(ctx, queries, workers); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", req.Name, err)
		}
		if record {
			querySamples = append(querySamples, r.clock.Since(start))
		}

		if len(offsetQueries) > 0 {
			start = r.clock.Now()
			if _, err := g.NearestAll(ctx, offsetQueries, workers); err != nil {
				return nil, fmt.Errorf("scenario %q: %w", req.Name, err)
			}
			if record {
				offsetSamples = append(offsetSamples, r.clock.Since(start))
			}
		}
	}

	res.Phases = append(res.Phases,
		phaseResult(PhaseBuild, buildSamples, 0),
		phaseResult(PhaseQuery, querySamples, len(queries)),
	)
	if offsetSamples != nil {
		res.Phases = append(res.Phases, phaseResult(PhaseQueryOffset, offsetSamples, len(offsetQueries)))
	}
	res.End = r.clock.Now()
	return res, nil
}

// cacheDir resolves where spiral tables are cached: the configured override
// when set, the per-user cache directory otherwise. An unresolvable cache
// directory disables caching rather than failing the run.
func (r *Runner) cacheDir() string {
	if r.cfg.CacheDir != "" {
		return string(r.cfg.CacheDir)
	}
	dir, err := config.CacheDir()
	if err != nil {
		slog.Warn("cache directory unavailable, spiral tables will not be cached", "error", err)
		return ""
	}
	return dir
}

// phaseResult assembles one phase's samples and statistics.
func phaseResult(phase Phase, samples []time.Duration, queries int) PhaseResult {
	stats := Compute(samples)
	if queries > 0 {
		stats.PerQuery = stats.Mean / time.Duration(queries)
	}
	return PhaseResult{Phase: phase, Samples: samples, Stats: stats, Queries: queries}
}

// sampleQueries draws seed-deterministic query points from the cloud. With
// Removed set, the sampled vertices are extracted from the build set so
// every query runs against an index that does not contain its exact point;
// otherwise the build set is the full cloud.
func sampleQueries(vertices []ply.Vertex, spec benchfile.QuerySpec, count int) ([]ply.Vertex, []geom.Point) {
	rng := rand.New(rand.NewPCG(uint64(spec.Seed), uint64(spec.Seed)))
	perm := rng.Perm(len(vertices))

	queries := make([]geom.Point, count)
	for i := range queries {
		queries[i] = vertices[perm[i]].Pos
	}
	if !spec.Removed {
		return vertices, queries
	}

	sampled := make(map[int]bool, count)
	for _, idx := range perm[:count] {
		sampled[idx] = true
	}
	buildSet := make([]ply.Vertex, 0, len(vertices)-count)
	for i, v := range vertices {
		if !sampled[i] {
			buildSet = append(buildSet, v)
		}
	}
	return buildSet, queries
}

// offsetPoints derives the offset-phase queries: each point's x and z
// coordinates are scaled by the configured multipliers, displacing queries
// off the surface. A zero multiplier leaves its axis unchanged.
func offsetPoints(queries []geom.Point, offsetX, offsetZ float64) []geom.Point {
	if offsetX == 0 {
		offsetX = 1
	}
	if offsetZ == 0 {
		offsetZ = 1
	}
	out := make([]geom.Point, len(queries))
	for i, q := range queries {
		q[0] *= float32(offsetX)
		q[2] *= float32(offsetZ)
		out[i] = q
	}
	return out
}

// hostInfo captures the execution environment.
func hostInfo() HostInfo {
	info := HostInfo{
		GOOS:      runtime.GOOS,
		GOARCH:    runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
		GoVersion: runtime.Version(),
	}
	if name, err := os.Hostname(); err == nil {
		info.Hostname = name
	}
	return info
}
