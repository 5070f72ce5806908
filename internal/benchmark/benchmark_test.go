// SPDX-License-Identifier: MPL-2.0

package benchmark

import (
	"bytes"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"neargrid/internal/bench"
	"neargrid/internal/config"
	"neargrid/internal/dataset"
	"neargrid/internal/discovery"
	"neargrid/pkg/benchfile"
	"neargrid/pkg/geom"
	"neargrid/pkg/grid"
	"neargrid/pkg/ply"
	"neargrid/pkg/spiral"
	"neargrid/pkg/types"
)

const (
	// sampleBenchfile is a representative benchfile.cue for benchmarking CUE parsing.
	// It includes multiple scenarios with various features to exercise the parser.
	sampleBenchfile = `
version: "1"

scenarios: {
	smoke: {
		description: "Fast end-to-end check on the small cloud"
		dataset:     "bunny"
		iterations:  3
		queries: {
			count: 2000
			seed:  7
		}
	}
	sweep: {
		description: "Full query sweep with the offset phase"
		dataset:     "armadillo"
		scale:       1.4
		iterations:  20
		warmup:      2
		queries: {
			count:    10000
			removed:  true
			offset_x: 0.7
			offset_z: 0.7
		}
		workers: 8
	}
	"direct-path": {
		description:   "Index a PLY file without a manifest"
		dataset_path:  "clouds/blade.ply"
		iterations:    5
		spiral_shells: 64
		hooks: {
			setup:    "sync"
			teardown: "echo done"
		}
		watch: {
			patterns:     ["clouds/*.ply", "benchfile.cue"]
			debounce:     "250ms"
			clear_screen: true
		}
	}
}
`

	// sampleManifest is a representative datasets.toml for benchmarking TOML parsing.
	sampleManifest = `
[[dataset]]
name = "bunny"
path = "bunny.ply"
expected_points = 35947
description = "Stanford bunny scan"

[[dataset]]
name = "armadillo"
path = "armadillo.ply"
expected_points = 172974
description = "Stanford armadillo scan"

[[dataset]]
name = "shards"
path = "shards/*.ply"
description = "Sharded export, loaded in lexical order"
`

	// complexBenchfile is a larger benchfile for stress-testing the parser.
	complexBenchfile = `
scenarios: {
	"sweep-s1": {
		description: "Scale sweep point 1"
		dataset:     "bunny"
		scale:       1.1
		iterations:  10
	}
	"sweep-s2": {
		description: "Scale sweep point 2"
		dataset:     "bunny"
		scale:       1.2
		iterations:  10
	}
	"sweep-s3": {
		description: "Scale sweep point 3"
		dataset:     "bunny"
		scale:       1.4
		iterations:  10
	}
	"sweep-s4": {
		description: "Scale sweep point 4"
		dataset:     "bunny"
		scale:       1.8
		iterations:  10
	}
	"sweep-s5": {
		description: "Scale sweep point 5"
		dataset:     "bunny"
		scale:       2.6
		iterations:  10
	}
	"sweep-s6": {
		description: "Scale sweep point 6"
		dataset:     "bunny"
		scale:       4.2
		iterations:  10
	}
	"sweep-s7": {
		description: "Scale sweep point 7"
		dataset:     "bunny"
		scale:       7.4
		iterations:  10
	}
	"sweep-s8": {
		description: "Scale sweep point 8"
		dataset:     "bunny"
		scale:       13.8
		iterations:  10
	}
	"cells-fine": {
		description: "Dense spiral table"
		dataset:     "armadillo"
		spiral_shells: 200
		queries: {count: 50000}
	}
	"cells-coarse": {
		description: "Sparse spiral table"
		dataset:     "armadillo"
		spiral_shells: 25
		queries: {count: 50000}
	}
}
`
)

// randomVertices returns n uniformly distributed vertices inside a cube of
// the given extent. The seed is fixed so timings stay comparable across runs.
func randomVertices(n int, extent float32) []ply.Vertex {
	rng := rand.New(rand.NewPCG(1, 2))
	vertices := make([]ply.Vertex, n)
	for i := range vertices {
		vertices[i] = ply.Vertex{Pos: geom.Point{
			rng.Float32() * extent,
			rng.Float32() * extent,
			rng.Float32() * extent,
		}}
	}
	return vertices
}

// randomQueries returns n query points drawn from the same cube as
// randomVertices but with a different seed, so queries rarely coincide with
// indexed points.
func randomQueries(n int, extent float32) []geom.Point {
	rng := rand.New(rand.NewPCG(3, 4))
	queries := make([]geom.Point, n)
	for i := range queries {
		queries[i] = geom.Point{
			rng.Float32() * extent,
			rng.Float32() * extent,
			rng.Float32() * extent,
		}
	}
	return queries
}

// BenchmarkBenchfileParsing benchmarks CUE schema compilation and validation.
// This exercises the hot path in pkg/benchfile/parse.go.
func BenchmarkBenchfileParsing(b *testing.B) {
	data := []byte(sampleBenchfile)

	b.ResetTimer()
	for b.Loop() {
		_, err := benchfile.ParseBytes(data, "benchmark.cue")
		if err != nil {
			b.Fatalf("ParseBytes failed: %v", err)
		}
	}
}

// BenchmarkBenchfileParsingComplex benchmarks parsing a larger benchfile.
func BenchmarkBenchfileParsingComplex(b *testing.B) {
	data := []byte(complexBenchfile)

	b.ResetTimer()
	for b.Loop() {
		_, err := benchfile.ParseBytes(data, "complex.cue")
		if err != nil {
			b.Fatalf("ParseBytes failed: %v", err)
		}
	}
}

// BenchmarkManifestParsing benchmarks dataset manifest parsing and validation.
// This exercises the hot path in internal/dataset/manifest.go.
func BenchmarkManifestParsing(b *testing.B) {
	data := []byte(sampleManifest)

	b.ResetTimer()
	for b.Loop() {
		_, err := dataset.ParseManifestBytes(data, "datasets.toml")
		if err != nil {
			b.Fatalf("ParseManifestBytes failed: %v", err)
		}
	}
}

// BenchmarkDiscovery benchmarks benchfile and dataset manifest discovery.
// This exercises the hot path in internal/discovery/.
func BenchmarkDiscovery(b *testing.B) {
	tmpDir := b.TempDir()

	if err := os.WriteFile(filepath.Join(tmpDir, benchfile.DefaultFileName), []byte(sampleBenchfile), 0o644); err != nil {
		b.Fatalf("Failed to write benchfile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, dataset.ManifestFileName), []byte(sampleManifest), 0o644); err != nil {
		b.Fatalf("Failed to write dataset manifest: %v", err)
	}

	cfg := config.DefaultConfig()
	disc := discovery.New(cfg,
		discovery.WithBaseDir(types.FilesystemPath(tmpDir)),
		discovery.WithConfigDir(types.FilesystemPath(filepath.Join(tmpDir, "config-dir"))),
	)

	b.ResetTimer()
	for b.Loop() {
		if disc.FirstBenchfile() == nil {
			b.Fatal("No benchfile found")
		}
		datasets, _ := disc.AllDatasets()
		if len(datasets) == 0 {
			b.Fatal("No datasets found")
		}
	}
}

// BenchmarkPLYDecode benchmarks ASCII PLY parsing.
// This exercises the hot path in pkg/ply/ply.go.
func BenchmarkPLYDecode(b *testing.B) {
	var buf bytes.Buffer
	if err := ply.WriteASCII(&buf, randomVertices(2048, 10)); err != nil {
		b.Fatalf("WriteASCII failed: %v", err)
	}
	data := buf.Bytes()

	b.ResetTimer()
	for b.Loop() {
		vertices, err := ply.Read(bytes.NewReader(data))
		if err != nil {
			b.Fatalf("Read failed: %v", err)
		}
		if len(vertices) != 2048 {
			b.Fatalf("Read returned %d vertices, want 2048", len(vertices))
		}
	}
}

// BenchmarkSpiralGenerate benchmarks search table generation.
// This exercises the hot path in pkg/spiral/spiral.go.
func BenchmarkSpiralGenerate(b *testing.B) {
	b.ResetTimer()
	for b.Loop() {
		spiral.Generate(16)
	}
}

// BenchmarkSpiralGenerateWide benchmarks table generation at twice the shell
// radius. Generation cost grows with the cube of the radius.
func BenchmarkSpiralGenerateWide(b *testing.B) {
	b.ResetTimer()
	for b.Loop() {
		spiral.Generate(32)
	}
}

// BenchmarkGridBuild benchmarks uniform grid construction.
// This exercises the hot path in pkg/grid/grid.go.
func BenchmarkGridBuild(b *testing.B) {
	vertices := randomVertices(10000, 100)
	table := spiral.Generate(16)

	b.ResetTimer()
	for b.Loop() {
		if _, err := grid.New(vertices, 1.19, table); err != nil {
			b.Fatalf("New failed: %v", err)
		}
	}
}

// BenchmarkNearestNeighbor benchmarks single-point queries against a built
// grid. This exercises the hot path in pkg/grid/query.go.
func BenchmarkNearestNeighbor(b *testing.B) {
	vertices := randomVertices(10000, 100)
	table := spiral.Generate(16)
	g, err := grid.New(vertices, 1.19, table)
	if err != nil {
		b.Fatalf("New failed: %v", err)
	}
	queries := randomQueries(512, 100)

	b.ResetTimer()
	i := 0
	for b.Loop() {
		q := queries[i%len(queries)]
		i++
		if _, _, ok := g.NearestNeighbor(q); !ok {
			b.Fatal("NearestNeighbor returned no result")
		}
	}
}

// BenchmarkNearestAll benchmarks the concurrent batch query path.
// This exercises the hot path in pkg/grid/batch.go.
func BenchmarkNearestAll(b *testing.B) {
	vertices := randomVertices(10000, 100)
	table := spiral.Generate(16)
	g, err := grid.New(vertices, 1.19, table)
	if err != nil {
		b.Fatalf("New failed: %v", err)
	}
	queries := randomQueries(4096, 100)

	b.ResetTimer()
	for b.Loop() {
		if _, err := g.NearestAll(b.Context(), queries, 0); err != nil {
			b.Fatalf("NearestAll failed: %v", err)
		}
	}
}

// BenchmarkFullPipeline benchmarks an end-to-end scenario run.
// This exercises query sampling, grid construction, both query phases, and
// summary statistics together via internal/bench.
func BenchmarkFullPipeline(b *testing.B) {
	cfg := config.DefaultConfig()
	cfg.CacheDir = config.CacheDirPath(b.TempDir())

	sc := &benchfile.Scenario{
		Dataset:      "bench",
		Iterations:   1,
		SpiralShells: 16,
		Queries: benchfile.QuerySpec{
			Count:   512,
			Seed:    42,
			Removed: true,
			OffsetX: 0.7,
			OffsetZ: 0.7,
		},
	}
	req := bench.Request{
		Name:        "bench",
		Scenario:    sc,
		DatasetName: "bench",
		Vertices:    randomVertices(4096, 100),
		Stdout:      io.Discard,
		Stderr:      io.Discard,
	}

	// Warm the spiral cache so table generation is not in the measured loop.
	bench.SpiralTable(string(cfg.CacheDir), sc.SpiralShells)

	runner := bench.New(cfg)

	b.ResetTimer()
	for b.Loop() {
		if _, err := runner.Run(b.Context(), req); err != nil {
			b.Fatalf("Run failed: %v", err)
		}
	}
}
