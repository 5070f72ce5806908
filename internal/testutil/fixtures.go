// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"neargrid/pkg/geom"
	"neargrid/pkg/ply"
)

// TinyCloud returns n deterministic vertices laid out on a 5x5 column lattice
// with 0.5 spacing. Repeated calls with the same n produce identical clouds,
// so tests can assert exact cell occupancy and query results.
func TinyCloud(n int) []ply.Vertex {
	vertices := make([]ply.Vertex, n)
	for i := range vertices {
		vertices[i] = ply.Vertex{Pos: geom.Point{
			float32(i%5) * 0.5,
			float32((i/5)%5) * 0.5,
			float32(i/25) * 0.5,
		}}
	}
	return vertices
}

// WritePLY writes vertices to an ASCII PLY file named name under dir and
// returns the full path. The test fails immediately if the write fails.
func WritePLY(t testing.TB, dir, name string, vertices []ply.Vertex) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := ply.WriteASCIIFile(path, vertices); err != nil {
		t.Fatalf("failed to write ply fixture %s: %v", path, err)
	}
	return path
}

// WriteBenchfile writes body to a benchfile.cue under dir and returns the
// full path. The test fails immediately if the write fails.
func WriteBenchfile(t testing.TB, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "benchfile.cue")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write benchfile fixture %s: %v", path, err)
	}
	return path
}
