// SPDX-License-Identifier: MPL-2.0

package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"neargrid/pkg/geom"
	"neargrid/pkg/ply"
	"neargrid/pkg/types"
)

// writeCloud writes an ASCII PLY file with the given x coordinates
// (y and z are zero) and returns its path.
func writeCloud(t *testing.T, dir, name string, xs ...float32) string {
	t.Helper()

	vertices := make([]ply.Vertex, len(xs))
	for i, x := range xs {
		vertices[i] = ply.Vertex{Pos: geom.Point{x, 0, 0}}
	}

	path := filepath.Join(dir, name)
	if err := ply.WriteASCIIFile(path, vertices); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
	return path
}

func TestLoadEntry_SingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeCloud(t, dir, "dragon.ply", 1, 2, 3)

	entry := &Entry{Name: "dragon", Path: "dragon.ply"}
	vertices, err := LoadEntry(context.Background(), entry, dir)
	if err != nil {
		t.Fatalf("LoadEntry() returned error: %v", err)
	}
	if len(vertices) != 3 {
		t.Fatalf("len(vertices) = %d, want 3", len(vertices))
	}
	if vertices[2].Pos[0] != 3 {
		t.Errorf("vertices[2].Pos[0] = %v, want 3", vertices[2].Pos[0])
	}
}

func TestLoadEntry_GlobConcatenatesInLexicalOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	// Written out of order; loading must sort by filename.
	writeCloud(t, dir, "shard-b.ply", 20, 21)
	writeCloud(t, dir, "shard-a.ply", 10)
	writeCloud(t, dir, "other.txt") // no .ply suffix, not matched

	entry := &Entry{Name: "sharded", Path: "shard-*.ply"}
	vertices, err := LoadEntry(context.Background(), entry, dir)
	if err != nil {
		t.Fatalf("LoadEntry() returned error: %v", err)
	}
	if len(vertices) != 3 {
		t.Fatalf("len(vertices) = %d, want 3", len(vertices))
	}
	want := []float32{10, 20, 21}
	for i, w := range want {
		if vertices[i].Pos[0] != w {
			t.Errorf("vertices[%d].Pos[0] = %v, want %v", i, vertices[i].Pos[0], w)
		}
	}
}

func TestLoadEntry_AbsolutePath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeCloud(t, dir, "dragon.ply", 1)

	entry := &Entry{Name: "dragon", Path: path}
	vertices, err := LoadEntry(context.Background(), entry, "/unrelated/base")
	if err != nil {
		t.Fatalf("LoadEntry() returned error: %v", err)
	}
	if len(vertices) != 1 {
		t.Errorf("len(vertices) = %d, want 1", len(vertices))
	}
}

func TestLoadEntry_MissingFile(t *testing.T) {
	t.Parallel()

	entry := &Entry{Name: "dragon", Path: "nope.ply"}
	_, err := LoadEntry(context.Background(), entry, t.TempDir())
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error should wrap fs.ErrNotExist, got: %v", err)
	}
}

func TestLoadEntry_GlobMatchesNothing(t *testing.T) {
	t.Parallel()

	entry := &Entry{Name: "sharded", Path: "shard-*.ply"}
	_, err := LoadEntry(context.Background(), entry, t.TempDir())
	if err == nil {
		t.Fatal("expected error for empty glob")
	}
	if !errors.Is(err, ErrNoDatasetFiles) {
		t.Errorf("error should wrap ErrNoDatasetFiles, got: %v", err)
	}
}

func TestLoadEntry_ExpectedPointsMismatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeCloud(t, dir, "dragon.ply", 1, 2, 3)

	entry := &Entry{Name: "dragon", Path: "dragon.ply", ExpectedPoints: 5}
	_, err := LoadEntry(context.Background(), entry, dir)
	if err == nil {
		t.Fatal("expected point count error")
	}
	if !errors.Is(err, ErrPointCountMismatch) {
		t.Errorf("error should wrap ErrPointCountMismatch, got: %v", err)
	}
	var pcErr *PointCountError
	if !errors.As(err, &pcErr) {
		t.Fatalf("error should be *PointCountError, got: %T", err)
	}
	if pcErr.Want != 5 || pcErr.Got != 3 {
		t.Errorf("PointCountError = %+v, want Want 5 Got 3", pcErr)
	}
}

func TestLoadEntry_ExpectedPointsMatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeCloud(t, dir, "dragon.ply", 1, 2, 3)

	entry := &Entry{Name: "dragon", Path: "dragon.ply", ExpectedPoints: 3}
	if _, err := LoadEntry(context.Background(), entry, dir); err != nil {
		t.Errorf("LoadEntry() returned error: %v", err)
	}
}

func TestLoadEntry_ContextCanceled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeCloud(t, dir, "dragon.ply", 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	entry := &Entry{Name: "dragon", Path: "dragon.ply"}
	_, err := LoadEntry(ctx, entry, dir)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error should wrap context.Canceled, got: %v", err)
	}
}

func TestLoad_ByName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeCloud(t, dir, "dragon.ply", 1, 2)

	manifest := `
[[dataset]]
name = "dragon"
path = "dragon.ply"
`
	path := filepath.Join(dir, ManifestFileName)
	if err := os.WriteFile(path, []byte(manifest), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	m, err := ParseManifest(types.FilesystemPath(path))
	if err != nil {
		t.Fatalf("ParseManifest() returned error: %v", err)
	}

	vertices, err := m.Load(context.Background(), "dragon")
	if err != nil {
		t.Fatalf("Load(dragon) returned error: %v", err)
	}
	if len(vertices) != 2 {
		t.Errorf("len(vertices) = %d, want 2", len(vertices))
	}

	if _, err := m.Load(context.Background(), "missing"); !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("Load(missing) error = %v, want ErrDatasetNotFound", err)
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeCloud(t, dir, "direct.ply", 7)

	vertices, err := LoadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadFile() returned error: %v", err)
	}
	if len(vertices) != 1 || vertices[0].Pos[0] != 7 {
		t.Errorf("vertices = %+v", vertices)
	}

	if _, err := LoadFile(context.Background(), filepath.Join(dir, "nope.ply")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestResolveFiles_PlainPathError(t *testing.T) {
	t.Parallel()

	entry := &Entry{Name: "d", Path: "missing.ply"}
	_, err := ResolveFiles(entry, t.TempDir())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), `dataset "d"`) {
		t.Errorf("error = %q, want dataset name context", err)
	}
}

func TestHasGlobMeta(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{"dragon.ply", false},
		{"clouds/dragon.ply", false},
		{"shard-*.ply", true},
		{"shards/**/*.ply", true},
		{"cloud-?.ply", true},
		{"cloud-[ab].ply", true},
		{"cloud-{a,b}.ply", true},
	}

	for _, tt := range tests {
		if got := hasGlobMeta(tt.path); got != tt.want {
			t.Errorf("hasGlobMeta(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
