// SPDX-License-Identifier: MPL-2.0

package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"neargrid/pkg/ply"
)

var (
	// ErrNoDatasetFiles means an entry's path glob matched nothing.
	ErrNoDatasetFiles = errors.New("no dataset files matched")
	// ErrPointCountMismatch is the sentinel error wrapped by PointCountError.
	ErrPointCountMismatch = errors.New("dataset point count mismatch")
)

// PointCountError is returned when a loaded dataset does not contain the
// expected_points pinned in its manifest entry. It wraps
// ErrPointCountMismatch for errors.Is() compatibility.
type PointCountError struct {
	Name string
	Want int64
	Got  int64
}

// Error implements the error interface.
func (e *PointCountError) Error() string {
	return fmt.Sprintf("dataset %q: expected %d points, got %d", e.Name, e.Want, e.Got)
}

// Unwrap returns ErrPointCountMismatch for errors.Is() compatibility.
func (e *PointCountError) Unwrap() error { return ErrPointCountMismatch }

// Load resolves the named entry and reads its vertices. Shorthand for
// Find followed by LoadEntry with the manifest's base directory.
func (m *Manifest) Load(ctx context.Context, name string) ([]ply.Vertex, error) {
	entry, err := m.Find(name)
	if err != nil {
		return nil, err
	}
	return LoadEntry(ctx, entry, m.BaseDir())
}

// LoadEntry reads every file the entry's path matches and concatenates
// their vertices in lexical file order. When the entry pins
// expected_points, a total that differs returns a PointCountError.
func LoadEntry(ctx context.Context, entry *Entry, baseDir string) ([]ply.Vertex, error) {
	files, err := ResolveFiles(entry, baseDir)
	if err != nil {
		return nil, err
	}

	var vertices []ply.Vertex
	for _, file := range files {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("load dataset %q canceled: %w", entry.Name, ctx.Err())
		default:
		}

		verts, err := ply.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("dataset %q: %w", entry.Name, err)
		}
		slog.Debug("loaded dataset file", "dataset", entry.Name, "file", file, "points", len(verts))
		vertices = append(vertices, verts...)
	}

	if entry.ExpectedPoints > 0 && int64(len(vertices)) != entry.ExpectedPoints {
		return nil, &PointCountError{
			Name: entry.Name,
			Want: entry.ExpectedPoints,
			Got:  int64(len(vertices)),
		}
	}

	slog.Debug("dataset loaded", "dataset", entry.Name, "files", len(files), "points", len(vertices))
	return vertices, nil
}

// LoadFile reads a single PLY file named directly by a scenario's
// dataset_path, bypassing the manifest.
func LoadFile(ctx context.Context, path string) ([]ply.Vertex, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load dataset file canceled: %w", ctx.Err())
	default:
	}

	verts, err := ply.ReadFile(path)
	if err != nil {
		return nil, err
	}
	slog.Debug("loaded dataset file", "file", path, "points", len(verts))
	return verts, nil
}

// ResolveFiles expands the entry's path into concrete files, sorted
// lexically. Relative paths resolve against baseDir. A plain path must
// exist; a glob must match at least one file.
func ResolveFiles(entry *Entry, baseDir string) ([]string, error) {
	path := entry.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	if !hasGlobMeta(entry.Path) {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("dataset %q: %w", entry.Name, err)
		}
		return []string{path}, nil
	}

	matches, err := doublestar.FilepathGlob(path)
	if err != nil {
		return nil, fmt.Errorf("dataset %q: bad path glob %q: %w", entry.Name, entry.Path, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("dataset %q: %w by %q", entry.Name, ErrNoDatasetFiles, entry.Path)
	}

	slices.Sort(matches)
	return matches, nil
}

// hasGlobMeta reports whether the path contains doublestar metacharacters.
func hasGlobMeta(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}
