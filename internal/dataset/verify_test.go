// SPDX-License-Identifier: MPL-2.0

package dataset

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"neargrid/pkg/geom"
	"neargrid/pkg/ply"
)

func TestVerifyEntry(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	vertices := []ply.Vertex{
		{Pos: geom.Point{0, 0, 0}},
		{Pos: geom.Point{2, 4, 6}},
		{Pos: geom.Point{1, 1, 1}},
	}
	path := filepath.Join(dir, "dragon.ply")
	if err := ply.WriteASCIIFile(path, vertices); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	entry := &Entry{Name: "dragon", Path: "dragon.ply", ExpectedPoints: 3}
	report, err := VerifyEntry(context.Background(), entry, dir)
	if err != nil {
		t.Fatalf("VerifyEntry() returned error: %v", err)
	}

	if report.Name != "dragon" {
		t.Errorf("Name = %q", report.Name)
	}
	if len(report.Files) != 1 || report.Files[0] != path {
		t.Errorf("Files = %v", report.Files)
	}
	if report.Points != 3 {
		t.Errorf("Points = %d, want 3", report.Points)
	}
	if !report.PointsMatch {
		t.Error("PointsMatch = false, want true")
	}

	if report.BBox.Min != (geom.Point{0, 0, 0}) {
		t.Errorf("BBox.Min = %v", report.BBox.Min)
	}
	if report.BBox.WidthX != 2 || report.BBox.WidthY != 4 || report.BBox.WidthZ != 6 {
		t.Errorf("BBox widths = %v/%v/%v, want 2/4/6",
			report.BBox.WidthX, report.BBox.WidthY, report.BBox.WidthZ)
	}
}

func TestVerifyEntry_ReportsMismatchWithoutFailing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeCloud(t, dir, "dragon.ply", 1, 2)

	entry := &Entry{Name: "dragon", Path: "dragon.ply", ExpectedPoints: 10}
	report, err := VerifyEntry(context.Background(), entry, dir)
	if err != nil {
		t.Fatalf("VerifyEntry() returned error: %v", err)
	}

	if report.PointsMatch {
		t.Error("PointsMatch = true, want false")
	}
	if report.Points != 2 || report.ExpectedPoints != 10 {
		t.Errorf("Points/ExpectedPoints = %d/%d, want 2/10", report.Points, report.ExpectedPoints)
	}
}

func TestVerifyEntry_EmptyCloud(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeCloud(t, dir, "empty.ply")

	entry := &Entry{Name: "empty", Path: "empty.ply"}
	report, err := VerifyEntry(context.Background(), entry, dir)
	if err != nil {
		t.Fatalf("VerifyEntry() returned error: %v", err)
	}
	if report.Points != 0 {
		t.Errorf("Points = %d, want 0", report.Points)
	}
	if report.BBox != (geom.BoundingBox{}) {
		t.Errorf("BBox = %+v, want zero value", report.BBox)
	}
}

func TestVerify_MissingDataset(t *testing.T) {
	t.Parallel()

	m := &Manifest{}
	_, err := m.Verify(context.Background(), "missing")
	if !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("error = %v, want ErrDatasetNotFound", err)
	}
}

func TestVerify_MissingFile(t *testing.T) {
	t.Parallel()

	m := &Manifest{Datasets: []Entry{{Name: "dragon", Path: "nope.ply"}}}
	if _, err := m.Verify(context.Background(), "dragon"); err == nil {
		t.Error("expected error for missing file")
	}
}
