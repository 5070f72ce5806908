// SPDX-License-Identifier: MPL-2.0

package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"neargrid/pkg/types"
)

const sampleManifest = `
[[dataset]]
name = "dragon"
path = "clouds/dragon.ply"
format = "ply"
expected_points = 437645
description = "Stanford dragon reconstruction"

[[dataset]]
name = "bunny-shards"
path = "shards/bunny-*.ply"
`

func TestParseManifestBytes(t *testing.T) {
	t.Parallel()

	m, err := ParseManifestBytes([]byte(sampleManifest), "/data/datasets.toml")
	if err != nil {
		t.Fatalf("ParseManifestBytes() returned error: %v", err)
	}

	if len(m.Datasets) != 2 {
		t.Fatalf("len(Datasets) = %d, want 2", len(m.Datasets))
	}
	if m.FilePath != "/data/datasets.toml" {
		t.Errorf("FilePath = %q", m.FilePath)
	}

	d := m.Datasets[0]
	if d.Name != "dragon" {
		t.Errorf("Name = %q", d.Name)
	}
	if d.Path != "clouds/dragon.ply" {
		t.Errorf("Path = %q", d.Path)
	}
	if d.Format != "ply" {
		t.Errorf("Format = %q", d.Format)
	}
	if d.ExpectedPoints != 437645 {
		t.Errorf("ExpectedPoints = %d", d.ExpectedPoints)
	}
	if d.Description != "Stanford dragon reconstruction" {
		t.Errorf("Description = %q", d.Description)
	}

	s := m.Datasets[1]
	if s.Name != "bunny-shards" || s.Path != "shards/bunny-*.ply" {
		t.Errorf("second entry = %+v", s)
	}
	if s.Format != "" {
		t.Errorf("Format = %q, want empty", s.Format)
	}
	if s.EffectiveFormat() != FormatPLY {
		t.Errorf("EffectiveFormat() = %q, want %q", s.EffectiveFormat(), FormatPLY)
	}
	if s.ExpectedPoints != 0 {
		t.Errorf("ExpectedPoints = %d, want 0 (unpinned)", s.ExpectedPoints)
	}
}

func TestParseManifestBytes_EmptyManifestValid(t *testing.T) {
	t.Parallel()

	m, err := ParseManifestBytes([]byte(""), "datasets.toml")
	if err != nil {
		t.Fatalf("ParseManifestBytes() returned error: %v", err)
	}
	if len(m.Datasets) != 0 {
		t.Errorf("len(Datasets) = %d, want 0", len(m.Datasets))
	}
}

func TestParseManifestBytes_UnknownKeyRejected(t *testing.T) {
	t.Parallel()

	content := `
[[dataset]]
name = "dragon"
path = "dragon.ply"
points = 100
`
	if _, err := ParseManifestBytes([]byte(content), "datasets.toml"); err == nil {
		t.Error("expected error for unknown key, got nil")
	}
}

func TestParseManifestBytes_MalformedTOML(t *testing.T) {
	t.Parallel()

	_, err := ParseManifestBytes([]byte(`[[dataset]`), "datasets.toml")
	if err == nil {
		t.Fatal("expected parse error, got nil")
	}
	if !strings.Contains(err.Error(), "failed to parse dataset manifest") {
		t.Errorf("error = %q", err)
	}
}

func TestParseManifestBytes_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name: "uppercase name",
			content: `
[[dataset]]
name = "Dragon"
path = "dragon.ply"
`,
			wantMsg: "invalid dataset name",
		},
		{
			name: "duplicate name",
			content: `
[[dataset]]
name = "dragon"
path = "a.ply"

[[dataset]]
name = "dragon"
path = "b.ply"
`,
			wantMsg: `duplicate dataset name "dragon"`,
		},
		{
			name: "missing path",
			content: `
[[dataset]]
name = "dragon"
`,
			wantMsg: "path must be set",
		},
		{
			name: "unsupported format",
			content: `
[[dataset]]
name = "dragon"
path = "dragon.xyz"
format = "xyz"
`,
			wantMsg: `unsupported format "xyz"`,
		},
		{
			name: "negative expected_points",
			content: `
[[dataset]]
name = "dragon"
path = "dragon.ply"
expected_points = -1
`,
			wantMsg: "expected_points must not be negative",
		},
		{
			name: "whitespace-only description",
			content: `
[[dataset]]
name = "dragon"
path = "dragon.ply"
description = "   "
`,
			wantMsg: "invalid description text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseManifestBytes([]byte(tt.content), "datasets.toml")
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !errors.Is(err, ErrInvalidManifest) {
				t.Errorf("error should wrap ErrInvalidManifest, got: %v", err)
			}
			var manErr *InvalidManifestError
			if !errors.As(err, &manErr) {
				t.Fatalf("error should be *InvalidManifestError, got: %T", err)
			}
			found := false
			for _, fe := range manErr.FieldErrors {
				if strings.Contains(fe.Error(), tt.wantMsg) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("FieldErrors = %v, want message containing %q", manErr.FieldErrors, tt.wantMsg)
			}
		})
	}
}

func TestParseManifest_File(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ManifestFileName)
	if err := os.WriteFile(path, []byte(sampleManifest), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	m, err := ParseManifest(types.FilesystemPath(path))
	if err != nil {
		t.Fatalf("ParseManifest() returned error: %v", err)
	}
	if m.BaseDir() != tmpDir {
		t.Errorf("BaseDir() = %q, want %q", m.BaseDir(), tmpDir)
	}
}

func TestParseManifest_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := ParseManifest("/does/not/exist/datasets.toml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "failed to read dataset manifest") {
		t.Errorf("error = %q", err)
	}
}

func TestFind(t *testing.T) {
	t.Parallel()

	m, err := ParseManifestBytes([]byte(sampleManifest), "/data/datasets.toml")
	if err != nil {
		t.Fatalf("ParseManifestBytes() returned error: %v", err)
	}

	entry, err := m.Find("dragon")
	if err != nil {
		t.Fatalf("Find(dragon) returned error: %v", err)
	}
	if entry.Name != "dragon" {
		t.Errorf("Name = %q", entry.Name)
	}

	_, err = m.Find("missing")
	if err == nil {
		t.Fatal("Find(missing) returned nil error")
	}
	if !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("error should wrap ErrDatasetNotFound, got: %v", err)
	}
	var nfErr *NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("error should be *NotFoundError, got: %T", err)
	}
	if nfErr.Name != "missing" || nfErr.Manifest != "/data/datasets.toml" {
		t.Errorf("NotFoundError = %+v", nfErr)
	}
}

func TestList_SortedByName(t *testing.T) {
	t.Parallel()

	m := &Manifest{Datasets: []Entry{
		{Name: "zebra", Path: "z.ply"},
		{Name: "alpha", Path: "a.ply"},
	}}

	entries := m.List()
	if len(entries) != 2 || entries[0].Name != "alpha" || entries[1].Name != "zebra" {
		t.Errorf("List() = %+v, want sorted by name", entries)
	}

	// The manifest's own slice keeps file order.
	if m.Datasets[0].Name != "zebra" {
		t.Errorf("List() mutated the manifest: %+v", m.Datasets)
	}
}

func TestBaseDir_Unset(t *testing.T) {
	t.Parallel()

	m := &Manifest{}
	if m.BaseDir() != "." {
		t.Errorf("BaseDir() = %q, want .", m.BaseDir())
	}
}

func TestGenerateTOML_RoundTrip(t *testing.T) {
	t.Parallel()

	m := &Manifest{Datasets: []Entry{
		{
			Name:           "dragon",
			Path:           "clouds/dragon.ply",
			ExpectedPoints: 1000,
			Description:    "test cloud",
		},
		{Name: "bunny", Path: "bunny.ply"},
	}}

	out, err := GenerateTOML(m)
	if err != nil {
		t.Fatalf("GenerateTOML() returned error: %v", err)
	}
	if !strings.HasPrefix(out, "# Dataset manifest for neargrid") {
		t.Errorf("generated output missing header:\n%s", out)
	}

	parsed, err := ParseManifestBytes([]byte(out), "datasets.toml")
	if err != nil {
		t.Fatalf("generated TOML failed to parse: %v\n%s", err, out)
	}
	if len(parsed.Datasets) != 2 {
		t.Fatalf("len(Datasets) = %d, want 2", len(parsed.Datasets))
	}
	if parsed.Datasets[0] != m.Datasets[0] {
		t.Errorf("round trip changed entry: %+v != %+v", parsed.Datasets[0], m.Datasets[0])
	}

	// Unpinned and undescribed fields stay out of the file.
	if strings.Contains(out, "expected_points = 0") || strings.Contains(out, `description = ""`) {
		t.Errorf("generated output should omit zero-value optional fields:\n%s", out)
	}
}
