// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"neargrid/internal/config"
	"neargrid/internal/dataset"
	"neargrid/pkg/types"
)

// newTestDiscovery creates a Discovery instance with standard test directories.
// Default baseDir=tmpDir, configDir=tmpDir/config-dir. Extra opts override defaults.
func newTestDiscovery(t *testing.T, cfg *config.Config, tmpDir string, opts ...Option) *Discovery {
	t.Helper()
	defaults := []Option{
		WithBaseDir(types.FilesystemPath(tmpDir)),
		WithConfigDir(types.FilesystemPath(filepath.Join(tmpDir, "config-dir"))),
	}
	return New(cfg, append(defaults, opts...)...)
}

// writeManifest writes a datasets.toml into dir declaring one entry per name,
// each pointing at "<name>.ply". Returns the manifest path.
func writeManifest(t *testing.T, dir string, names ...string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create manifest dir: %v", err)
	}

	var sb strings.Builder
	for _, name := range names {
		fmt.Fprintf(&sb, "[[dataset]]\nname = %q\npath = %q\n\n", name, name+".ply")
	}

	path := filepath.Join(dir, dataset.ManifestFileName)
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return path
}

func containsDiagnostic(diags []Diagnostic, code, path string) bool {
	for _, diag := range diags {
		if diag.Code == code && diag.Path == path {
			return true
		}
	}

	return false
}
