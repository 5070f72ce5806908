// SPDX-License-Identifier: MPL-2.0

package bench

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"neargrid/pkg/spiral"
)

// SpiralCacheName is the file name for a persisted table of the given shell
// radius. 'spiral gen' writes the same name so pre-generated tables are
// found by later runs.
func SpiralCacheName(shells int) string {
	return fmt.Sprintf("spiral_%d.json.gz", shells)
}

// SpiralTable returns the search table for the given shell radius, loading
// it from cacheDir when a saved copy exists and generating it otherwise.
// Freshly generated tables are saved back best-effort; cache failures are
// logged and never fail the run. An empty cacheDir skips persistence
// entirely.
func SpiralTable(cacheDir string, shells int) *spiral.Table {
	var path string
	if cacheDir != "" {
		path = filepath.Join(cacheDir, SpiralCacheName(shells))
		table, err := spiral.Load(path)
		switch {
		case err == nil:
			slog.Debug("loaded spiral table from cache", "path", path, "shells", shells)
			return table
		case !errors.Is(err, fs.ErrNotExist):
			slog.Warn("discarding unreadable spiral table cache", "path", path, "error", err)
		}
	}

	slog.Debug("generating spiral table", "shells", shells)
	table := spiral.Generate(shells)

	if path != "" {
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			slog.Warn("cannot create spiral cache directory", "dir", cacheDir, "error", err)
			return table
		}
		if err := table.Save(path); err != nil {
			slog.Warn("cannot save spiral table", "path", path, "error", err)
			return table
		}
		slog.Debug("saved spiral table", "path", path)
	}
	return table
}
