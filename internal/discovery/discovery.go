// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"neargrid/internal/config"
	"neargrid/internal/dataset"
	"neargrid/pkg/benchfile"
	"neargrid/pkg/types"
)

const (
	// SourceCurrentDir indicates the file was found in the working directory
	SourceCurrentDir Source = iota
	// SourceConfigDir indicates the file was found in the neargrid config directory
	SourceConfigDir
	// SourceSearchPath indicates the file was found in a configured dataset search path
	SourceSearchPath
)

type (
	// Source represents where a file was found
	Source int

	// DiscoveredFile represents a found benchfile or dataset manifest with its source
	DiscoveredFile struct {
		// Path is the absolute path to the file
		Path string
		// Source indicates where the file was found
		Source Source
		// Manifest is the parsed content (may be nil if not yet parsed)
		Manifest *dataset.Manifest
		// Error contains any error that occurred during parsing
		Error error
	}

	// DatasetInfo describes a dataset entry found in a discovered manifest.
	DatasetInfo struct {
		// Entry is a copy of the manifest entry.
		Entry dataset.Entry
		// ManifestPath is the manifest file that declared the entry.
		ManifestPath string
		// BaseDir is the directory the entry's path resolves against.
		BaseDir string
		// Source indicates where the declaring manifest was found.
		Source Source
	}

	// Discovery handles finding benchfiles and dataset manifests
	Discovery struct {
		cfg             *config.Config
		baseDir         string
		configDir       string
		initDiagnostics []Diagnostic
	}

	// Option configures a Discovery instance.
	Option func(*Discovery)
)

// WithBaseDir overrides the working directory probed first.
func WithBaseDir(dir types.FilesystemPath) Option {
	return func(d *Discovery) {
		d.baseDir = dir.String()
	}
}

// WithConfigDir overrides the config directory probed second.
func WithConfigDir(dir types.FilesystemPath) Option {
	return func(d *Discovery) {
		d.configDir = dir.String()
	}
}

// New creates a new Discovery instance. The working directory and config
// directory are resolved here; resolution failures are recorded as init-time
// diagnostics and the affected location is skipped rather than failing
// discovery outright.
func New(cfg *config.Config, opts ...Option) *Discovery {
	d := &Discovery{cfg: cfg}
	for _, opt := range opts {
		opt(d)
	}

	if d.baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			d.initDiagnostics = append(d.initDiagnostics, Diagnostic{
				Severity: SeverityWarning,
				Code:     "working_dir_unavailable",
				Message:  fmt.Sprintf("failed to resolve working directory, skipping current-dir discovery: %v", err),
				Cause:    err,
			})
		} else {
			d.baseDir = wd
		}
	}

	if d.configDir == "" {
		cfgDir, err := config.ConfigDir()
		if err != nil {
			d.initDiagnostics = append(d.initDiagnostics, Diagnostic{
				Severity: SeverityWarning,
				Code:     "config_dir_unavailable",
				Message:  fmt.Sprintf("failed to resolve config directory, skipping config-dir discovery: %v", err),
				Cause:    err,
			})
		} else {
			d.configDir = cfgDir
		}
	}

	return d
}

// String returns a human-readable source name
func (s Source) String() string {
	switch s {
	case SourceCurrentDir:
		return "current directory"
	case SourceConfigDir:
		return "config directory"
	case SourceSearchPath:
		return "dataset search path"
	default:
		return "unknown"
	}
}

// FirstBenchfile looks for benchfile.cue in the working directory. Scenarios
// always come from the local benchfile (or an explicit --benchfile path at
// the CLI layer), never from the config directory or search paths. Returns
// nil when the working directory has no benchfile.
func (d *Discovery) FirstBenchfile() *DiscoveredFile {
	// Skip current-dir discovery when baseDir is empty (e.g., os.Getwd() failed
	// because the working directory was deleted). This prevents filepath.Abs("")
	// from silently resolving to the process working directory, which may not exist.
	if d.baseDir == "" {
		return nil
	}

	absDir, err := filepath.Abs(d.baseDir)
	if err != nil {
		slog.Warn("failed to resolve absolute path for discovery directory", "dir", d.baseDir, "error", err)
		return nil
	}

	path := filepath.Join(absDir, benchfile.DefaultFileName)
	slog.Debug("probing for benchfile", "path", path)
	if _, err := os.Stat(path); err == nil {
		return &DiscoveredFile{Path: path, Source: SourceCurrentDir}
	}

	return nil
}

// AllManifests finds dataset manifests from all sources in 3-level precedence order:
//  1. Working directory (highest precedence — the local datasets.toml)
//  2. Config directory (~/.config/neargrid or platform equivalent)
//  3. Configured dataset search paths
//
// Earlier sources take precedence when the same dataset name appears in
// multiple manifests. A directory reachable under more than one name is
// probed once.
func (d *Discovery) AllManifests() ([]*DiscoveredFile, []Diagnostic) {
	var files []*DiscoveredFile
	// Seed with any init-time diagnostics (e.g., os.Getwd or ConfigDir failures)
	// so they surface through the standard diagnostic rendering pipeline.
	diagnostics := make([]Diagnostic, 0, len(d.initDiagnostics))
	diagnostics = append(diagnostics, d.initDiagnostics...)

	probed := make(map[string]bool)

	// 1. Working directory (highest precedence)
	// Skip current-dir discovery when baseDir is empty (e.g., os.Getwd() failed
	// because the working directory was deleted).
	if d.baseDir != "" {
		files, diagnostics = d.probeManifestDir(files, diagnostics, probed, d.baseDir, SourceCurrentDir)
	}

	// 2. Config directory
	if d.configDir != "" {
		files, diagnostics = d.probeManifestDir(files, diagnostics, probed, d.configDir, SourceConfigDir)
	}

	// 3. Configured dataset search paths
	if d.cfg != nil {
		for _, searchPath := range d.cfg.DatasetSearchPaths {
			files, diagnostics = d.probeManifestDir(files, diagnostics, probed, searchPath, SourceSearchPath)
		}
	}

	return files, diagnostics
}

// probeManifestDir checks a single directory for datasets.toml and appends a
// DiscoveredFile when present. Directories already probed under another name
// are skipped so duplicate search path entries cannot double-discover a
// manifest.
func (d *Discovery) probeManifestDir(
	files []*DiscoveredFile,
	diagnostics []Diagnostic,
	probed map[string]bool,
	dir string,
	source Source,
) ([]*DiscoveredFile, []Diagnostic) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		diagnostics = append(diagnostics, Diagnostic{
			Severity: SeverityWarning,
			Code:     "manifest_scan_path_invalid",
			Message:  fmt.Sprintf("failed to resolve manifest scan path %q: %v", dir, err),
			Path:     dir,
			Cause:    err,
		})
		return files, diagnostics
	}

	// filepath.Abs returns a cleaned path, so it doubles as the dedupe key.
	if probed[absDir] {
		return files, diagnostics
	}
	probed[absDir] = true

	path := filepath.Join(absDir, dataset.ManifestFileName)
	slog.Debug("probing for dataset manifest", "path", path, "source", source.String())
	if _, err := os.Stat(path); err == nil {
		files = append(files, &DiscoveredFile{Path: path, Source: source})
	}

	return files, diagnostics
}

// LoadManifests parses all discovered manifests. Parse failures do not abort
// discovery: the failing file gets its Error field set plus a diagnostic, and
// manifests from later sources still load.
func (d *Discovery) LoadManifests() ([]*DiscoveredFile, []Diagnostic) {
	files, diagnostics := d.AllManifests()

	for _, file := range files {
		m, err := dataset.ParseManifest(types.FilesystemPath(file.Path))
		if err != nil {
			file.Error = err
			diagnostics = append(diagnostics, Diagnostic{
				Severity: SeverityWarning,
				Code:     "manifest_parse_skipped",
				Message:  fmt.Sprintf("skipping unparseable dataset manifest at %s: %v", file.Path, err),
				Path:     file.Path,
				Cause:    err,
			})
			continue
		}
		file.Manifest = m
	}

	return files, diagnostics
}

// AllDatasets lists every dataset entry declared across discovered manifests,
// sorted by name within each manifest. When the same dataset name appears in
// multiple manifests, the higher-precedence manifest wins and the shadowed
// entry is reported as a diagnostic.
func (d *Discovery) AllDatasets() ([]*DatasetInfo, []Diagnostic) {
	files, diagnostics := d.LoadManifests()

	var datasets []*DatasetInfo
	seen := make(map[string]string) // dataset name -> manifest path that won

	for _, file := range files {
		if file.Error != nil || file.Manifest == nil {
			continue
		}

		for _, entry := range file.Manifest.List() {
			if winner, ok := seen[entry.Name]; ok {
				diagnostics = append(diagnostics, Diagnostic{
					Severity: SeverityWarning,
					Code:     "dataset_shadowed",
					Message:  fmt.Sprintf("dataset %q in %s is shadowed by the one in %s", entry.Name, file.Path, winner),
					Path:     file.Path,
				})
				continue
			}
			seen[entry.Name] = file.Path

			datasets = append(datasets, &DatasetInfo{
				Entry:        entry,
				ManifestPath: file.Path,
				BaseDir:      file.Manifest.BaseDir(),
				Source:       file.Source,
			})
		}
	}

	return datasets, diagnostics
}

// LookupDataset finds the named dataset across discovered manifests in
// precedence order. Returns nil when no parseable manifest declares the name
// (the diagnostic list will contain a "dataset_not_found" entry).
func (d *Discovery) LookupDataset(name string) (*DatasetInfo, []Diagnostic) {
	files, diagnostics := d.LoadManifests()

	searched := 0
	for _, file := range files {
		if file.Error != nil || file.Manifest == nil {
			continue
		}
		searched++

		entry, err := file.Manifest.Find(name)
		if err != nil {
			continue
		}

		return &DatasetInfo{
			Entry:        *entry,
			ManifestPath: file.Path,
			BaseDir:      file.Manifest.BaseDir(),
			Source:       file.Source,
		}, diagnostics
	}

	diagnostics = append(diagnostics, Diagnostic{
		Severity: SeverityWarning,
		Code:     "dataset_not_found",
		Message:  fmt.Sprintf("dataset %q not found in %d manifest(s)", name, searched),
	})

	return nil, diagnostics
}
