// SPDX-License-Identifier: MPL-2.0

package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"neargrid/pkg/types"
)

const (
	// ManifestFileName is the manifest filename looked up during discovery.
	ManifestFileName = "datasets.toml"

	// FormatPLY is the only dataset format currently supported. An empty
	// format field in a manifest entry means FormatPLY.
	FormatPLY = "ply"
)

var (
	// ErrInvalidManifest is the sentinel error wrapped by InvalidManifestError.
	ErrInvalidManifest = errors.New("invalid dataset manifest")
	// ErrDatasetNotFound is the sentinel error wrapped by NotFoundError.
	ErrDatasetNotFound = errors.New("dataset not found")
)

type (
	// Manifest is a parsed datasets.toml file.
	Manifest struct {
		// Datasets holds the [[dataset]] entries in file order.
		Datasets []Entry `toml:"dataset"`

		// FilePath is where the manifest was loaded from. Relative entry
		// paths resolve against its directory. Not serialized.
		FilePath types.FilesystemPath `toml:"-"`
	}

	// Entry declares one dataset.
	Entry struct {
		// Name is the key scenarios reference via their dataset field.
		Name string `toml:"name"`
		// Path locates the PLY file, relative to the manifest directory
		// unless absolute. Doublestar globs (e.g. "shards/*.ply") load
		// every matching file in lexical order.
		Path string `toml:"path"`
		// Format of the files. Empty means "ply".
		Format string `toml:"format,omitempty"`
		// ExpectedPoints, when positive, pins the total vertex count.
		ExpectedPoints int64 `toml:"expected_points,omitempty"`
		// Description is free-form documentation shown by 'dataset list'.
		Description types.DescriptionText `toml:"description,omitempty"`
	}

	// InvalidManifestError is returned when a manifest has invalid entries.
	// It wraps ErrInvalidManifest for errors.Is() compatibility and collects
	// entry-level validation errors.
	InvalidManifestError struct {
		Path        types.FilesystemPath
		FieldErrors []error
	}

	// NotFoundError is returned when Find misses. It wraps
	// ErrDatasetNotFound for errors.Is() compatibility.
	NotFoundError struct {
		Name     string
		Manifest types.FilesystemPath
	}
)

// Error implements the error interface for InvalidManifestError.
func (e *InvalidManifestError) Error() string {
	return fmt.Sprintf("invalid dataset manifest %s: %d entry error(s)", e.Path, len(e.FieldErrors))
}

// Unwrap returns ErrInvalidManifest for errors.Is() compatibility.
func (e *InvalidManifestError) Unwrap() error { return ErrInvalidManifest }

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	if e.Manifest == "" {
		return fmt.Sprintf("dataset %q not found", e.Name)
	}
	return fmt.Sprintf("dataset %q not found in %s", e.Name, e.Manifest)
}

// Unwrap returns ErrDatasetNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrDatasetNotFound }

// ParseManifest reads and parses a datasets.toml file.
func ParseManifest(path types.FilesystemPath) (*Manifest, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset manifest at %s: %w", path, err)
	}
	return ParseManifestBytes(data, path)
}

// ParseManifestBytes parses manifest content. path is recorded on the
// returned Manifest and used in error messages; it does not need to exist
// on disk.
func ParseManifestBytes(data []byte, path types.FilesystemPath) (*Manifest, error) {
	var m Manifest

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse dataset manifest %s: %w", path, err)
	}

	m.FilePath = path
	if errs := m.Validate(); len(errs) > 0 {
		return nil, &InvalidManifestError{Path: path, FieldErrors: errs}
	}

	return &m, nil
}

// Validate checks every entry and returns all problems found. An empty
// manifest is valid; scenarios can still reference PLY files directly via
// dataset_path.
func (m *Manifest) Validate() []error {
	var errs []error

	seen := make(map[string]bool, len(m.Datasets))
	for i, e := range m.Datasets {
		field := fmt.Sprintf("dataset[%d]", i)

		if valid, nameErrs := DatasetName(e.Name).IsValid(); !valid {
			errs = append(errs, fmt.Errorf("%s: %w", field, nameErrs[0]))
		} else if seen[e.Name] {
			errs = append(errs, fmt.Errorf("%s: duplicate dataset name %q", field, e.Name))
		}
		seen[e.Name] = true

		if strings.TrimSpace(e.Path) == "" {
			errs = append(errs, fmt.Errorf("%s: path must be set", field))
		}
		if e.Format != "" && e.Format != FormatPLY {
			errs = append(errs, fmt.Errorf("%s: unsupported format %q (only %q)", field, e.Format, FormatPLY))
		}
		if e.ExpectedPoints < 0 {
			errs = append(errs, fmt.Errorf("%s: expected_points must not be negative, got %d", field, e.ExpectedPoints))
		}
		if valid, descErrs := e.Description.IsValid(); !valid {
			errs = append(errs, fmt.Errorf("%s: %w", field, descErrs[0]))
		}
	}

	return errs
}

// Find returns the entry with the given name, or a NotFoundError.
func (m *Manifest) Find(name string) (*Entry, error) {
	for i := range m.Datasets {
		if m.Datasets[i].Name == name {
			entry := m.Datasets[i]
			return &entry, nil
		}
	}
	return nil, &NotFoundError{Name: name, Manifest: m.FilePath}
}

// List returns a copy of the entries sorted by name.
func (m *Manifest) List() []Entry {
	entries := slices.Clone(m.Datasets)
	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.Name, b.Name)
	})
	return entries
}

// BaseDir returns the directory relative entry paths resolve against.
func (m *Manifest) BaseDir() string {
	if m.FilePath == "" {
		return "."
	}
	return filepath.Dir(string(m.FilePath))
}

// EffectiveFormat returns the entry format, defaulting to FormatPLY.
func (e *Entry) EffectiveFormat() string {
	if e.Format == "" {
		return FormatPLY
	}
	return e.Format
}

// GenerateTOML renders a manifest back to TOML with a usage header.
// 'neargrid init' writes its starter datasets.toml through here.
func GenerateTOML(m *Manifest) (string, error) {
	body, err := toml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to marshal dataset manifest: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# Dataset manifest for neargrid\n")
	sb.WriteString("# Each [[dataset]] entry names a PLY point cloud that scenarios\n")
	sb.WriteString("# can reference. Paths are relative to this file.\n\n")
	sb.Write(body)
	return sb.String(), nil
}
