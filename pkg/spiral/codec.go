// SPDX-License-Identifier: MPL-2.0

package spiral

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// formatVersion is the on-disk table format. Bump when the wire layout
// changes; Decode rejects versions it does not know.
const formatVersion = 1

// ErrUnsupportedVersion is returned when a persisted table was written by an
// unknown format version.
var ErrUnsupportedVersion = errors.New("unsupported spiral table version")

// tableWire is the persisted envelope. Tables are stored as gzip-compressed
// JSON; at radius 100 the canonical cell list compresses to a few megabytes.
type tableWire struct {
	Version int    `json:"version"`
	Radius  int    `json:"radius"`
	Cells   []Cell `json:"cells"`
}

// Encode writes the table to w in the versioned gzip+JSON format.
func (t *Table) Encode(w io.Writer) error {
	zw := gzip.NewWriter(w)
	enc := json.NewEncoder(zw)
	if err := enc.Encode(tableWire{Version: formatVersion, Radius: t.Radius, Cells: t.Cells}); err != nil {
		zw.Close() //nolint:errcheck // encode error takes precedence
		return fmt.Errorf("spiral: encode table: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("spiral: flush table: %w", err)
	}
	return nil
}

// Decode reads a table in the format written by Encode.
func Decode(r io.Reader) (*Table, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("spiral: open compressed table: %w", err)
	}
	defer zr.Close() //nolint:errcheck // read side, close error not actionable

	var wire tableWire
	if err := json.NewDecoder(zr).Decode(&wire); err != nil {
		return nil, fmt.Errorf("spiral: decode table: %w", err)
	}
	if wire.Version != formatVersion {
		return nil, fmt.Errorf("spiral: table version %d: %w", wire.Version, ErrUnsupportedVersion)
	}
	return &Table{Cells: wire.Cells, Radius: wire.Radius}, nil
}

// Save writes the table to path, creating or truncating the file.
func (t *Table) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("spiral: create %q: %w", path, err)
	}
	if err := t.Encode(f); err != nil {
		f.Close() //nolint:errcheck // encode error takes precedence
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("spiral: close %q: %w", path, err)
	}
	return nil
}

// Load reads a table previously written by Save.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("spiral: open %q: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // read side, close error not actionable

	return Decode(f)
}
