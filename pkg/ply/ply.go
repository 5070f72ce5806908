// SPDX-License-Identifier: MPL-2.0

package ply

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"neargrid/pkg/geom"
)

var (
	// ErrNotPLY means the input does not start with the "ply" magic line.
	ErrNotPLY = errors.New("not a ply file")
	// ErrUnsupportedFormat means the header declares an encoding other
	// than ascii or binary_little_endian.
	ErrUnsupportedFormat = errors.New("unsupported ply format")
	// ErrNoVertexElement means the header declares no vertex element.
	ErrNoVertexElement = errors.New("ply header has no vertex element")
)

// Vertex is one point record. It satisfies the PointSource contract of
// pkg/grid, so a vertex slice can be indexed directly.
type Vertex struct {
	Pos geom.Point
}

// Position returns the vertex coordinates.
func (v Vertex) Position() geom.Point { return v.Pos }

// Read parses a PLY stream and returns the vertices of its vertex element.
func Read(r io.Reader) ([]Vertex, error) {
	br := bufio.NewReaderSize(r, 1<<16)
	h, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	for _, elem := range h.elements {
		if elem.name == "vertex" {
			return readVertices(br, h.format, elem)
		}
		if err := skipElement(br, h.format, elem); err != nil {
			return nil, err
		}
	}
	return nil, ErrNoVertexElement
}

// ReadFile reads a PLY file from disk. See Read.
func ReadFile(path string) ([]Vertex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	vertices, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return vertices, nil
}
