// SPDX-License-Identifier: MPL-2.0

package dataset

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"neargrid/pkg/geom"
	"neargrid/pkg/ply"
)

// ErrInvalidGenSpec is returned when a GenSpec cannot produce a cloud.
var ErrInvalidGenSpec = errors.New("invalid generation spec")

// GenSpec describes a synthetic uniform-random point cloud.
type GenSpec struct {
	// Points is the number of vertices to generate.
	Points int
	// Seed feeds the PCG source so generated clouds are reproducible.
	Seed int64
	// Min and Max are opposite corners of the sampling box. Max must
	// exceed Min on every axis.
	Min geom.Point
	Max geom.Point
}

// Validate checks the spec before generation.
func (s GenSpec) Validate() error {
	if s.Points <= 0 {
		return fmt.Errorf("%w: points must be positive, got %d", ErrInvalidGenSpec, s.Points)
	}
	for axis := 0; axis < 3; axis++ {
		if s.Max[axis] <= s.Min[axis] {
			return fmt.Errorf("%w: max must exceed min on axis %d (%v <= %v)",
				ErrInvalidGenSpec, axis, s.Max[axis], s.Min[axis])
		}
	}
	return nil
}

// Generate synthesizes a uniform-random cloud inside the spec's box.
// The same spec always yields the same cloud.
func Generate(spec GenSpec) ([]ply.Vertex, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	r := rand.New(rand.NewPCG(uint64(spec.Seed), uint64(spec.Seed)))
	vertices := make([]ply.Vertex, spec.Points)
	for i := range vertices {
		var p geom.Point
		for axis := 0; axis < 3; axis++ {
			p[axis] = spec.Min[axis] + r.Float32()*(spec.Max[axis]-spec.Min[axis])
		}
		vertices[i] = ply.Vertex{Pos: p}
	}
	return vertices, nil
}

// GenerateFile generates a cloud and writes it as ASCII PLY.
func GenerateFile(path string, spec GenSpec) error {
	vertices, err := Generate(spec)
	if err != nil {
		return err
	}
	if err := ply.WriteASCIIFile(path, vertices); err != nil {
		return fmt.Errorf("failed to write generated dataset: %w", err)
	}
	return nil
}
