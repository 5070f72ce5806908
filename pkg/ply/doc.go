// SPDX-License-Identifier: MPL-2.0

// Package ply reads and writes point clouds in the polygon file format.
//
// Only the pieces needed for vertex datasets are implemented: the vertex
// element with float or double x, y and z properties, in ascii or
// binary_little_endian encoding. Other vertex properties are skipped,
// fixed-size elements before the vertex data are skipped, and anything
// after it is ignored. Writing always produces ascii output.
package ply
