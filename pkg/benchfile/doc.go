// SPDX-License-Identifier: MPL-2.0

// Package benchfile provides types and parsing for benchfile.cue scenario
// definitions.
//
// A benchfile declares named benchmark scenarios: which dataset to index,
// how the grid is built (scale, spiral table radius), how queries are
// sampled, and optional setup/teardown hooks. This package handles CUE
// schema validation, parsing to Go structs, and scenario lookup.
//
// This package uses pkg/cueutil for CUE parsing implementation details.
// External consumers should use the exported Parse() and ParseBytes()
// functions; the CUE parsing internals are not part of the public API.
package benchfile
