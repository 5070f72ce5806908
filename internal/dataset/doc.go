// SPDX-License-Identifier: MPL-2.0

// Package dataset loads point-cloud datasets declared in datasets.toml
// manifests. A manifest entry names a PLY file (or a doublestar glob over
// sharded PLY files) and optionally pins the expected point count so runs
// fail fast on a truncated download. The package also synthesizes
// uniform-random clouds for fixtures and the 'dataset gen' command.
package dataset
