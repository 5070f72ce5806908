// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/neargrid/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/neargrid/config.cue on macOS, %APPDATA%\neargrid\config.cue
// on Windows), then overridden by NEARGRID_* environment variables. The package provides
// type-safe configuration access covering report and cache locations, dataset manifest
// search paths, profiling backend selection, UI settings, and benchmark defaults.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
