// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"

	"neargrid/pkg/types"
)

// Package-level cache so the CLI can call Get() from any command without
// re-reading the config file. Commands run sequentially; the first Load()
// happens in root command setup before any goroutines start.
var (
	globalConfig *Config
	configPath   string
	errLastLoad  error

	// configFilePathOverride forces loading from a specific file (--config flag).
	configFilePathOverride string

	// configDirOverride allows tests to override the config directory.
	// This is necessary because os.UserHomeDir() doesn't reliably respect
	// the HOME environment variable on all platforms (e.g., macOS in CI).
	configDirOverride string

	// cacheDirOverride allows tests to override the cache directory.
	cacheDirOverride string
)

// Load returns the cached configuration, loading it from disk on first use.
// Load errors are returned AND remembered (see LastLoadError) so callers that
// fall back to defaults can still surface the problem later.
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{
		ConfigFilePath: types.FilesystemPath(configFilePathOverride),
		ConfigDirPath:  types.FilesystemPath(configDirOverride),
	})
	if err != nil {
		errLastLoad = err
		return nil, err
	}

	globalConfig = cfg
	configPath = path
	errLastLoad = nil
	return cfg, nil
}

// Get returns the configuration, falling back to defaults when loading fails.
// The load error (if any) is retrievable via LastLoadError.
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// LastLoadError returns the error from the most recent load attempt,
// or nil if the last load succeeded (or none was attempted).
func LastLoadError() error {
	return errLastLoad
}

// ConfigFilePath returns the path of the config file the cached configuration
// was loaded from, or "" when defaults are in effect.
//
//nolint:revive // ConfigFilePath is more descriptive than FilePath for external callers
func ConfigFilePath() string {
	return configPath
}

// SetConfigFilePathOverride forces subsequent loads to read the given file
// (the --config flag). Clears the cache so the override takes effect.
func SetConfigFilePathOverride(path string) {
	configFilePathOverride = path
	ResetCache()
}

// SetConfigDirOverride sets a custom config directory path.
// This is primarily intended for testing to bypass os.UserHomeDir() which
// doesn't reliably respect the HOME env var on all platforms (e.g., macOS in CI).
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
	ResetCache()
}

// SetCacheDirOverride sets a custom cache directory path, bypassing the
// platform default. Primarily intended for testing.
func SetCacheDirOverride(dir string) {
	cacheDirOverride = dir
}

// ResetCache clears the cached configuration so the next Load() re-reads
// from disk. Overrides stay in place.
func ResetCache() {
	globalConfig = nil
	configPath = ""
	errLastLoad = nil
}

// Reset clears the cache and all overrides. Call from test cleanup to
// restore defaults.
func Reset() {
	ResetCache()
	configFilePathOverride = ""
	configDirOverride = ""
	cacheDirOverride = ""
}
