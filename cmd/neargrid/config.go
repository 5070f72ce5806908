// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"neargrid/internal/config"
	"neargrid/internal/issue"
)

// configCmd represents the config command group
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage neargrid configuration",
	Long: `Manage neargrid configuration.

Configuration is stored in:
  - Linux: ~/.config/neargrid/config.cue
  - macOS: ~/Library/Application Support/neargrid/config.cue
  - Windows: %APPDATA%\neargrid\config.cue

Environment variables override file values: NEARGRID_UI_VERBOSE=true,
NEARGRID_PROFILE_SAMPLER=perf, and so on.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// configShowCmd prints the effective configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

// configPathCmd prints where configuration is read from
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	RunE:  runConfigPath,
}

// configInitCmd writes the default config file
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	RunE:  runConfigInit,
}

// configSetCmd updates one configuration value
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

// configDumpCmd prints the configuration as CUE
var configDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Output raw configuration as CUE",
	RunE:  runConfigDump,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configDumpCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		rendered, _ := issue.Get(issue.ConfigLoadFailedId).Render("dark")
		fmt.Fprint(os.Stderr, rendered)
		return err
	}

	// Style definitions using shared color palette
	headerStyle := TitleStyle
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Println(headerStyle.Render("Current Configuration"))
	fmt.Println()

	if path := config.ConfigFilePath(); path != "" {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	// Show values
	fmt.Printf("%s: %s\n", keyStyle.Render("reports_dir"), valueStyle.Render(cfg.ReportsDir.String()))
	if cfg.CacheDir != "" {
		fmt.Printf("%s: %s\n", keyStyle.Render("cache_dir"), valueStyle.Render(cfg.CacheDir.String()))
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("cache_dir"), SubtitleStyle.Render("(platform default)"))
	}

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("dataset_search_paths"))
	if len(cfg.DatasetSearchPaths) == 0 {
		fmt.Printf("  %s\n", SubtitleStyle.Render("(none configured)"))
	} else {
		for _, p := range cfg.DatasetSearchPaths {
			fmt.Printf("  - %s\n", valueStyle.Render(p))
		}
	}

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("profile"))
	fmt.Printf("  sampler: %s\n", valueStyle.Render(cfg.Profile.Sampler.String()))
	if cfg.Profile.PprofBinary != "" {
		fmt.Printf("  pprof_binary: %s\n", valueStyle.Render(cfg.Profile.PprofBinary.String()))
	} else {
		fmt.Printf("  pprof_binary: %s\n", SubtitleStyle.Render("(go from PATH)"))
	}

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("ui"))
	fmt.Printf("  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Printf("  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("bench"))
	fmt.Printf("  default_scale: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Bench.DefaultScale)))
	fmt.Printf("  default_iterations: %s\n", valueStyle.Render(fmt.Sprintf("%d", cfg.Bench.DefaultIterations)))

	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Printf("Config directory: %s\n", cfgDir)
	fmt.Printf("Config file: %s/%s.%s\n", cfgDir, config.ConfigFileName, config.ConfigFileExt)

	cacheDir, err := config.CacheDir()
	if err == nil {
		fmt.Printf("Cache directory: %s\n", cacheDir)
	}

	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if err = config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Printf("%s Created default configuration at %s/%s.%s\n",
		successIcon, cfgDir, config.ConfigFileName, config.ConfigFileExt)

	// Also create the spiral table cache directory
	cacheDir, err := config.CacheDir()
	if err == nil {
		if mkdirErr := config.EnsureCacheDir(); mkdirErr != nil {
			slog.Warn("failed to create cache directory", "path", cacheDir, "error", mkdirErr)
		} else {
			fmt.Printf("%s Created cache directory at %s\n", successIcon, cacheDir)
		}
	} else {
		slog.Warn("failed to determine cache directory", "error", err)
	}

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	switch key {
	case "reports_dir":
		cfg.ReportsDir = config.ReportsDirPath(value)

	case "cache_dir":
		cfg.CacheDir = config.CacheDirPath(value)

	case "profile.sampler":
		cfg.Profile.Sampler = config.SamplerEngine(value)

	case "profile.pprof_binary":
		cfg.Profile.PprofBinary = config.BinaryFilePath(value)

	case "ui.color_scheme":
		cfg.UI.ColorScheme = config.ColorScheme(value)

	case "ui.verbose":
		cfg.UI.Verbose = value == "true" || value == "1"

	case "bench.default_scale":
		scale, parseErr := strconv.ParseFloat(value, 64)
		if parseErr != nil {
			return fmt.Errorf("invalid bench.default_scale: %w", parseErr)
		}
		cfg.Bench.DefaultScale = scale

	case "bench.default_iterations":
		iterations, parseErr := strconv.Atoi(value)
		if parseErr != nil {
			return fmt.Errorf("invalid bench.default_iterations: %w", parseErr)
		}
		cfg.Bench.DefaultIterations = iterations

	default:
		return fmt.Errorf("unknown configuration key: %s\nValid keys: reports_dir, cache_dir, profile.sampler, profile.pprof_binary, ui.color_scheme, ui.verbose, bench.default_scale, bench.default_iterations", key)
	}

	// The typed fields validate themselves; this catches bad values before
	// they reach the file.
	if valid, errs := cfg.IsValid(); !valid {
		return errs[0]
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("%s Set %s = %s\n", successIcon, key, value)
	return nil
}

func runConfigDump(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Print(config.GenerateCUE(cfg))
	return nil
}
