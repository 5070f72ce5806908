// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/fang"
	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"neargrid/internal/config"
	"neargrid/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "neargrid",
		Short: "A nearest-neighbor grid benchmark harness",
		Long: TitleStyle.Render("neargrid") + SubtitleStyle.Render(" - A nearest-neighbor grid benchmark harness") + `

neargrid builds uniform-grid spatial indexes over PLY point clouds and
measures how they behave: construction time, query throughput, bucket
distribution. Scenarios are defined in 'benchfile.cue' files using CUE
format; datasets are declared in 'datasets.toml' manifests.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Run 'neargrid init' to create a starter benchfile and manifest
  2. Run 'neargrid dataset gen --points 100000 --output cloud.ply'
  3. Run scenarios with: neargrid bench run <scenario>

` + SubtitleStyle.Render("Examples:") + `
  neargrid bench list           List all scenarios in the benchfile
  neargrid bench run smoke      Run the 'smoke' scenario
  neargrid profile cpu smoke    Capture a CPU profile of a run
  neargrid dataset list         List datasets from discovered manifests
  neargrid config show          Show current configuration`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/neargrid/config.cue)")

	// Add subcommands
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(spiralCmd)
	rootCmd.AddCommand(datasetCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(completionCmd)
}

// getVersionString returns a formatted version string for display.
// Precedence: ldflags-injected version, then module build info (go install),
// then the dev fallback.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return "dev (built from source)"
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// initRootConfig reads in config file and ENV variables if set.
func initRootConfig() {
	// Set custom config file path if provided via --config flag
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Always surface config loading errors to the user
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}

	// Apply verbose from config if not set via flag
	if cfg != nil && !verbose {
		verbose = cfg.UI.Verbose
	}

	setupLogging(verbose)
}

// setupLogging routes the slog default logger through charmbracelet/log so
// internal packages (which log via log/slog) share the CLI's styling. Verbose
// mode lowers the threshold to debug; otherwise only warnings surface.
func setupLogging(verboseMode bool) {
	level := charmlog.WarnLevel
	if verboseMode {
		level = charmlog.DebugLevel
	}
	handler := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// GetVerbose returns the verbose flag value
func GetVerbose() bool {
	return verbose
}
