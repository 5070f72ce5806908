// SPDX-License-Identifier: MPL-2.0

package profile

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"neargrid/internal/issue"
)

// DefaultFlamegraphFile is the default output name for rendered flamegraphs.
const DefaultFlamegraphFile = "flamegraph.svg"

// FlamegraphOptions configures rendering a captured CPU profile to SVG.
type FlamegraphOptions struct {
	// ProfilePath is the captured CPU profile. Required.
	ProfilePath string

	// OutputPath is the SVG destination. Empty renders
	// DefaultFlamegraphFile next to the profile.
	OutputPath string

	// PprofBinary overrides the renderer with a standalone pprof. Empty
	// uses 'go tool pprof'.
	PprofBinary string

	// PassThrough args are inserted into the tool invocation before the
	// profile path.
	PassThrough []string

	// Stdout and Stderr receive tool output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer
}

// Flamegraph renders the profile to an SVG with the external pprof and
// returns the output path.
func Flamegraph(ctx context.Context, opts FlamegraphOptions) (string, error) {
	out := opts.OutputPath
	if out == "" {
		out = filepath.Join(filepath.Dir(opts.ProfilePath), DefaultFlamegraphFile)
	}

	name, args := flamegraphCommand(opts, out)
	if _, err := lookPath(name); err != nil {
		return "", issue.NewErrorContext().
			WithOperation("render flamegraph").
			WithResource(name).
			WithSuggestions(
				"install Go from https://go.dev/dl/ so 'go tool pprof' is available",
				"or point profile.pprof_binary in config.cue at a standalone pprof",
			).
			Wrap(err).
			Build()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("flamegraph rendering failed (%s %s): %w", name, strings.Join(args, " "), err)
	}
	return out, nil
}

// flamegraphCommand builds the render invocation. The profile carries its
// own symbols, but passing the binary lets pprof resolve anything stripped
// from them.
func flamegraphCommand(opts FlamegraphOptions, out string) (string, []string) {
	name := opts.PprofBinary
	var args []string
	if name == "" {
		name = "go"
		args = []string{"tool", "pprof"}
	}
	args = append(args, "-svg", "-output", out)
	args = append(args, opts.PassThrough...)
	if exe, err := os.Executable(); err == nil {
		args = append(args, exe)
	}
	args = append(args, opts.ProfilePath)
	return name, args
}
