// SPDX-License-Identifier: MPL-2.0

package profile

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"neargrid/internal/issue"
)

func TestFlamegraphCommand_DefaultsToGoToolPprof(t *testing.T) {
	t.Parallel()

	opts := FlamegraphOptions{ProfilePath: filepath.Join("reports", "run", "cpu.pprof")}
	out := filepath.Join("reports", "run", DefaultFlamegraphFile)

	name, args := flamegraphCommand(opts, out)
	if name != "go" {
		t.Errorf("command = %q, want go", name)
	}
	if len(args) < 5 || args[0] != "tool" || args[1] != "pprof" {
		t.Fatalf("args = %v, want a 'tool pprof' invocation", args)
	}
	if i := slices.Index(args, "-output"); i < 0 || args[i+1] != out {
		t.Errorf("args = %v, want -output followed by %q", args, out)
	}
	if !slices.Contains(args, "-svg") {
		t.Errorf("args = %v, want -svg", args)
	}
	if args[len(args)-1] != opts.ProfilePath {
		t.Errorf("last arg = %q, want the profile path", args[len(args)-1])
	}
}

func TestFlamegraphCommand_CustomBinaryAndPassThrough(t *testing.T) {
	t.Parallel()

	opts := FlamegraphOptions{
		ProfilePath: "cpu.pprof",
		PprofBinary: "/opt/pprof",
		PassThrough: []string{"-sample_index=cpu"},
	}

	name, args := flamegraphCommand(opts, "out.svg")
	if name != "/opt/pprof" {
		t.Errorf("command = %q, want the configured binary", name)
	}
	if args[0] != "-svg" {
		t.Errorf("args = %v, want no 'tool pprof' prefix for a standalone binary", args)
	}
	if !slices.Contains(args, "-sample_index=cpu") {
		t.Errorf("args = %v, want the pass-through flag", args)
	}
}

func TestFlamegraph_MissingTool(t *testing.T) {
	swapSeams(t, "linux", 0, missingTool("go"))

	_, err := Flamegraph(context.Background(), FlamegraphOptions{ProfilePath: "cpu.pprof"})

	var actionable *issue.ActionableError
	if !errors.As(err, &actionable) {
		t.Fatalf("Flamegraph() error = %v, want an actionable error", err)
	}
	if !actionable.HasSuggestions() {
		t.Error("missing-tool error carries no install suggestion")
	}
}

func TestFlamegraph_DefaultOutputNextToProfile(t *testing.T) {
	t.Parallel()

	// 'true' accepts any arguments and exits 0, standing in for pprof.
	dir := t.TempDir()
	out, err := Flamegraph(context.Background(), FlamegraphOptions{
		ProfilePath: filepath.Join(dir, "cpu.pprof"),
		PprofBinary: "true",
	})
	if err != nil {
		t.Fatalf("Flamegraph() error = %v", err)
	}
	if want := filepath.Join(dir, DefaultFlamegraphFile); out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}
