// SPDX-License-Identifier: MPL-2.0

package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"neargrid/pkg/types"
)

// Environment variables exposed to hook scripts.
const (
	// EnvScenario carries the scenario name.
	EnvScenario = "NEARGRID_SCENARIO"
	// EnvDataset carries the dataset name or path.
	EnvDataset = "NEARGRID_DATASET"
	// EnvRunID carries the run identifier, so hooks can tag artifacts they
	// produce with the run they belong to.
	EnvRunID = "NEARGRID_RUN_ID"
)

// ErrHookFailed indicates a hook script that exited non-zero.
var ErrHookFailed = errors.New("hook failed")

// HookError carries which hook failed and its exit status. The CLI layer
// propagates the code as the process exit status.
type HookError struct {
	// Hook is "setup" or "teardown".
	Hook string
	// ExitCode is the script's exit status.
	ExitCode types.ExitCode
}

// Error implements the error interface.
func (e *HookError) Error() string {
	return fmt.Sprintf("%s hook exited with status %d", e.Hook, e.ExitCode)
}

// Unwrap returns ErrHookFailed so callers can match with errors.Is.
func (e *HookError) Unwrap() error { return ErrHookFailed }

// hookEnv returns the process environment extended with the variables hook
// scripts receive.
func hookEnv(scenario, dataset, runID string) []string {
	return append(os.Environ(),
		EnvScenario+"="+scenario,
		EnvDataset+"="+dataset,
		EnvRunID+"="+runID,
	)
}

// runHook parses and executes one hook script with the embedded POSIX shell,
// so benchfiles behave the same on every platform. Scripts run in the
// current working directory with the given environment; a non-zero exit
// becomes a HookError.
func runHook(ctx context.Context, hook, script string, env []string, stdout, stderr io.Writer) error {
	prog, err := syntax.NewParser().Parse(strings.NewReader(script), hook)
	if err != nil {
		return fmt.Errorf("parse %s hook: %w", hook, err)
	}

	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	runner, err := interp.New(
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(nil, stdout, stderr),
	)
	if err != nil {
		return fmt.Errorf("create %s hook interpreter: %w", hook, err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return &HookError{Hook: hook, ExitCode: types.ExitCode(exitStatus)}
		}
		return fmt.Errorf("run %s hook: %w", hook, err)
	}
	return nil
}
