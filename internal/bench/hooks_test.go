// SPDX-License-Identifier: MPL-2.0

package bench

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestRunHook_WritesStdout(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	err := runHook(context.Background(), "setup", "echo hello", nil, &stdout, &stderr)
	if err != nil {
		t.Fatalf("runHook() error = %v", err)
	}
	if got := stdout.String(); got != "hello\n" {
		t.Errorf("stdout = %q, want %q", got, "hello\n")
	}
	if stderr.Len() != 0 {
		t.Errorf("stderr = %q, want empty", stderr.String())
	}
}

func TestRunHook_ExitStatus(t *testing.T) {
	t.Parallel()

	err := runHook(context.Background(), "teardown", "exit 3", nil, nil, nil)
	if !errors.Is(err, ErrHookFailed) {
		t.Fatalf("runHook() error = %v, want ErrHookFailed", err)
	}

	var hookErr *HookError
	if !errors.As(err, &hookErr) {
		t.Fatalf("error %v is not a *HookError", err)
	}
	if hookErr.Hook != "teardown" {
		t.Errorf("Hook = %q, want %q", hookErr.Hook, "teardown")
	}
	if hookErr.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", hookErr.ExitCode)
	}
	if want := "teardown hook exited with status 3"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestRunHook_ParseError(t *testing.T) {
	t.Parallel()

	err := runHook(context.Background(), "setup", "for", nil, nil, nil)
	if err == nil {
		t.Fatal("runHook() with unparsable script returned nil error")
	}
	if !strings.Contains(err.Error(), "parse setup hook") {
		t.Errorf("error = %q, want parse failure mention", err)
	}
	if errors.Is(err, ErrHookFailed) {
		t.Error("parse failures must not masquerade as hook exit failures")
	}
}

func TestRunHook_Environment(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	env := hookEnv("dragon-default", "dragon", "run-123")
	script := `echo "$NEARGRID_SCENARIO:$NEARGRID_DATASET:$NEARGRID_RUN_ID"`
	if err := runHook(context.Background(), "setup", script, env, &stdout, nil); err != nil {
		t.Fatalf("runHook() error = %v", err)
	}
	if got, want := strings.TrimSpace(stdout.String()), "dragon-default:dragon:run-123"; got != want {
		t.Errorf("hook saw %q, want %q", got, want)
	}
}

func TestHookEnv_AppendsVariables(t *testing.T) {
	t.Parallel()

	env := hookEnv("demo", "tiny", "id-1")

	for _, want := range []string{
		"NEARGRID_SCENARIO=demo",
		"NEARGRID_DATASET=tiny",
		"NEARGRID_RUN_ID=id-1",
	} {
		if !slices.Contains(env, want) {
			t.Errorf("hook environment is missing %q", want)
		}
	}
	if len(env) < 4 {
		t.Error("hook environment does not extend the process environment")
	}
}
