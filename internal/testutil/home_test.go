// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"runtime"
	"testing"
)

// homeVar is the environment variable SetHomeDir manages on this platform.
func homeVar() string {
	if runtime.GOOS == "windows" {
		return "USERPROFILE"
	}
	return "HOME"
}

func TestSetHomeDir_SetsAndRestores(t *testing.T) {
	tmpDir := t.TempDir()
	original := os.Getenv(homeVar())

	cleanup := SetHomeDir(t, tmpDir)

	if got := os.Getenv(homeVar()); got != tmpDir {
		t.Errorf("%s = %q, want %q", homeVar(), got, tmpDir)
	}

	cleanup()

	if got := os.Getenv(homeVar()); got != original {
		t.Errorf("after cleanup, %s = %q, want %q", homeVar(), got, original)
	}
}

func TestSetHomeDir_WithTCleanup(t *testing.T) {
	tmpDir := t.TempDir()
	original := os.Getenv(homeVar())

	t.Run("subtest", func(t *testing.T) {
		t.Cleanup(SetHomeDir(t, tmpDir))

		if got := os.Getenv(homeVar()); got != tmpDir {
			t.Errorf("%s = %q, want %q", homeVar(), got, tmpDir)
		}
	})

	// The subtest's cleanup must have restored the original value.
	if got := os.Getenv(homeVar()); got != original {
		t.Errorf("after subtest, %s = %q, want %q", homeVar(), got, original)
	}
}

func TestSetHomeDir_EmptyDir(t *testing.T) {
	original := os.Getenv(homeVar())

	cleanup := SetHomeDir(t, "")

	if got := os.Getenv(homeVar()); got != "" {
		t.Errorf("%s = %q, want empty string", homeVar(), got)
	}

	cleanup()

	if got := os.Getenv(homeVar()); got != original {
		t.Errorf("after cleanup, %s = %q, want %q", homeVar(), got, original)
	}
}
