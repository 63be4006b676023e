// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"runtime"
	"testing"
)

func homeEnvVar() string {
	if runtime.GOOS == "windows" {
		return "USERPROFILE"
	}
	return "HOME"
}

func TestSetHomeDir(t *testing.T) {
	tmpDir := t.TempDir()
	envVar := homeEnvVar()
	original := os.Getenv(envVar)

	cleanup := SetHomeDir(t, tmpDir)

	if got := os.Getenv(envVar); got != tmpDir {
		t.Errorf("%s = %q, want %q", envVar, got, tmpDir)
	}
	if _, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		t.Error("XDG_CONFIG_HOME should be unset")
	}

	cleanup()

	if got := os.Getenv(envVar); got != original {
		t.Errorf("After cleanup, %s = %q, want %q", envVar, got, original)
	}
}

func TestSetHomeDir_WithTCleanup(t *testing.T) {
	tmpDir := t.TempDir()
	envVar := homeEnvVar()
	original := os.Getenv(envVar)

	t.Run("subtest", func(t *testing.T) {
		t.Cleanup(SetHomeDir(t, tmpDir))

		if got := os.Getenv(envVar); got != tmpDir {
			t.Errorf("%s = %q, want %q", envVar, got, tmpDir)
		}
	})

	if got := os.Getenv(envVar); got != original {
		t.Errorf("After subtest, %s = %q, want %q", envVar, got, original)
	}
}
