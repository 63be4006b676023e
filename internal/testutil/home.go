// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// SetHomeDir points the platform home directory variable at dir and returns a
// cleanup function that restores it. Windows uses USERPROFILE, everything else HOME.
//
// XDG_CONFIG_HOME is unset for the duration so that configuration lookups
// resolve under dir:
//
//	t.Cleanup(testutil.SetHomeDir(t, t.TempDir()))
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()

	restoreXDG := MustUnsetenv(t, "XDG_CONFIG_HOME")
	var restoreHome func()
	switch runtime.GOOS {
	case "windows":
		restoreHome = MustSetenv(t, "USERPROFILE", dir)
	default:
		restoreHome = MustSetenv(t, "HOME", dir)
	}
	return func() {
		restoreHome()
		restoreXDG()
	}
}
