// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include environment variable management (MustSetenv, MustUnsetenv),
// add-on archive fixtures (Manifest, WriteAddOn, WriteZip) and a controllable
// clock for modification-time tie-breaks (FakeClock).
package testutil
