// SPDX-License-Identifier: MPL-2.0

// Package version parses and orders the loosely structured version strings used by
// add-on packages and their hosts.
//
// Two forms are supported:
//
//   - [Version]: a dotted sequence of non-negative integers ("2.4.0", "2.8.0.1").
//     Missing trailing components compare as zero, so "2.8" equals "2.8.0".
//     The original text is preserved for display.
//   - [Runtime]: the coarse form reported by a language runtime ("9", "9.1.2",
//     the legacy "1.8", "1.8.0_151", "11-ea"), normalised to its feature release
//     number before comparison.
//
// Both are immutable values and safe for concurrent use.
package version
