// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities.
//
// ParseAndDecode runs the three-step flow used for configuration files:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify with schema
//  3. Validate and decode to a Go value
//
// Errors carry the file name and the JSON-style path of the offending field
// (for example "config.cue: scan.concurrency: conflicting values").
package cueutil
