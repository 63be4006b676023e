// SPDX-License-Identifier: MPL-2.0

// Package cmd implements the addonvet command line: validation, update and
// compatibility decisions, dependency checks and directory scans over '.zap'
// add-on archives.
package cmd
