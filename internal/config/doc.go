// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/addonvet/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/addonvet/config.cue on macOS, %APPDATA%\addonvet\config.cue
// on Windows), falling back to ./config.cue. Every key can be overridden with an
// ADDONVET_* environment variable (ADDONVET_HOST_VERSION, ADDONVET_SCAN_CONCURRENCY, ...).
//
// Configuration validation is performed against a CUE schema (config_schema.cue) and then
// against the typed IsValid checks, which know about version syntax and glob patterns.
package config
