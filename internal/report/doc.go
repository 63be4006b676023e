// SPDX-License-Identifier: MPL-2.0

// Package report turns descriptors, validation results and scan reports into
// plain documents and writes them as styled text, TOML or YAML.
package report
