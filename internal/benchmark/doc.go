// SPDX-License-Identifier: MPL-2.0

// Package benchmark holds benchmarks for the hot paths of addonvet, usable
// for PGO profile generation:
//   - version parsing and ordering
//   - archive validation and descriptor construction
//   - catalog parsing
//   - directory scans
//
// To generate a profile, run:
//
//	go test -run '^$' -bench . -cpuprofile default.pgo ./internal/benchmark
package benchmark
