// SPDX-License-Identifier: MPL-2.0

// Package addon decides whether add-on packages can be trusted and activated.
//
// An add-on is a zip archive with a ".zap" extension that carries a ZapAddOn.xml
// manifest declaring its version, maturity status, dependencies and optional
// resource metadata.
//
// # Validation
//
// [Validate] classifies a candidate path with a strict precedence chain and never
// returns an error: every outcome, including I/O failures, is encoded in the
// [ValidationResult]. A directory named "x.zap" is therefore FileNotReadable,
// never MissingManifest.
//
// # Descriptors
//
// A [Descriptor] is the immutable record of one add-on. It is built by one of
// three explicit constructors:
//   - [NewFromFileName]: the legacy "<id>-<status>-<fileVersion>.zap" naming scheme
//   - [NewFromArchive] / [NewFromValidation]: a validated archive; only the id comes
//     from the file name, everything else from the manifest
//   - [Catalog.Descriptor]: an entry of an add-on catalog
//
// # Decisions
//
//   - [Descriptor.IsUpdateTo]: status, then version, then file presence, then
//     modification time
//   - [Descriptor.CanLoadInVersion] and [Descriptor.CanRunInJavaVersion]: host and
//     runtime bounds
//   - [Descriptor.DependsOn]: direct (single-hop) dependency membership
package addon
