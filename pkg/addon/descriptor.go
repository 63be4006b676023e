// SPDX-License-Identifier: MPL-2.0

package addon

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/addonvet/addonvet/pkg/version"

	"golang.org/x/exp/slices"
)

type (
	// Descriptor is the immutable record of one add-on: its identity, version,
	// status, direct dependencies and optional metadata.
	//
	// A Descriptor is built by NewFromFileName, NewFromArchive, NewFromValidation
	// or Catalog.Descriptor. Only WithFile and WithoutFile change its Source, and
	// they return copies.
	Descriptor struct {
		id          string
		status      Status
		version     version.Version
		fileVersion int
		source      Source

		name        string
		description string
		author      string
		url         string
		changes     string

		dependencies       []Dependency
		notBeforeVersion   *version.Version
		notFromVersion     *version.Version
		minimumJavaVersion *version.Runtime

		bundle  BundleData
		helpSet HelpSetData
		catalog *CatalogInfo
	}

	// Option adjusts a Descriptor while it is being built.
	Option func(*Descriptor)

	// descriptorFields are the values every constructor must supply.
	descriptorFields struct {
		id          string
		status      Status
		version     version.Version
		fileVersion int
		source      Source
		manifest    *Manifest
		catalog     *CatalogInfo
	}
)

// WithNotBeforeVersion sets the lowest host version the add-on loads in,
// overriding the manifest.
func WithNotBeforeVersion(v version.Version) Option {
	return func(d *Descriptor) {
		d.notBeforeVersion = &v
	}
}

// WithNotFromVersion sets the first host version the add-on no longer loads in,
// overriding the manifest.
func WithNotFromVersion(v version.Version) Option {
	return func(d *Descriptor) {
		d.notFromVersion = &v
	}
}

// WithMinimumJavaVersion sets the lowest Java runtime the add-on runs in,
// overriding the manifest.
func WithMinimumJavaVersion(rt version.Runtime) Option {
	return func(d *Descriptor) {
		d.minimumJavaVersion = &rt
	}
}

// NewFromFileName builds a descriptor from a legacy "<id>-<status>-<fileVersion>.zap"
// file name alone. The version is "<fileVersion>.0.0" and the descriptor has no file.
func NewFromFileName(name string, opts ...Option) (*Descriptor, error) {
	id, status, fileVersion, err := parseLegacyFileName(name)
	if err != nil {
		return nil, err
	}

	v, err := version.Parse(strconv.Itoa(fileVersion) + ".0.0")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFileName, err)
	}

	return newDescriptor(descriptorFields{
		id:          id,
		status:      status,
		version:     v,
		fileVersion: fileVersion,
		source:      NoFile{},
	}, opts)
}

// NewFromArchive validates the archive at path and builds a descriptor from its
// manifest. The file name supplies only the id. A rejected archive is an error
// wrapping ErrIOFailure and a *ValidationError.
func NewFromArchive(path string, opts ...Option) (*Descriptor, error) {
	return NewFromValidation(Validate(path), opts...)
}

// NewFromValidation builds a descriptor from a validation already performed.
func NewFromValidation(result ValidationResult, opts ...Option) (*Descriptor, error) {
	if !result.Valid() {
		return nil, fmt.Errorf("cannot create add-on from %q: %w: %w", result.Path, ErrIOFailure, result.Err())
	}

	id, err := idFromFileName(result.Path)
	if err != nil {
		return nil, fmt.Errorf("cannot create add-on from %q: %w: %w", result.Path, ErrIOFailure, err)
	}

	m := result.Manifest
	return newDescriptor(descriptorFields{
		id:          id,
		status:      m.Status,
		version:     m.Version,
		fileVersion: m.Version.Major(),
		source:      FileSource{Path: result.Path, LastModified: result.LastModified},
		manifest:    m,
	}, opts)
}

// newDescriptor is where every constructor converges.
func newDescriptor(f descriptorFields, opts []Option) (*Descriptor, error) {
	if f.id == "" {
		return nil, fmt.Errorf("%w: empty add-on id", ErrInvalidFileName)
	}
	if strings.ContainsAny(f.id, `/\`) {
		return nil, fmt.Errorf("%w: add-on id %q contains a path separator", ErrInvalidFileName, f.id)
	}
	if ok, errs := f.status.IsValid(); !ok {
		return nil, errs[0]
	}

	d := &Descriptor{
		id:          f.id,
		status:      f.status,
		version:     f.version,
		fileVersion: f.fileVersion,
		source:      f.source,
		catalog:     f.catalog,
	}

	if m := f.manifest; m != nil {
		d.name = m.Name
		d.description = m.Description
		d.author = m.Author
		d.url = m.URL
		d.changes = m.Changes
		d.notBeforeVersion = m.NotBeforeVersion
		d.notFromVersion = m.NotFromVersion
		d.minimumJavaVersion = m.MinimumJavaVersion
		d.bundle = m.Bundle
		d.helpSet = m.HelpSet
		for _, dep := range m.Dependencies {
			// An add-on never depends on itself.
			if dep.ID != f.id {
				d.dependencies = append(d.dependencies, dep)
			}
		}
	}

	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// ID returns the add-on identity. Descriptors with equal ids share a lineage.
func (d *Descriptor) ID() string { return d.id }

// Status returns the declared maturity.
func (d *Descriptor) Status() Status { return d.status }

// Version returns the declared version.
func (d *Descriptor) Version() version.Version { return d.version }

// FileVersion returns the legacy integer version.
func (d *Descriptor) FileVersion() int { return d.fileVersion }

// Source returns the archive backing the descriptor, or NoFile.
func (d *Descriptor) Source() Source { return d.source }

// File returns the archive path and whether the descriptor has one.
func (d *Descriptor) File() (string, bool) {
	fs, ok := d.source.(FileSource)
	return fs.Path, ok
}

// LastModified returns the archive modification time, zero without a file.
func (d *Descriptor) LastModified() time.Time {
	if fs, ok := d.source.(FileSource); ok {
		return fs.LastModified
	}
	return time.Time{}
}

// Name returns the display name, or the id when none was declared.
func (d *Descriptor) Name() string {
	if d.name == "" {
		return d.id
	}
	return d.name
}

// Description returns the declared description, or "".
func (d *Descriptor) Description() string { return d.description }

// Author returns the declared author, or "".
func (d *Descriptor) Author() string { return d.author }

// URL returns the declared home page, or "".
func (d *Descriptor) URL() string { return d.url }

// Changes returns the declared change notes, or "".
func (d *Descriptor) Changes() string { return d.changes }

// Dependencies returns the declared direct dependencies in manifest order.
func (d *Descriptor) Dependencies() []Dependency { return slices.Clone(d.dependencies) }

// NotBeforeVersion returns the lowest supported host version, if any.
func (d *Descriptor) NotBeforeVersion() (version.Version, bool) {
	if d.notBeforeVersion == nil {
		return version.Version{}, false
	}
	return *d.notBeforeVersion, true
}

// NotFromVersion returns the first unsupported host version, if any.
func (d *Descriptor) NotFromVersion() (version.Version, bool) {
	if d.notFromVersion == nil {
		return version.Version{}, false
	}
	return *d.notFromVersion, true
}

// MinimumJavaVersion returns the lowest supported Java runtime, if any.
func (d *Descriptor) MinimumJavaVersion() (version.Runtime, bool) {
	if d.minimumJavaVersion == nil {
		return version.Runtime{}, false
	}
	return *d.minimumJavaVersion, true
}

// Bundle returns the resource bundle declaration, empty when none was made.
func (d *Descriptor) Bundle() BundleData { return d.bundle }

// HelpSet returns the help set declaration, empty when none was made.
func (d *Descriptor) HelpSet() HelpSetData { return d.helpSet }

// CatalogInfo returns the download metadata of a catalog-backed descriptor.
func (d *Descriptor) CatalogInfo() (CatalogInfo, bool) {
	if d.catalog == nil {
		return CatalogInfo{}, false
	}
	return *d.catalog, true
}

// NormalisedFileName returns the canonical "<id>-<version>.zap" name.
func (d *Descriptor) NormalisedFileName() string {
	return d.id + "-" + d.version.String() + FileExtension
}

// WithoutFile returns a copy detached from its archive.
func (d *Descriptor) WithoutFile() *Descriptor {
	c := *d
	c.source = NoFile{}
	return &c
}

// WithFile returns a copy backed by the archive at path, modified at modTime.
func (d *Descriptor) WithFile(path string, modTime time.Time) *Descriptor {
	c := *d
	c.source = FileSource{Path: filepath.Clean(path), LastModified: modTime}
	return &c
}

// String returns "<id> <version> (<status>)".
func (d *Descriptor) String() string {
	return fmt.Sprintf("%s %s (%s)", d.id, d.version, d.status)
}
