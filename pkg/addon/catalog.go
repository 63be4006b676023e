// SPDX-License-Identifier: MPL-2.0

package addon

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"golang.org/x/exp/slices"
)

// catalogEntryPrefix starts the element name of every catalog entry: <addon_ID>.
const catalogEntryPrefix = "addon_"

type (
	// Catalog is a parsed add-on catalog listing the add-ons offered for
	// download. Dependencies named by its entries are resolved only on request.
	Catalog struct {
		ids     []string
		entries map[string]catalogEntry
	}

	catalogEntry struct {
		manifest *Manifest
		info     CatalogInfo
	}
)

// ParseCatalog reads a catalog document whose root holds one <addon_ID>
// element per add-on. Each entry is decoded like a manifest; a broken entry is
// a *ManifestError naming the entry.
func ParseCatalog(r io.Reader) (*Catalog, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, &ManifestError{Err: err}
	}

	root, err := documentRoot(doc)
	if err != nil {
		return nil, &ManifestError{Err: err}
	}

	c := &Catalog{entries: make(map[string]catalogEntry)}
	for _, n := range xmlquery.Find(root, "*[starts-with(name(), '"+catalogEntryPrefix+"')]") {
		id := strings.TrimPrefix(n.Data, catalogEntryPrefix)
		if id == "" {
			continue
		}

		m, err := decodeAddOnElement(n)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %q: %w", id, err)
		}

		info := CatalogInfo{
			FileName: childText(n, "file"),
			URL:      childText(n, "url"),
			Hash:     childText(n, "hash"),
			Date:     childText(n, "date"),
			Info:     childText(n, "info"),
		}
		if size := childText(n, "size"); size != "" {
			info.Size, err = strconv.ParseInt(size, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("catalog entry %q: %w", id, &ManifestError{Field: "size", Err: err})
			}
		}

		if _, dup := c.entries[id]; !dup {
			c.ids = append(c.ids, id)
		}
		c.entries[id] = catalogEntry{manifest: m, info: info}
	}
	return c, nil
}

// IDs returns the add-on ids in document order.
func (c *Catalog) IDs() []string {
	return slices.Clone(c.ids)
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.ids)
}

// Descriptor builds the descriptor of the entry with the given id. Catalog
// descriptors have no file. A missing id wraps ErrNotInCatalog.
func (c *Catalog) Descriptor(id string, opts ...Option) (*Descriptor, error) {
	e, ok := c.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotInCatalog, id)
	}
	info := e.info
	return newDescriptor(descriptorFields{
		id:          id,
		status:      e.manifest.Status,
		version:     e.manifest.Version,
		fileVersion: e.manifest.Version.Major(),
		source:      NoFile{},
		manifest:    e.manifest,
		catalog:     &info,
	}, opts)
}

// Descriptors builds the descriptor of every entry, in document order.
func (c *Catalog) Descriptors() ([]*Descriptor, error) {
	out := make([]*Descriptor, 0, len(c.ids))
	for _, id := range c.ids {
		d, err := c.Descriptor(id)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Dependencies resolves the direct dependencies of d against the catalog. Ids
// the catalog does not list are returned separately.
func (c *Catalog) Dependencies(d *Descriptor) (found []*Descriptor, unknown []Dependency, err error) {
	for _, dep := range d.dependencies {
		if _, ok := c.entries[dep.ID]; !ok {
			unknown = append(unknown, dep)
			continue
		}
		dd, err := c.Descriptor(dep.ID)
		if err != nil {
			return nil, nil, err
		}
		found = append(found, dd)
	}
	return found, unknown, nil
}
