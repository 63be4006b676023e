// SPDX-License-Identifier: MPL-2.0

package addon

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/addonvet/addonvet/pkg/version"

	"github.com/antchfx/xmlquery"
)

const (
	// ManifestFileName is the name of the manifest entry inside an add-on archive.
	ManifestFileName = "ZapAddOn.xml"

	// manifestRoot is the root element of the manifest document.
	manifestRoot = "zapaddon"
)

var (
	errNoRootElement       = errors.New("missing <" + manifestRoot + "> root element")
	errMultipleRoots       = errors.New("more than one root element")
	errTextOutsideRoot     = errors.New("character data outside the root element")
	errDocumentWithoutRoot = errors.New("document has no root element")
)

// Manifest is the parsed content of ZapAddOn.xml.
type Manifest struct {
	Name        string
	Description string
	Author      string
	URL         string
	Changes     string

	Version version.Version
	Status  Status

	NotBeforeVersion   *version.Version
	NotFromVersion     *version.Version
	MinimumJavaVersion *version.Runtime

	Dependencies []Dependency

	Bundle  BundleData
	HelpSet HelpSetData
}

// ParseManifest reads a manifest document. Every failure is a *ManifestError;
// a missing required element additionally wraps ErrMissingManifestField.
func ParseManifest(r io.Reader) (*Manifest, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, &ManifestError{Err: err}
	}

	root, err := documentRoot(doc)
	if err != nil {
		return nil, &ManifestError{Err: err}
	}
	if root.Data != manifestRoot {
		return nil, &ManifestError{Err: fmt.Errorf("%w: found <%s>", errNoRootElement, root.Data)}
	}

	return decodeAddOnElement(root)
}

// documentRoot returns the one top-level element of doc. xmlquery accepts
// several top-level elements and stray text after the root, neither of which
// is a well-formed document.
func documentRoot(doc *xmlquery.Node) (*xmlquery.Node, error) {
	var root *xmlquery.Node
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		switch n.Type {
		case xmlquery.ElementNode:
			if root != nil {
				return nil, fmt.Errorf("%w: <%s> and <%s>", errMultipleRoots, root.Data, n.Data)
			}
			root = n
		case xmlquery.TextNode, xmlquery.CharDataNode:
			if strings.TrimSpace(n.Data) != "" {
				return nil, errTextOutsideRoot
			}
		}
	}
	if root == nil {
		return nil, errDocumentWithoutRoot
	}
	return root, nil
}

// decodeAddOnElement reads the elements shared by manifests and catalog entries.
func decodeAddOnElement(n *xmlquery.Node) (*Manifest, error) {
	m := &Manifest{
		Name:        childText(n, "name"),
		Description: childText(n, "description"),
		Author:      childText(n, "author"),
		URL:         childText(n, "url"),
		Changes:     childText(n, "changes"),
	}

	versionText, ok := requiredChild(n, "version")
	if !ok {
		return nil, &ManifestError{Field: "version", Err: ErrMissingManifestField}
	}
	v, err := version.Parse(versionText)
	if err != nil {
		return nil, &ManifestError{Field: "version", Err: err}
	}
	m.Version = v

	statusText, ok := requiredChild(n, "status")
	if !ok {
		return nil, &ManifestError{Field: "status", Err: ErrMissingManifestField}
	}
	status, err := ParseStatus(statusText)
	if err != nil {
		return nil, &ManifestError{Field: "status", Err: err}
	}
	m.Status = status

	if m.NotBeforeVersion, err = optionalVersion(n, "not-before-version"); err != nil {
		return nil, err
	}
	if m.NotFromVersion, err = optionalVersion(n, "not-from-version"); err != nil {
		return nil, err
	}

	if text, ok := requiredChild(n, "dependencies/javaversion"); ok {
		rt, err := version.ParseRuntime(text)
		if err != nil {
			return nil, &ManifestError{Field: "javaversion", Err: err}
		}
		m.MinimumJavaVersion = &rt
	}

	for i, dep := range xmlquery.Find(n, "dependencies/addons/addon") {
		id := childText(dep, "id")
		if id == "" {
			return nil, &ManifestError{
				Field: fmt.Sprintf("dependencies/addons/addon[%d]/id", i+1),
				Err:   ErrMissingManifestField,
			}
		}
		if strings.ContainsAny(id, `/\`) {
			return nil, &ManifestError{
				Field: fmt.Sprintf("dependencies/addons/addon[%d]/id", i+1),
				Err:   fmt.Errorf("id %q contains a path separator", id),
			}
		}
		m.Dependencies = append(m.Dependencies, Dependency{ID: id, Version: childText(dep, "version")})
	}

	if b := xmlquery.FindOne(n, "bundle"); b != nil {
		m.Bundle = NewBundleData(strings.TrimSpace(b.InnerText()), b.SelectAttr("prefix"))
	}
	if h := xmlquery.FindOne(n, "helpset"); h != nil {
		m.HelpSet = NewHelpSetData(strings.TrimSpace(h.InnerText()), h.SelectAttr("localetoken"))
	}

	return m, nil
}

// childText returns the trimmed text of the first child matching expr, or "".
func childText(n *xmlquery.Node, expr string) string {
	text, _ := requiredChild(n, expr)
	return text
}

// requiredChild returns the trimmed text of the first child matching expr and
// whether that child exists with non-blank text.
func requiredChild(n *xmlquery.Node, expr string) (string, bool) {
	c := xmlquery.FindOne(n, expr)
	if c == nil {
		return "", false
	}
	text := strings.TrimSpace(c.InnerText())
	return text, text != ""
}

func optionalVersion(n *xmlquery.Node, field string) (*version.Version, error) {
	text, ok := requiredChild(n, field)
	if !ok {
		return nil, nil
	}
	v, err := version.Parse(text)
	if err != nil {
		return nil, &ManifestError{Field: field, Err: err}
	}
	return &v, nil
}
