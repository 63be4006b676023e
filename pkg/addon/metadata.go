// SPDX-License-Identifier: MPL-2.0

package addon

type (
	// Dependency is a direct requirement on another add-on.
	// Version is the declared constraint text, kept for display only.
	Dependency struct {
		ID      string
		Version string
	}

	// BundleData is the declared resource bundle of an add-on.
	BundleData struct {
		baseName string
		prefix   string
		declared bool
	}

	// HelpSetData is the declared help set of an add-on.
	HelpSetData struct {
		baseName    string
		localeToken string
		declared    bool
	}

	// CatalogInfo holds the download metadata of a catalog entry.
	CatalogInfo struct {
		FileName string
		URL      string
		Size     int64
		Hash     string
		Date     string
		Info     string
	}
)

// NewBundleData returns a declared bundle with the given base name and message prefix.
func NewBundleData(baseName, prefix string) BundleData {
	return BundleData{baseName: baseName, prefix: prefix, declared: true}
}

// BaseName returns the resource bundle base name, "" when absent.
func (b BundleData) BaseName() string { return b.baseName }

// Prefix returns the message key prefix, "" when absent.
func (b BundleData) Prefix() string { return b.prefix }

// IsEmpty reports whether the manifest declared no bundle.
func (b BundleData) IsEmpty() bool { return !b.declared }

// Declared reports whether the manifest had a bundle element, even one with an empty body.
func (b BundleData) Declared() bool { return b.declared }

// NewHelpSetData returns a declared help set with the given base name and locale token.
func NewHelpSetData(baseName, localeToken string) HelpSetData {
	return HelpSetData{baseName: baseName, localeToken: localeToken, declared: true}
}

// BaseName returns the help set base name, "" when absent.
func (h HelpSetData) BaseName() string { return h.baseName }

// LocaleToken returns the token replaced by the locale in BaseName, "" when absent.
func (h HelpSetData) LocaleToken() string { return h.localeToken }

// IsEmpty reports whether the manifest declared no help set.
func (h HelpSetData) IsEmpty() bool { return !h.declared }

// Declared reports whether the manifest had a helpset element, even one with an empty body.
func (h HelpSetData) Declared() bool { return h.declared }
