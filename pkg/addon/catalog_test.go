// SPDX-License-Identifier: MPL-2.0

package addon

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/addonvet/addonvet/internal/testutil"
)

func loadTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", "ZapVersions-deps.xml"))
	if err != nil {
		t.Fatalf("failed to open catalog: %v", err)
	}
	defer testutil.MustClose(t, f)

	c, err := ParseCatalog(f)
	if err != nil {
		t.Fatalf("ParseCatalog() error = %v", err)
	}
	return c
}

func catalogAddOn(t *testing.T, c *Catalog, id string) *Descriptor {
	t.Helper()
	d, err := c.Descriptor(id)
	if err != nil {
		t.Fatalf("Descriptor(%q) error = %v", id, err)
	}
	return d
}

func TestParseCatalog(t *testing.T) {
	t.Parallel()

	c := loadTestCatalog(t)

	want := []string{"AddOn1", "AddOn3", "AddOn8", "AddOn9"}
	if got := c.IDs(); !slices.Equal(got, want) {
		t.Errorf("IDs() = %v, want %v", got, want)
	}
	if c.Len() != len(want) {
		t.Errorf("Len() = %d, want %d", c.Len(), len(want))
	}

	d := catalogAddOn(t, c, "AddOn1")
	if d.Name() != "First Add-on" || d.Status() != StatusAlpha || d.Version().String() != "1.0.0" {
		t.Errorf("AddOn1 = %v (%s)", d, d.Name())
	}
	if _, ok := d.Source().(NoFile); !ok {
		t.Errorf("Source() = %#v, want NoFile", d.Source())
	}
	if v, ok := d.NotBeforeVersion(); !ok || v.String() != "2.4.0" {
		t.Errorf("NotBeforeVersion() = %v, %v", v, ok)
	}
	info, ok := d.CatalogInfo()
	if !ok {
		t.Fatal("CatalogInfo() missing")
	}
	if info.FileName != "AddOn1-alpha-1.zap" || info.Size != 1024 || info.Hash != "SHA-256:0f6e" || info.Date != "2019-06-01" {
		t.Errorf("CatalogInfo() = %+v", info)
	}

	all, err := c.Descriptors()
	if err != nil {
		t.Fatalf("Descriptors() error = %v", err)
	}
	if len(all) != len(want) {
		t.Errorf("Descriptors() = %d entries, want %d", len(all), len(want))
	}
}

func TestCatalog_NotInCatalog(t *testing.T) {
	t.Parallel()

	if _, err := loadTestCatalog(t).Descriptor("AddOn2"); !errors.Is(err, ErrNotInCatalog) {
		t.Errorf("Descriptor(AddOn2) error = %v, want ErrNotInCatalog", err)
	}
}

func TestParseCatalog_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"entry without status", "<ZAP><addon_A><version>1</version></addon_A></ZAP>"},
		{"two roots", "<ZAP></ZAP><ZAP></ZAP>"},
		{"text after root", "<ZAP><addon_A><version>1</version><status>beta</status></addon_A></ZAP>junk"},
		{"bad size", "<ZAP><addon_A><version>1</version><status>beta</status><size>big</size></addon_A></ZAP>"},
	}

	for _, tt := range tests {
		if _, err := ParseCatalog(strings.NewReader(tt.doc)); !errors.Is(err, ErrInvalidManifest) {
			t.Errorf("%s: ParseCatalog() error = %v, want ErrInvalidManifest", tt.name, err)
		}
	}
}

func TestCatalog_Dependencies(t *testing.T) {
	t.Parallel()

	c := loadTestCatalog(t)

	found, unknown, err := c.Dependencies(catalogAddOn(t, c, "AddOn9"))
	if err != nil {
		t.Fatalf("Dependencies() error = %v", err)
	}
	if len(found) != 0 || len(unknown) != 1 || unknown[0].ID != "AddOn10" {
		t.Errorf("Dependencies(AddOn9) = %v, %v", found, unknown)
	}

	found, unknown, err = c.Dependencies(catalogAddOn(t, c, "AddOn1"))
	if err != nil {
		t.Fatalf("Dependencies() error = %v", err)
	}
	if len(found) != 1 || found[0].ID() != "AddOn3" || len(unknown) != 0 {
		t.Errorf("Dependencies(AddOn1) = %v, %v", found, unknown)
	}
}
