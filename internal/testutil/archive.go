// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
)

// ManifestEntryName is the archive entry add-on manifests are stored under.
const ManifestEntryName = "ZapAddOn.xml"

type (
	// Manifest describes the ZapAddOn.xml written by WriteAddOn. Empty fields
	// are omitted from the document.
	Manifest struct {
		Name             string
		Version          string
		Status           string
		NotBeforeVersion string
		NotFromVersion   string
		JavaVersion      string
		Dependencies     []string

		// Extra is raw XML inserted before the closing root element.
		Extra string
	}

	// ZipEntry is one file written by WriteZip.
	ZipEntry struct {
		Name string
		Body string
	}
)

// XML renders the manifest document.
func (m Manifest) XML() string {
	var b strings.Builder
	b.WriteString("<zapaddon>\n")
	writeElement(&b, "name", m.Name)
	writeElement(&b, "version", m.Version)
	writeElement(&b, "status", m.Status)
	writeElement(&b, "not-before-version", m.NotBeforeVersion)
	writeElement(&b, "not-from-version", m.NotFromVersion)
	if m.JavaVersion != "" || len(m.Dependencies) > 0 {
		b.WriteString("  <dependencies>\n")
		if m.JavaVersion != "" {
			b.WriteString("    <javaversion>" + m.JavaVersion + "</javaversion>\n")
		}
		if len(m.Dependencies) > 0 {
			b.WriteString("    <addons>\n")
			for _, id := range m.Dependencies {
				b.WriteString("      <addon><id>" + id + "</id></addon>\n")
			}
			b.WriteString("    </addons>\n")
		}
		b.WriteString("  </dependencies>\n")
	}
	if m.Extra != "" {
		b.WriteString("  " + m.Extra + "\n")
	}
	b.WriteString("</zapaddon>\n")
	return b.String()
}

func writeElement(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	b.WriteString("  <" + name + ">" + value + "</" + name + ">\n")
}

// WriteAddOn writes an add-on archive named fileName into dir holding only
// the given manifest, and returns its path.
func WriteAddOn(t testing.TB, dir, fileName string, m Manifest) string {
	t.Helper()
	path := filepath.Join(dir, fileName)
	WriteZip(t, path, ZipEntry{Name: ManifestEntryName, Body: m.XML()})
	return path
}

// WriteZip writes a zip archive at path with the given entries, in order.
// No entries produces a valid, empty archive.
func WriteZip(t testing.TB, path string, entries ...ZipEntry) {
	t.Helper()
	MustWriteFile(t, path, ZipBytes(t, entries...))
}

// ZipBytes returns the bytes of a zip archive with the given entries.
func ZipBytes(t testing.TB, entries ...ZipEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.Name)
		if err != nil {
			t.Fatalf("failed to create zip entry %s: %v", e.Name, err)
		}
		if _, err := w.Write([]byte(e.Body)); err != nil {
			t.Fatalf("failed to write zip entry %s: %v", e.Name, err)
		}
	}
	MustClose(t, zw)
	return buf.Bytes()
}

// MustRemoveReadPermission makes path unreadable by its owner and restores the
// permission when the test ends. It returns false when the process can read the
// file anyway (for example when running as root) so callers can skip.
func MustRemoveReadPermission(t testing.TB, path string) bool {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("failed to stat %s: %v", path, err)
	}
	if err := os.Chmod(path, 0o200); err != nil {
		t.Fatalf("failed to chmod %s: %v", path, err)
	}
	t.Cleanup(func() {
		_ = os.Chmod(path, info.Mode().Perm())
	})

	f, err := os.Open(path)
	if err == nil {
		_ = f.Close()
		return false
	}
	return true
}
