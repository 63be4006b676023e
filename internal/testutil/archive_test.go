// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
)

func TestManifestXML(t *testing.T) {
	t.Parallel()

	m := Manifest{
		Version:      "1.6.7",
		Status:       "beta",
		JavaVersion:  "1.8",
		Dependencies: []string{"AddOn3"},
		Extra:        `<bundle prefix="msgs">org.example.Messages</bundle>`,
	}
	got := m.XML()

	for _, want := range []string{
		"<zapaddon>",
		"<version>1.6.7</version>",
		"<status>beta</status>",
		"<javaversion>1.8</javaversion>",
		"<addon><id>AddOn3</id></addon>",
		`<bundle prefix="msgs">`,
		"</zapaddon>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("XML() missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "<name>") {
		t.Errorf("XML() should omit empty elements, got:\n%s", got)
	}
}

func TestZipBytes(t *testing.T) {
	t.Parallel()

	data := ZipBytes(t, ZipEntry{Name: "a.txt", Body: "alpha"}, ZipEntry{Name: ManifestEntryName, Body: ""})

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader() error = %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("entries = %d, want 2", len(zr.File))
	}

	rc, err := zr.File[0].Open()
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer MustClose(t, rc)
	body, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(body) != "alpha" {
		t.Errorf("body = %q, want %q", body, "alpha")
	}
}

func TestFakeClock(t *testing.T) {
	t.Parallel()

	c := NewFakeClock(time.Time{})
	start := c.Now()
	if !start.Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Now() = %v, want reference time", start)
	}

	if got := c.Advance(time.Second); !got.Equal(start.Add(time.Second)) {
		t.Errorf("Advance() = %v, want %v", got, start.Add(time.Second))
	}

	later := start.Add(time.Hour)
	c.Set(later)
	if !c.Now().Equal(later) {
		t.Errorf("Now() after Set = %v, want %v", c.Now(), later)
	}
}
