// SPDX-License-Identifier: MPL-2.0

package benchmark

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/addonvet/addonvet/internal/config"
	"github.com/addonvet/addonvet/internal/scan"
	"github.com/addonvet/addonvet/internal/testutil"
	"github.com/addonvet/addonvet/pkg/addon"
	"github.com/addonvet/addonvet/pkg/version"
)

// sampleConfig is a representative config.cue for benchmarking loading.
const sampleConfig = `
host_version: "2.14.0"
java_version: "11"
addon_dirs: ["/opt/zap/plugin", "/home/user/.ZAP/plugin"]
scan: {
	pattern:     "**/*.zap"
	concurrency: 8
}
ui: format: "yaml"
log: level: "warn"
`

var versionTexts = []string{"1", "2.8.0", "2.14.0.1", "10.0.3", "1.9.12"}

// sampleManifest carries every optional element so manifest decoding takes
// its slowest path.
var sampleManifest = testutil.Manifest{
	Name:             "Active Scanner rules",
	Version:          "38.2.0",
	Status:           "release",
	NotBeforeVersion: "2.12.0",
	NotFromVersion:   "3.0.0",
	JavaVersion:      "11",
	Dependencies:     []string{"commonlib", "network", "oast"},
	Extra:            `<bundle prefix="ascanrules">org.zaproxy.zap.extension.ascanrules.resources.Messages</bundle>`,
}

// writeScanTree creates lineages add-on ids with three versions each, plus
// one archive the host cannot load.
func writeScanTree(b *testing.B, lineages int) string {
	b.Helper()
	dir := b.TempDir()
	for i := range lineages {
		for j, status := range []string{"alpha", "beta", "release"} {
			m := sampleManifest
			m.Dependencies = nil
			m.Status = status
			m.Version = fmt.Sprintf("%d.0.0", j+1)
			testutil.WriteAddOn(b, dir, fmt.Sprintf("addon%03d-%s-%d.zap", i, status, j+1), m)
		}
	}
	legacy := sampleManifest
	legacy.NotFromVersion = "2.0.0"
	testutil.WriteAddOn(b, dir, "legacy.zap", legacy)
	return dir
}

func writeCatalog(b *testing.B, entries int) []byte {
	b.Helper()
	var sb strings.Builder
	sb.WriteString("<ZAP>\n")
	for i := range entries {
		id := fmt.Sprintf("addon%03d", i)
		fmt.Fprintf(&sb, "<addon>%s</addon>\n<addon_%s>\n", id, id)
		fmt.Fprintf(&sb, "<name>Add-on %d</name><version>%d.2.0</version><status>beta</status>\n", i, i%7+1)
		fmt.Fprintf(&sb, "<file>%s-beta-%d.zap</file><size>2048</size><hash>SHA-256:%04x</hash>\n", id, i%7+1, i)
		if i > 0 {
			fmt.Fprintf(&sb, "<dependencies><addons><addon><id>addon%03d</id></addon></addons></dependencies>\n", i-1)
		}
		fmt.Fprintf(&sb, "</addon_%s>\n", id)
	}
	sb.WriteString("</ZAP>\n")
	return []byte(sb.String())
}

// BenchmarkVersionParse benchmarks dotted version parsing.
func BenchmarkVersionParse(b *testing.B) {
	for b.Loop() {
		for _, text := range versionTexts {
			if _, err := version.Parse(text); err != nil {
				b.Fatalf("Parse(%q) failed: %v", text, err)
			}
		}
	}
}

// BenchmarkVersionCompare benchmarks the ordering used by update decisions.
func BenchmarkVersionCompare(b *testing.B) {
	versions := make([]version.Version, len(versionTexts))
	for i, text := range versionTexts {
		versions[i] = version.MustParse(text)
	}

	b.ResetTimer()
	for b.Loop() {
		for _, v := range versions {
			for _, w := range versions {
				_ = v.Compare(w)
			}
		}
	}
}

// BenchmarkFileNameParse benchmarks descriptors built from legacy names.
func BenchmarkFileNameParse(b *testing.B) {
	for b.Loop() {
		if _, err := addon.NewFromFileName("ascanrules-beta-38.zap"); err != nil {
			b.Fatalf("NewFromFileName failed: %v", err)
		}
	}
}

// BenchmarkValidate benchmarks opening an archive and decoding its manifest.
func BenchmarkValidate(b *testing.B) {
	path := testutil.WriteAddOn(b, b.TempDir(), "ascanrules-release-38.zap", sampleManifest)

	b.ResetTimer()
	for b.Loop() {
		if result := addon.Validate(path); !result.Valid() {
			b.Fatalf("Validate failed: %v", result.Err())
		}
	}
}

// BenchmarkNewFromArchive benchmarks the full descriptor construction path.
func BenchmarkNewFromArchive(b *testing.B) {
	path := testutil.WriteAddOn(b, b.TempDir(), "ascanrules-release-38.zap", sampleManifest)

	b.ResetTimer()
	for b.Loop() {
		if _, err := addon.NewFromArchive(path); err != nil {
			b.Fatalf("NewFromArchive failed: %v", err)
		}
	}
}

// BenchmarkCatalogParse benchmarks ZapVersions catalog parsing.
func BenchmarkCatalogParse(b *testing.B) {
	data := writeCatalog(b, 200)

	b.ResetTimer()
	for b.Loop() {
		c, err := addon.ParseCatalog(bytes.NewReader(data))
		if err != nil {
			b.Fatalf("ParseCatalog failed: %v", err)
		}
		if c.Len() != 200 {
			b.Fatalf("Len() = %d, want 200", c.Len())
		}
	}
}

// BenchmarkCatalogDependencies benchmarks resolving dependencies in a catalog.
func BenchmarkCatalogDependencies(b *testing.B) {
	c, err := addon.ParseCatalog(bytes.NewReader(writeCatalog(b, 200)))
	if err != nil {
		b.Fatalf("ParseCatalog failed: %v", err)
	}
	descriptors, err := c.Descriptors()
	if err != nil {
		b.Fatalf("Descriptors failed: %v", err)
	}

	b.ResetTimer()
	for b.Loop() {
		for _, d := range descriptors {
			if _, _, err := c.Dependencies(d); err != nil {
				b.Fatalf("Dependencies(%s) failed: %v", d.ID(), err)
			}
		}
	}
}

// BenchmarkScan benchmarks a full directory scan with the compatibility gate.
func BenchmarkScan(b *testing.B) {
	dir := writeScanTree(b, 30)
	scanner, err := scan.New(scan.Settings{HostVersion: "2.14.0", JavaVersion: "17"})
	if err != nil {
		b.Fatalf("scan.New failed: %v", err)
	}

	b.ResetTimer()
	for b.Loop() {
		report, err := scanner.Scan(context.Background(), dir)
		if err != nil {
			b.Fatalf("Scan failed: %v", err)
		}
		if len(report.Installed) != 30 {
			b.Fatalf("Installed = %d, want 30", len(report.Installed))
		}
	}
}

// BenchmarkConfigLoad benchmarks CUE validation and viper decoding.
func BenchmarkConfigLoad(b *testing.B) {
	path := filepath.Join(b.TempDir(), "config.cue")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		b.Fatalf("Failed to write config: %v", err)
	}

	b.ResetTimer()
	for b.Loop() {
		if _, err := config.LoadWithSource(context.Background(), config.LoadOptions{ConfigFilePath: path}); err != nil {
			b.Fatalf("LoadWithSource failed: %v", err)
		}
	}
}
