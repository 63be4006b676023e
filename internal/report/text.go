// SPDX-License-Identifier: MPL-2.0

package report

import (
	"fmt"
	"io"
	"strings"
)

// textWriter remembers the first write error so rendering code can stay linear.
type textWriter struct {
	w   io.Writer
	s   *styles
	err error
}

func (t *textWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *textWriter) field(label, value string) {
	if value == "" {
		return
	}
	t.printf("  %s %s\n", t.s.label.Render(label+":"), value)
}

func (t *textWriter) heading(text string) {
	t.printf("%s\n", t.s.title.Render(text))
}

func (t *textWriter) verdict(ok bool, yes, no string) string {
	if ok {
		return t.s.ok.Render(yes)
	}
	return t.s.bad.Render(no)
}

func (t *textWriter) addOn(a AddOn) {
	t.heading(fmt.Sprintf("%s %s (%s)", a.ID, a.Version, a.Status))
	if a.Name != a.ID {
		t.field("name", a.Name)
	}
	t.field("file", a.File)
	t.field("file version", fmt.Sprint(a.FileVersion))
	t.field("normalised name", a.NormalisedFileName)
	t.field("description", a.Description)
	t.field("author", a.Author)
	t.field("url", a.URL)
	t.field("changes", a.Changes)
	t.field("not before", a.NotBeforeVersion)
	t.field("not from", a.NotFromVersion)
	t.field("minimum java", a.MinimumJavaVersion)
	if len(a.Dependencies) > 0 {
		t.field("dependencies", dependencyList(a.Dependencies))
	}
	if a.Bundle != nil {
		t.field("bundle", joinNonEmpty(a.Bundle.BaseName, a.Bundle.Prefix))
	}
	if a.HelpSet != nil {
		t.field("helpset", joinNonEmpty(a.HelpSet.BaseName, a.HelpSet.LocaleToken))
	}
	if d := a.Download; d != nil {
		t.field("download", d.URL)
		if d.Size > 0 {
			t.field("size", fmt.Sprint(d.Size))
		}
		t.field("hash", d.Hash)
		t.field("date", d.Date)
	}
}

func dependencyList(deps []Dependency) string {
	parts := make([]string, 0, len(deps))
	for _, d := range deps {
		if d.Version != "" {
			parts = append(parts, d.ID+" "+d.Version)
			continue
		}
		parts = append(parts, d.ID)
	}
	return strings.Join(parts, ", ")
}

func joinNonEmpty(values ...string) string {
	var parts []string
	for _, v := range values {
		if v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return "(empty)"
	}
	return strings.Join(parts, " ")
}

func (v Validations) writeText(w io.Writer, s *styles) error {
	t := &textWriter{w: w, s: s}
	for _, r := range v.Results {
		if r.Valid {
			t.printf("%s %s\n", t.s.ok.Render("valid"), r.Path)
			continue
		}
		t.printf("%s %s: %s\n", t.s.bad.Render(r.Validity), r.Path, r.Reason)
		if r.Error != "" {
			t.printf("  %s\n", t.s.muted.Render(r.Error))
		}
	}
	return t.err
}

func (i Info) writeText(w io.Writer, s *styles) error {
	t := &textWriter{w: w, s: s}
	t.addOn(i.AddOn)
	return t.err
}

func (c Comparison) writeText(w io.Writer, s *styles) error {
	t := &textWriter{w: w, s: s}
	t.printf("%s %s %s %s\n",
		fmt.Sprintf("%s %s (%s)", c.Candidate.ID, c.Candidate.Version, c.Candidate.Status),
		t.verdict(c.IsUpdate, "is an update to", "is not an update to"),
		fmt.Sprintf("%s %s (%s)", c.Incumbent.ID, c.Incumbent.Version, c.Incumbent.Status),
		t.s.muted.Render("("+c.Reason+")"))
	return t.err
}

func (c Compatibility) writeText(w io.Writer, s *styles) error {
	t := &textWriter{w: w, s: s}
	t.printf("%s %s %s\n", c.ID, c.Version, t.verdict(c.Compatible, "compatible", "not compatible"))
	t.field("host", c.HostVersion)
	t.field("java", c.JavaVersion)
	for _, i := range c.Issues {
		t.printf("  %s %s\n", t.s.warning.Render("!"), i.Message)
	}
	return t.err
}

func (d Dependencies) writeText(w io.Writer, s *styles) error {
	t := &textWriter{w: w, s: s}
	t.heading(d.ID)
	if len(d.Declared) == 0 {
		t.printf("  %s\n", t.s.muted.Render("no dependencies"))
	}
	for _, dep := range d.Declared {
		t.printf("  - %s\n", dependencyList([]Dependency{dep}))
	}
	for _, c := range d.Checked {
		t.printf("  %s %s\n", t.verdict(c.DependsOn, "depends on", "does not depend on"), c.ID)
	}
	for _, a := range d.Resolved {
		t.printf("  %s %s %s\n", t.s.ok.Render("found"), a.ID, a.Version)
	}
	for _, m := range d.Missing {
		t.printf("  %s %s\n", t.s.bad.Render("missing"), dependencyList([]Dependency{m}))
	}
	return t.err
}

func (sc Scan) writeText(w io.Writer, s *styles) error {
	t := &textWriter{w: w, s: s}
	t.heading(fmt.Sprintf("Installed (%d)", len(sc.Installed)))
	for _, a := range sc.Installed {
		t.printf("  %s %s %s %s\n", t.s.ok.Render("+"), a.ID, a.Version, t.s.muted.Render(a.Status))
	}
	if len(sc.Superseded) > 0 {
		t.heading(fmt.Sprintf("Superseded (%d)", len(sc.Superseded)))
		for _, sup := range sc.Superseded {
			t.printf("  %s %s %s by %s\n", t.s.muted.Render("-"), sup.AddOn.ID, sup.AddOn.Version, sup.By)
		}
	}
	if len(sc.Blocked) > 0 {
		t.heading(fmt.Sprintf("Blocked (%d)", len(sc.Blocked)))
		for _, b := range sc.Blocked {
			t.printf("  %s %s %s\n", t.s.warning.Render("!"), b.AddOn.ID, b.AddOn.Version)
			for _, i := range b.Issues {
				t.printf("      %s\n", i.Message)
			}
			if len(b.MissingDependencies) > 0 {
				t.printf("      missing %s\n", dependencyList(b.MissingDependencies))
			}
		}
	}
	if len(sc.Rejected) > 0 {
		t.heading(fmt.Sprintf("Rejected (%d)", len(sc.Rejected)))
		for _, r := range sc.Rejected {
			t.printf("  %s %s: %s\n", t.s.bad.Render("x"), r.Path, r.Reason)
		}
	}
	return t.err
}

func (c Catalog) writeText(w io.Writer, s *styles) error {
	t := &textWriter{w: w, s: s}
	for _, a := range c.AddOns {
		t.printf("%s %s %s %s\n", a.ID, a.Version, t.s.muted.Render(a.Status), a.Name)
	}
	return t.err
}
