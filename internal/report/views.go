// SPDX-License-Identifier: MPL-2.0

package report

import (
	"github.com/addonvet/addonvet/internal/scan"
	"github.com/addonvet/addonvet/pkg/addon"
)

type (
	// AddOn is the encodable form of an add-on descriptor.
	AddOn struct {
		ID                 string       `toml:"id" yaml:"id"`
		Name               string       `toml:"name" yaml:"name"`
		Status             string       `toml:"status" yaml:"status"`
		Version            string       `toml:"version" yaml:"version"`
		FileVersion        int          `toml:"file_version" yaml:"file_version"`
		File               string       `toml:"file,omitempty" yaml:"file,omitempty"`
		NormalisedFileName string       `toml:"normalised_file_name" yaml:"normalised_file_name"`
		Description        string       `toml:"description,omitempty" yaml:"description,omitempty"`
		Author             string       `toml:"author,omitempty" yaml:"author,omitempty"`
		URL                string       `toml:"url,omitempty" yaml:"url,omitempty"`
		Changes            string       `toml:"changes,omitempty" yaml:"changes,omitempty"`
		NotBeforeVersion   string       `toml:"not_before_version,omitempty" yaml:"not_before_version,omitempty"`
		NotFromVersion     string       `toml:"not_from_version,omitempty" yaml:"not_from_version,omitempty"`
		MinimumJavaVersion string       `toml:"minimum_java_version,omitempty" yaml:"minimum_java_version,omitempty"`
		Dependencies       []Dependency `toml:"dependencies,omitempty" yaml:"dependencies,omitempty"`
		Bundle             *Bundle      `toml:"bundle,omitempty" yaml:"bundle,omitempty"`
		HelpSet            *HelpSet     `toml:"helpset,omitempty" yaml:"helpset,omitempty"`
		Download           *Download    `toml:"download,omitempty" yaml:"download,omitempty"`
	}

	// Dependency is a declared dependency on another add-on.
	Dependency struct {
		ID      string `toml:"id" yaml:"id"`
		Version string `toml:"version,omitempty" yaml:"version,omitempty"`
	}

	// Bundle is a declared resource bundle.
	Bundle struct {
		BaseName string `toml:"base_name" yaml:"base_name"`
		Prefix   string `toml:"prefix,omitempty" yaml:"prefix,omitempty"`
	}

	// HelpSet is a declared help set.
	HelpSet struct {
		BaseName    string `toml:"base_name" yaml:"base_name"`
		LocaleToken string `toml:"locale_token,omitempty" yaml:"locale_token,omitempty"`
	}

	// Download is the catalog metadata of an add-on.
	Download struct {
		File string `toml:"file,omitempty" yaml:"file,omitempty"`
		URL  string `toml:"url,omitempty" yaml:"url,omitempty"`
		Size int64  `toml:"size,omitempty" yaml:"size,omitempty"`
		Hash string `toml:"hash,omitempty" yaml:"hash,omitempty"`
		Date string `toml:"date,omitempty" yaml:"date,omitempty"`
		Info string `toml:"info,omitempty" yaml:"info,omitempty"`
	}

	// Validation is the outcome of validating one path.
	Validation struct {
		Path     string `toml:"path" yaml:"path"`
		Validity string `toml:"validity" yaml:"validity"`
		Valid    bool   `toml:"valid" yaml:"valid"`
		Reason   string `toml:"reason,omitempty" yaml:"reason,omitempty"`
		Error    string `toml:"error,omitempty" yaml:"error,omitempty"`
		AddOn    *AddOn `toml:"addon,omitempty" yaml:"addon,omitempty"`
	}

	// Validations is the document written by the validate command.
	Validations struct {
		Results []Validation `toml:"result" yaml:"results"`
	}

	// Info is the document written by the info command.
	Info struct {
		AddOn AddOn `toml:"addon" yaml:"addon"`
	}

	// Comparison is the document written by the compare command.
	Comparison struct {
		Candidate AddOn  `toml:"candidate" yaml:"candidate"`
		Incumbent AddOn  `toml:"incumbent" yaml:"incumbent"`
		IsUpdate  bool   `toml:"is_update" yaml:"is_update"`
		Reason    string `toml:"reason" yaml:"reason"`
	}

	// Issue is one compatibility problem.
	Issue struct {
		Kind     string `toml:"kind" yaml:"kind"`
		Observed string `toml:"observed" yaml:"observed"`
		Required string `toml:"required,omitempty" yaml:"required,omitempty"`
		Message  string `toml:"message" yaml:"message"`
	}

	// Compatibility is the document written by the compat command.
	Compatibility struct {
		ID                  string  `toml:"id" yaml:"id"`
		Version             string  `toml:"version" yaml:"version"`
		HostVersion         string  `toml:"host_version,omitempty" yaml:"host_version,omitempty"`
		JavaVersion         string  `toml:"java_version,omitempty" yaml:"java_version,omitempty"`
		CanLoadInVersion    *bool   `toml:"can_load_in_version,omitempty" yaml:"can_load_in_version,omitempty"`
		CanRunInJavaVersion *bool   `toml:"can_run_in_java_version,omitempty" yaml:"can_run_in_java_version,omitempty"`
		Compatible          bool    `toml:"compatible" yaml:"compatible"`
		Issues              []Issue `toml:"issues,omitempty" yaml:"issues,omitempty"`
	}

	// DependsOn records whether an add-on directly depends on another one.
	DependsOn struct {
		ID        string `toml:"id" yaml:"id"`
		DependsOn bool   `toml:"depends_on" yaml:"depends_on"`
	}

	// Dependencies is the document written by the deps command.
	Dependencies struct {
		ID           string       `toml:"id" yaml:"id"`
		Declared     []Dependency `toml:"declared" yaml:"declared"`
		Checked      []DependsOn  `toml:"checked,omitempty" yaml:"checked,omitempty"`
		Resolved     []AddOn      `toml:"resolved,omitempty" yaml:"resolved,omitempty"`
		Missing      []Dependency `toml:"missing,omitempty" yaml:"missing,omitempty"`
		DependsOnAny *bool        `toml:"depends_on_any,omitempty" yaml:"depends_on_any,omitempty"`
	}

	// Superseded is an add-on replaced by an update.
	Superseded struct {
		AddOn AddOn  `toml:"addon" yaml:"addon"`
		By    string `toml:"by" yaml:"by"`
	}

	// Blocked is an add-on that cannot be installed.
	Blocked struct {
		AddOn               AddOn        `toml:"addon" yaml:"addon"`
		Issues              []Issue      `toml:"issues,omitempty" yaml:"issues,omitempty"`
		MissingDependencies []Dependency `toml:"missing_dependencies,omitempty" yaml:"missing_dependencies,omitempty"`
	}

	// Scan is the document written by the scan command.
	Scan struct {
		Installed  []AddOn      `toml:"installed" yaml:"installed"`
		Rejected   []Validation `toml:"rejected" yaml:"rejected"`
		Superseded []Superseded `toml:"superseded" yaml:"superseded"`
		Blocked    []Blocked    `toml:"blocked" yaml:"blocked"`
	}

	// Catalog is the document written by the catalog command.
	Catalog struct {
		AddOns []AddOn `toml:"addon" yaml:"addons"`
	}
)

// FromDescriptor converts a descriptor.
func FromDescriptor(d *addon.Descriptor) AddOn {
	a := AddOn{
		ID:                 d.ID(),
		Name:               d.Name(),
		Status:             d.Status().String(),
		Version:            d.Version().String(),
		FileVersion:        d.FileVersion(),
		NormalisedFileName: d.NormalisedFileName(),
		Description:        d.Description(),
		Author:             d.Author(),
		URL:                d.URL(),
		Changes:            d.Changes(),
		Dependencies:       fromDependencies(d.Dependencies()),
	}
	if path, ok := d.File(); ok {
		a.File = path
	}
	if v, ok := d.NotBeforeVersion(); ok {
		a.NotBeforeVersion = v.String()
	}
	if v, ok := d.NotFromVersion(); ok {
		a.NotFromVersion = v.String()
	}
	if rt, ok := d.MinimumJavaVersion(); ok {
		a.MinimumJavaVersion = rt.String()
	}
	if b := d.Bundle(); b.Declared() {
		a.Bundle = &Bundle{BaseName: b.BaseName(), Prefix: b.Prefix()}
	}
	if h := d.HelpSet(); h.Declared() {
		a.HelpSet = &HelpSet{BaseName: h.BaseName(), LocaleToken: h.LocaleToken()}
	}
	if info, ok := d.CatalogInfo(); ok {
		a.Download = &Download{
			File: info.FileName, URL: info.URL, Size: info.Size,
			Hash: info.Hash, Date: info.Date, Info: info.Info,
		}
	}
	return a
}

// FromDescriptors converts descriptors in order.
func FromDescriptors(ds []*addon.Descriptor) []AddOn {
	out := make([]AddOn, 0, len(ds))
	for _, d := range ds {
		out = append(out, FromDescriptor(d))
	}
	return out
}

func fromDependencies(deps []addon.Dependency) []Dependency {
	if len(deps) == 0 {
		return nil
	}
	out := make([]Dependency, 0, len(deps))
	for _, dep := range deps {
		out = append(out, Dependency{ID: dep.ID, Version: dep.Version})
	}
	return out
}

// FromValidation converts a validation result. A valid result carries the
// descriptor built from it when d is not nil.
func FromValidation(result addon.ValidationResult, d *addon.Descriptor) Validation {
	v := Validation{
		Path:     result.Path,
		Validity: result.Validity.String(),
		Valid:    result.Valid(),
	}
	if !v.Valid {
		v.Reason = result.Reason()
		if result.Cause != nil {
			v.Error = result.Cause.Error()
		}
	}
	if d != nil {
		a := FromDescriptor(d)
		v.AddOn = &a
	}
	return v
}

// FromIssues converts compatibility issues.
func FromIssues(issues []addon.CompatibilityIssue) []Issue {
	if len(issues) == 0 {
		return nil
	}
	out := make([]Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, Issue{
			Kind:     string(i.Kind),
			Observed: i.Observed,
			Required: i.Required,
			Message:  i.String(),
		})
	}
	return out
}

// FromScan converts a scan report.
func FromScan(r *scan.Report) Scan {
	s := Scan{
		Installed:  FromDescriptors(r.Installed),
		Rejected:   make([]Validation, 0, len(r.Rejected)),
		Superseded: make([]Superseded, 0, len(r.Superseded)),
		Blocked:    make([]Blocked, 0, len(r.Blocked)),
	}
	for _, rej := range r.Rejected {
		v := FromValidation(rej.Result, nil)
		v.Path = rej.Path
		if v.Valid {
			// The archive was sound but no descriptor could be built from it.
			v.Valid = false
			v.Reason = "invalid add-on identity"
		}
		if rej.Err != nil && v.Error == "" {
			v.Error = rej.Err.Error()
		}
		s.Rejected = append(s.Rejected, v)
	}
	for _, sup := range r.Superseded {
		s.Superseded = append(s.Superseded, Superseded{AddOn: FromDescriptor(sup.AddOn), By: sup.By.String()})
	}
	for _, b := range r.Blocked {
		s.Blocked = append(s.Blocked, Blocked{
			AddOn:               FromDescriptor(b.AddOn),
			Issues:              FromIssues(b.Issues),
			MissingDependencies: fromDependencies(b.MissingDependencies),
		})
	}
	return s
}
