// SPDX-License-Identifier: MPL-2.0

package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/addonvet/addonvet/pkg/addon"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultPattern selects every file in a directory.
	DefaultPattern = "*"
	// DefaultConcurrency bounds how many archives are validated at once.
	DefaultConcurrency = 4
)

// ErrInvalidPattern is returned when the scan pattern is not a valid glob.
var ErrInvalidPattern = errors.New("invalid scan pattern")

type (
	// Settings selects the files to scan and the environment add-ons must run in.
	// Empty HostVersion or JavaVersion skips that compatibility check.
	Settings struct {
		Pattern     string
		Concurrency int
		HostVersion string
		JavaVersion string
	}

	// Option configures a Scanner.
	Option func(*Scanner)

	// Scanner finds add-on archives in directories and decides which of them
	// would be installed.
	Scanner struct {
		settings  Settings
		validator *addon.Validator
		logger    *log.Logger
	}

	// Rejected is a candidate that failed validation or could not be described.
	Rejected struct {
		Path   string
		Result addon.ValidationResult
		Err    error
	}

	// Superseded is an add-on dropped in favour of an update of the same lineage.
	Superseded struct {
		AddOn *addon.Descriptor
		By    *addon.Descriptor
	}

	// Blocked is an add-on that cannot be installed in the scanned environment.
	Blocked struct {
		AddOn               *addon.Descriptor
		Issues              []addon.CompatibilityIssue
		MissingDependencies []addon.Dependency
	}

	// Report is the outcome of a scan. Every slice is sorted by add-on id,
	// Rejected by path.
	Report struct {
		Installed  []*addon.Descriptor
		Rejected   []Rejected
		Superseded []Superseded
		Blocked    []Blocked
	}
)

// WithValidator replaces the default validator.
func WithValidator(v *addon.Validator) Option {
	return func(s *Scanner) { s.validator = v }
}

// WithLogger sets the logger decisions are reported to.
func WithLogger(l *log.Logger) Option {
	return func(s *Scanner) { s.logger = l }
}

// New creates a Scanner. Zero settings fall back to DefaultPattern and
// DefaultConcurrency.
func New(settings Settings, opts ...Option) (*Scanner, error) {
	if settings.Pattern == "" {
		settings.Pattern = DefaultPattern
	}
	if settings.Concurrency < 1 {
		settings.Concurrency = DefaultConcurrency
	}
	if !doublestar.ValidatePattern(settings.Pattern) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, settings.Pattern)
	}

	s := &Scanner{
		settings:  settings,
		validator: addon.NewValidator(),
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Scan validates every add-on file found in dirs and sorts the results into
// installed, rejected, superseded and blocked add-ons.
func (s *Scanner) Scan(ctx context.Context, dirs ...string) (*Report, error) {
	paths, err := s.candidates(dirs)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("found candidates", "count", len(paths))

	results := make([]addon.ValidationResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.settings.Concurrency)
	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.validator.Validate(p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan canceled: %w", err)
	}

	report := &Report{}
	var valid []*addon.Descriptor
	for i, result := range results {
		if !result.Valid() {
			s.logger.Info("rejected add-on", "path", paths[i], "validity", result.Validity, "reason", result.Reason())
			report.Rejected = append(report.Rejected, Rejected{Path: paths[i], Result: result, Err: result.Err()})
			continue
		}
		d, err := addon.NewFromValidation(result)
		if err != nil {
			s.logger.Info("rejected add-on", "path", paths[i], "error", err)
			report.Rejected = append(report.Rejected, Rejected{Path: paths[i], Result: result, Err: err})
			continue
		}
		valid = append(valid, d)
	}

	survivors := s.pickUpdates(valid, report)
	survivors = s.checkCompatibility(survivors, report)
	report.Installed = s.checkDependencies(survivors, report)

	sortReport(report)
	return report, nil
}

// candidates lists the add-on files in dirs, in a stable order without duplicates.
func (s *Scanner) candidates(dirs []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			s.logger.Warn("skipping add-on directory", "dir", dir, "error", err)
			continue
		}

		matches, err := doublestar.Glob(os.DirFS(dir), s.settings.Pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q in %s: %w", s.settings.Pattern, dir, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			p := filepath.Join(dir, filepath.FromSlash(m))
			if seen[p] || !addon.IsAddOnFileName(p) {
				continue
			}
			seen[p] = true
			paths = append(paths, p)
		}
	}
	return paths, nil
}

// pickUpdates keeps one add-on per id: the one no other candidate is an
// update to. Ties keep the first candidate found.
func (s *Scanner) pickUpdates(valid []*addon.Descriptor, report *Report) []*addon.Descriptor {
	var order []string
	lineages := make(map[string][]*addon.Descriptor)
	for _, d := range valid {
		if _, ok := lineages[d.ID()]; !ok {
			order = append(order, d.ID())
		}
		lineages[d.ID()] = append(lineages[d.ID()], d)
	}

	survivors := make([]*addon.Descriptor, 0, len(order))
	for _, id := range order {
		lineage := lineages[id]
		best := lineage[0]
		for _, d := range lineage[1:] {
			if newer, _ := d.IsUpdateTo(best); newer {
				best = d
			}
		}
		for _, d := range lineage {
			if d == best {
				continue
			}
			by := d.SupersededBy(lineage)
			if by == nil {
				by = best
			}
			s.logger.Info("superseded add-on", "id", id, "version", d.Version(), "by", by.Version())
			report.Superseded = append(report.Superseded, Superseded{AddOn: d, By: by})
		}
		survivors = append(survivors, best)
	}
	return survivors
}

func (s *Scanner) checkCompatibility(candidates []*addon.Descriptor, report *Report) []*addon.Descriptor {
	if s.settings.HostVersion == "" && s.settings.JavaVersion == "" {
		return candidates
	}
	var ok []*addon.Descriptor
	for _, d := range candidates {
		issues := d.CompatibilityIssues(s.settings.HostVersion, s.settings.JavaVersion)
		if len(issues) == 0 {
			ok = append(ok, d)
			continue
		}
		for _, i := range issues {
			s.logger.Info("blocked add-on", "id", d.ID(), "issue", i.Kind, "observed", i.Observed, "required", i.Required)
		}
		report.Blocked = append(report.Blocked, Blocked{AddOn: d, Issues: issues})
	}
	return ok
}

// checkDependencies blocks add-ons whose direct dependencies are not among
// candidates. Dependencies of dependencies are not followed.
func (s *Scanner) checkDependencies(candidates []*addon.Descriptor, report *Report) []*addon.Descriptor {
	var ok []*addon.Descriptor
	for _, d := range candidates {
		missing := d.MissingDependencies(candidates)
		if len(missing) == 0 {
			s.logger.Debug("installable add-on", "id", d.ID(), "version", d.Version(), "status", d.Status())
			ok = append(ok, d)
			continue
		}
		for _, dep := range missing {
			s.logger.Info("blocked add-on", "id", d.ID(), "missing", dep.ID)
		}
		report.Blocked = append(report.Blocked, Blocked{AddOn: d, MissingDependencies: missing})
	}
	return ok
}

func sortReport(r *Report) {
	sort.SliceStable(r.Installed, func(i, j int) bool { return r.Installed[i].ID() < r.Installed[j].ID() })
	sort.SliceStable(r.Rejected, func(i, j int) bool { return r.Rejected[i].Path < r.Rejected[j].Path })
	sort.SliceStable(r.Superseded, func(i, j int) bool { return r.Superseded[i].AddOn.ID() < r.Superseded[j].AddOn.ID() })
	sort.SliceStable(r.Blocked, func(i, j int) bool { return r.Blocked[i].AddOn.ID() < r.Blocked[j].AddOn.ID() })
}
