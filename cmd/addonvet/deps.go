// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"os"

	"github.com/addonvet/addonvet/internal/issue"
	"github.com/addonvet/addonvet/internal/report"
	"github.com/addonvet/addonvet/pkg/addon"

	"github.com/spf13/cobra"
)

// newDepsCommand creates the `addonvet deps` command.
func newDepsCommand(app *App) *cobra.Command {
	var (
		catalogPath string
		against     []string
		explain     bool
	)

	cmd := &cobra.Command{
		Use:   "deps <path|id>",
		Short: "Show and check the direct dependencies of an add-on",
		Long: `Show the add-ons an add-on directly depends on.

--against lists add-on archives to check: each one is reported as a direct
dependency or not, and dependencies none of them provide are missing.
--catalog resolves dependencies against a ZapVersions catalog; the argument
may then also be a catalog id. Dependencies of dependencies are not followed.

Exits with status 1 when a dependency is missing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeps(app, args[0], catalogPath, against, explain)
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "resolve dependencies against this catalog file")
	cmd.Flags().StringSliceVar(&against, "against", nil, "add-on archives to check the dependencies against")
	cmd.Flags().BoolVar(&explain, "explain", false, "explain how to fix missing dependencies")

	return cmd
}

func runDeps(app *App, arg, catalogPath string, againstPaths []string, explain bool) error {
	var catalog *addon.Catalog
	if catalogPath != "" {
		c, err := loadCatalog(catalogPath)
		if err != nil {
			return err
		}
		catalog = c
	}

	d, err := subjectDescriptor(arg, catalog)
	if err != nil {
		return err
	}

	against := make([]*addon.Descriptor, 0, len(againstPaths))
	for _, p := range againstPaths {
		other, err := loadDescriptor(p, false)
		if err != nil {
			return err
		}
		against = append(against, other)
	}

	doc := report.Dependencies{ID: d.ID(), Declared: []report.Dependency{}}
	for _, dep := range d.Dependencies() {
		doc.Declared = append(doc.Declared, report.Dependency{ID: dep.ID, Version: dep.Version})
	}

	var missing []addon.Dependency
	if len(against) > 0 {
		for _, other := range against {
			doc.Checked = append(doc.Checked, report.DependsOn{ID: other.ID(), DependsOn: d.DependsOn(other)})
		}
		anyDep := d.DependsOnAny(against)
		doc.DependsOnAny = &anyDep
		missing = d.MissingDependencies(against)
	}

	if catalog != nil {
		found, unknown, err := catalog.Dependencies(d)
		if err != nil {
			return rejected(issue.NewErrorContext().
				WithOperation("resolve dependencies").
				WithResource(catalogPath).
				Wrap(err).
				BuildError())
		}
		doc.Resolved = report.FromDescriptors(found)
		if len(against) > 0 {
			// Only what neither the archives nor the catalog provide is missing.
			missing = intersectDependencies(missing, unknown)
		} else {
			missing = unknown
		}
	}

	for _, m := range missing {
		doc.Missing = append(doc.Missing, report.Dependency{ID: m.ID, Version: m.Version})
	}

	if err := app.write(doc); err != nil {
		return err
	}
	if len(missing) == 0 {
		return nil
	}
	if explain {
		if err := app.explain(issue.Get(issue.MissingDependencyId)); err != nil {
			return err
		}
	}
	return rejected(nil)
}

// subjectDescriptor reads the add-on archive at arg, or looks arg up in the
// catalog when it is not a file.
func subjectDescriptor(arg string, catalog *addon.Catalog) (*addon.Descriptor, error) {
	if catalog != nil {
		if _, err := os.Stat(arg); errors.Is(err, os.ErrNotExist) {
			return catalogDescriptor(catalog, arg)
		}
	}
	return loadDescriptor(arg, false)
}

func catalogDescriptor(catalog *addon.Catalog, id string) (*addon.Descriptor, error) {
	d, err := catalog.Descriptor(id)
	if err != nil {
		return nil, rejected(issue.NewErrorContext().
			WithOperation("look up add-on").
			WithResource(id).
			WithSuggestion("Run 'addonvet catalog <file>' to list the catalog ids").
			Wrap(err).
			BuildError())
	}
	return d, nil
}

func intersectDependencies(a, b []addon.Dependency) []addon.Dependency {
	inB := make(map[string]bool, len(b))
	for _, dep := range b {
		inB[dep.ID] = true
	}
	var out []addon.Dependency
	for _, dep := range a {
		if inB[dep.ID] {
			out = append(out, dep)
		}
	}
	return out
}
