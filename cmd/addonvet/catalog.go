// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"

	"github.com/addonvet/addonvet/internal/issue"
	"github.com/addonvet/addonvet/internal/report"
	"github.com/addonvet/addonvet/pkg/addon"

	"github.com/spf13/cobra"
)

// newCatalogCommand creates the `addonvet catalog` command.
func newCatalogCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog <file> [id]",
		Short: "List the add-ons of a ZapVersions catalog",
		Long: `List the add-ons of a ZapVersions catalog, or show one of them.

Catalog entries are elements named 'addon_<id>' holding the manifest fields
and the download metadata (file, url, size, hash, date, info).`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog(args[0])
			if err != nil {
				return err
			}

			if len(args) == 2 {
				d, err := catalogDescriptor(catalog, args[1])
				if err != nil {
					return err
				}
				return app.write(report.Info{AddOn: report.FromDescriptor(d)})
			}

			ds, err := catalog.Descriptors()
			if err != nil {
				return rejected(err)
			}
			app.logger.Debug("catalog loaded", "path", args[0], "addons", catalog.Len())
			return app.write(report.Catalog{AddOns: report.FromDescriptors(ds)})
		},
	}
}

func loadCatalog(path string) (*addon.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, usageError(issue.NewErrorContext().
			WithOperation("open catalog").
			WithResource(path).
			WithSuggestion("Check the catalog path").
			Wrap(err).
			BuildError())
	}
	defer f.Close()

	catalog, err := addon.ParseCatalog(f)
	if err != nil {
		return nil, rejected(issue.NewErrorContext().
			WithOperation("parse catalog").
			WithResource(path).
			WithSuggestion("Catalog entries must be 'addon_<id>' elements under the root element").
			Wrap(err).
			BuildError())
	}
	return catalog, nil
}
