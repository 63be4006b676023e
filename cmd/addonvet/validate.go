// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/addonvet/addonvet/internal/issue"
	"github.com/addonvet/addonvet/internal/report"
	"github.com/addonvet/addonvet/pkg/addon"

	"github.com/spf13/cobra"
)

// newValidateCommand creates the `addonvet validate` command.
func newValidateCommand(app *App) *cobra.Command {
	var explain bool

	cmd := &cobra.Command{
		Use:   "validate <path>...",
		Short: "Check that files are readable add-on archives",
		Long: `Check that each path names a readable add-on archive with a valid manifest.

Checks run in order and the first failure is reported:
  invalid_path, invalid_file_name, file_not_readable,
  unreadable_zip_file, missing_manifest, invalid_manifest.

Exits with status 1 when any path is rejected.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(app, args, explain)
		},
	}

	cmd.Flags().BoolVar(&explain, "explain", false, "explain how to fix each rejection")

	return cmd
}

func runValidate(app *App, paths []string, explain bool) error {
	validator := addon.NewValidator()

	doc := report.Validations{Results: make([]report.Validation, 0, len(paths))}
	var rejections []addon.Validity
	for _, p := range paths {
		result := validator.Validate(p)
		if !result.Valid() {
			app.logger.Debug("rejected", "path", p, "validity", result.Validity, "cause", result.Cause)
			rejections = append(rejections, result.Validity)
			doc.Results = append(doc.Results, report.FromValidation(result, nil))
			continue
		}

		d, err := addon.NewFromValidation(result)
		if err != nil {
			// A sound archive whose file name yields no identity.
			v := report.FromValidation(result, nil)
			v.Valid = false
			v.Reason = "invalid add-on identity"
			v.Error = err.Error()
			rejections = append(rejections, addon.ValidityInvalidFileName)
			doc.Results = append(doc.Results, v)
			continue
		}
		doc.Results = append(doc.Results, report.FromValidation(result, d))
	}

	if err := app.write(doc); err != nil {
		return err
	}

	if explain {
		seen := make(map[addon.Validity]bool)
		for _, v := range rejections {
			if seen[v] {
				continue
			}
			seen[v] = true
			if err := app.explain(issue.ForValidity(v)); err != nil {
				return err
			}
		}
	}

	if len(rejections) > 0 {
		return rejected(nil)
	}
	return nil
}
