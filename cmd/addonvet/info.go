// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"

	"github.com/addonvet/addonvet/internal/issue"
	"github.com/addonvet/addonvet/internal/report"
	"github.com/addonvet/addonvet/pkg/addon"

	"github.com/spf13/cobra"
)

// newInfoCommand creates the `addonvet info` command.
func newInfoCommand(app *App) *cobra.Command {
	var byName bool

	cmd := &cobra.Command{
		Use:   "info <path>",
		Short: "Show the descriptor of an add-on",
		Long: `Show everything known about an add-on: identity, status and version,
the host and Java bounds, dependencies, and resource bundle and help set.

With --name the argument is a legacy file name such as 'ascan-beta-3.zap'
and nothing is read from disk.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDescriptor(args[0], byName)
			if err != nil {
				return err
			}
			return app.write(report.Info{AddOn: report.FromDescriptor(d)})
		},
	}

	cmd.Flags().BoolVar(&byName, "name", false, "describe a legacy file name instead of reading an archive")

	return cmd
}

// loadDescriptor builds a descriptor from an archive, or from a legacy file
// name when byName is set. Failures are returned as exit errors carrying
// remediation hints.
func loadDescriptor(arg string, byName bool) (*addon.Descriptor, error) {
	if byName {
		d, err := addon.NewFromFileName(arg)
		if err != nil {
			return nil, usageError(issue.NewErrorContext().
				WithOperation("parse add-on file name").
				WithResource(arg).
				WithSuggestion("Legacy names look like <id>-<status>-<version>.zap, e.g. ascan-beta-3.zap").
				Wrap(err).
				BuildError())
		}
		return d, nil
	}

	d, err := addon.NewFromArchive(arg)
	if err == nil {
		return d, nil
	}

	ctx := issue.NewErrorContext().
		WithOperation("read add-on").
		WithResource(arg)
	var ve *addon.ValidationError
	if errors.As(err, &ve) {
		ctx = ctx.WithSuggestion("Run 'addonvet validate --explain " + arg + "' for details")
	}
	return nil, rejected(ctx.Wrap(err).BuildError())
}
