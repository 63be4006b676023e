// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"

	"github.com/addonvet/addonvet/internal/issue"
	"github.com/addonvet/addonvet/internal/report"

	"github.com/spf13/cobra"
)

var errNoTarget = errors.New("no host or java version to check against")

// newCompatCommand creates the `addonvet compat` command.
func newCompatCommand(app *App) *cobra.Command {
	var (
		host, java string
		byName     bool
		explain    bool
	)

	cmd := &cobra.Command{
		Use:   "compat <path>",
		Short: "Check whether an add-on can load in a host and Java runtime",
		Long: `Check an add-on against a host version and a Java runtime version.

The host must be at or above 'not-before-version' and strictly below
'not-from-version'. The Java runtime must be at or above the declared
minimum; legacy '1.x' runtimes count as x.

Versions default to 'host_version' and 'java_version' from the
configuration. Exits with status 1 when the add-on is not compatible.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if host == "" {
				host = app.cfg.HostVersion
			}
			if java == "" {
				java = app.cfg.JavaVersion
			}
			return runCompat(app, args[0], host, java, byName, explain)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "host application version (default from config)")
	cmd.Flags().StringVar(&java, "java", "", "Java runtime version (default from config)")
	cmd.Flags().BoolVar(&byName, "name", false, "check a legacy file name instead of reading an archive")
	cmd.Flags().BoolVar(&explain, "explain", false, "explain how to fix each problem")

	return cmd
}

func runCompat(app *App, path, host, java string, byName, explain bool) error {
	if host == "" && java == "" {
		return usageError(issue.NewErrorContext().
			WithOperation("check compatibility").
			WithSuggestion("Pass --host and/or --java").
			WithSuggestion("Or set host_version / java_version in the configuration").
			Wrap(errNoTarget).
			BuildError())
	}

	d, err := loadDescriptor(path, byName)
	if err != nil {
		return err
	}

	issues := d.CompatibilityIssues(host, java)
	doc := report.Compatibility{
		ID:          d.ID(),
		Version:     d.Version().String(),
		HostVersion: host,
		JavaVersion: java,
		Compatible:  len(issues) == 0,
		Issues:      report.FromIssues(issues),
	}
	if host != "" {
		ok := d.CanLoadInVersion(host)
		doc.CanLoadInVersion = &ok
	}
	if java != "" {
		ok := d.CanRunInJavaVersion(java)
		doc.CanRunInJavaVersion = &ok
	}

	if err := app.write(doc); err != nil {
		return err
	}

	if explain {
		explained := make(map[issue.Id]bool)
		for _, i := range issues {
			guide := issue.ForCompatibility(i.Kind)
			if guide == nil || explained[guide.Id()] {
				continue
			}
			explained[guide.Id()] = true
			if err := app.explain(guide); err != nil {
				return err
			}
		}
	}

	if !doc.Compatible {
		return rejected(nil)
	}
	return nil
}
