// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/addonvet/addonvet/internal/config"
	"github.com/addonvet/addonvet/internal/issue"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `addonvet config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage addonvet configuration",
		Long: `Manage addonvet configuration.

Configuration is stored in:
  - Linux: ~/.config/addonvet/config.cue
  - macOS: ~/Library/Application Support/addonvet/config.cue
  - Windows: %APPDATA%\addonvet\config.cue

Every setting can be overridden by an ADDONVET_* environment variable,
e.g. ADDONVET_HOST_VERSION or ADDONVET_SCAN_CONCURRENCY.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the configuration in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(app)
		},
	})

	var dir string
	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Create the default configuration file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app, dir)
		},
	}
	initCmd.Flags().StringVar(&dir, "dir", "", "directory to create config.cue in (default is the config directory)")
	cfgCmd.AddCommand(initCmd)

	return cfgCmd
}

func showConfig(app *App) error {
	source := app.cfgPath
	if source == "" {
		source = "built-in defaults"
	}
	_, err := fmt.Fprintf(app.stdout, "// source: %s\n%s", source, config.GenerateCUE(app.cfg))
	return err
}

func initConfig(app *App, dir string) error {
	path, created, err := config.CreateDefaultConfig(dir)
	if err != nil {
		return usageError(issue.NewErrorContext().
			WithOperation("create configuration").
			WithResource(dir).
			WithSuggestion("Check that the directory is writable").
			Wrap(err).
			BuildError())
	}

	if !created {
		_, err = fmt.Fprintln(app.stdout, WarningStyle.Render("Configuration already exists: ")+path)
		return err
	}
	_, err = fmt.Fprintln(app.stdout, SuccessStyle.Render("Created configuration: ")+path)
	return err
}
