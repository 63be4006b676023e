// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// skipConfigAnnotation marks commands that must run even when the
// configuration cannot be loaded.
const skipConfigAnnotation = "addonvet/skip-config"

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "addonvet",
		Short: "Validate, compare and check add-on packages",
		Long: TitleStyle.Render("addonvet") + SubtitleStyle.Render(" - Validate, compare and check add-on packages") + `

addonvet inspects '.zap' add-on archives: it checks that they are well formed,
decides which of two versions is the update, and verifies that an add-on
can load in a given host and Java runtime with its dependencies available.

` + SubtitleStyle.Render("Examples:") + `
  addonvet validate plugin/*.zap            Check archives
  addonvet compare new.zap old.zap          Is new.zap an update to old.zap?
  addonvet compat --host 2.14.0 ascan.zap   Can ascan.zap load in host 2.14.0?
  addonvet scan ~/.ZAP/plugin               What would be installed at startup?`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipConfigAnnotation] == "true" {
				return nil
			}
			return app.loadConfig(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.flags.cfgFile, "config", "", "config file (default is $HOME/.config/addonvet/config.cue)")
	rootCmd.PersistentFlags().StringVarP(&app.flags.format, "format", "f", "", "output format: text, toml or yaml (default from config)")

	rootCmd.AddCommand(
		newValidateCommand(app),
		newInfoCommand(app),
		newCompareCommand(app),
		newCompatCommand(app),
		newDepsCommand(app),
		newScanCommand(app),
		newCatalogCommand(app),
		newConfigCommand(app),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Run executes the CLI with args and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := NewApp(Dependencies{Stdout: stdout, Stderr: stderr})
	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			var exitErr *ExitError
			if errors.As(err, &exitErr) && exitErr.Err == nil {
				return
			}
			fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, app.flags.verbose))
		}),
	)
	if err == nil {
		return ExitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUsage
}

// Execute runs the CLI with the process arguments and exits.
// This is called by main.main().
func Execute() {
	os.Exit(Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
