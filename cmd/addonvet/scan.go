// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/addonvet/addonvet/internal/issue"
	"github.com/addonvet/addonvet/internal/report"
	"github.com/addonvet/addonvet/internal/scan"
	"github.com/addonvet/addonvet/internal/watch"

	"github.com/spf13/cobra"
)

var errNoDirectories = errors.New("no add-on directories to scan")

// newScanCommand creates the `addonvet scan` command.
func newScanCommand(app *App) *cobra.Command {
	var (
		host, java, pattern string
		watchDirs           bool
		debounce            time.Duration
	)

	cmd := &cobra.Command{
		Use:   "scan [dir...]",
		Short: "Work out which add-ons in directories would be installed",
		Long: `Scan directories the way the host does at startup.

Every add-on file matching the pattern is validated. For each add-on id the
update wins and the other versions are superseded. Add-ons the host or Java
runtime cannot load, and add-ons whose direct dependencies did not survive,
are blocked.

Directories default to 'addon_dirs' from the configuration. Exits with
status 1 when an add-on is rejected or blocked.

With --watch the directories are scanned again whenever an add-on archive
appears, changes or is removed, until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dirs := args
			if len(dirs) == 0 {
				dirs = app.cfg.Dirs()
			}
			settings := scan.Settings{
				Pattern:     firstNonEmpty(pattern, app.cfg.Scan.Pattern),
				Concurrency: app.cfg.Scan.Concurrency,
				HostVersion: firstNonEmpty(host, app.cfg.HostVersion),
				JavaVersion: firstNonEmpty(java, app.cfg.JavaVersion),
			}
			if watchDirs {
				return watchScan(cmd.Context(), app, dirs, settings, debounce)
			}
			return runScan(cmd.Context(), app, dirs, settings)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "host application version (default from config)")
	cmd.Flags().StringVar(&java, "java", "", "Java runtime version (default from config)")
	cmd.Flags().StringVar(&pattern, "pattern", "", "glob selecting files in each directory (default from config)")
	cmd.Flags().BoolVarP(&watchDirs, "watch", "w", false, "scan again whenever add-on archives change")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before scanning again in --watch mode")

	return cmd
}

func runScan(ctx context.Context, app *App, dirs []string, settings scan.Settings) error {
	scanner, err := newScanner(app, dirs, settings)
	if err != nil {
		return err
	}

	r, err := scanOnce(ctx, app, scanner, dirs)
	if err != nil {
		return err
	}
	if len(r.Rejected) > 0 || len(r.Blocked) > 0 {
		return rejected(nil)
	}
	return nil
}

// watchScan reports once, then again after every change, until ctx ends.
func watchScan(ctx context.Context, app *App, dirs []string, settings scan.Settings, debounce time.Duration) error {
	scanner, err := newScanner(app, dirs, settings)
	if err != nil {
		return err
	}

	w, err := watch.New(watch.Config{
		Dirs:     dirs,
		Pattern:  settings.Pattern,
		Debounce: debounce,
		Logger:   app.logger,
		OnChange: func(ctx context.Context, changed []string) error {
			app.logger.Info("add-ons changed, scanning again", "files", len(changed))
			_, err := scanOnce(ctx, app, scanner, dirs)
			return err
		},
	})
	if err != nil {
		return usageError(err)
	}

	if _, err := scanOnce(ctx, app, scanner, dirs); err != nil {
		return err
	}
	app.logger.Info("watching add-on directories", "dirs", w.Dirs())
	return w.Run(ctx)
}

func newScanner(app *App, dirs []string, settings scan.Settings) (*scan.Scanner, error) {
	if len(dirs) == 0 {
		return nil, usageError(issue.NewErrorContext().
			WithOperation("scan add-on directories").
			WithSuggestion("Pass the directories to scan").
			WithSuggestion("Or set addon_dirs in the configuration").
			Wrap(errNoDirectories).
			BuildError())
	}

	scanner, err := scan.New(settings, scan.WithLogger(app.logger))
	if err != nil {
		return nil, usageError(err)
	}
	return scanner, nil
}

func scanOnce(ctx context.Context, app *App, scanner *scan.Scanner, dirs []string) (*scan.Report, error) {
	r, err := scanner.Scan(ctx, dirs...)
	if err != nil {
		return nil, err
	}
	if err := app.write(report.FromScan(r)); err != nil {
		return nil, err
	}
	return r, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
