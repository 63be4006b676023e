// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/addonvet/addonvet/internal/config"
	"github.com/addonvet/addonvet/internal/issue"
	"github.com/addonvet/addonvet/internal/report"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared state. Every command handler receives
	// the App and reads the loaded configuration and output streams from it.
	App struct {
		Config config.Provider
		stdout io.Writer
		stderr io.Writer

		flags   globalFlags
		cfg     *config.Config
		cfgPath string
		format  report.Format
		logger  *log.Logger
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Stdout io.Writer
		Stderr io.Writer
	}

	globalFlags struct {
		verbose bool
		cfgFile string
		format  string
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	return &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
		cfg:    config.DefaultConfig(),
		format: report.FormatText,
		logger: newLogger(deps.Stderr, config.LogLevelInfo),
	}
}

func newLogger(w io.Writer, level config.LogLevel) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: config.AppName})
	if lvl, err := log.ParseLevel(level.String()); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}

// loadConfig reads the configuration and applies it together with the global
// flags. Flags take precedence over the file and the environment.
func (a *App) loadConfig(ctx context.Context) error {
	loaded, err := a.Config.LoadWithSource(ctx, config.LoadOptions{ConfigFilePath: a.flags.cfgFile})
	if err != nil {
		return usageError(err)
	}
	a.cfg = loaded.Config
	a.cfgPath = loaded.Path

	if !a.flags.verbose {
		a.flags.verbose = a.cfg.UI.Verbose
	}

	level := a.cfg.Log.Level
	if a.flags.verbose {
		level = config.LogLevelDebug
	}
	a.logger = newLogger(a.stderr, level)

	format := a.flags.format
	if format == "" {
		format = a.cfg.UI.Format.String()
	}
	a.format, err = report.ParseFormat(format)
	if err != nil {
		return usageError(issue.NewErrorContext().
			WithOperation("select output format").
			WithSuggestion("Use --format text, --format toml or --format yaml").
			Wrap(err).
			BuildError())
	}

	a.logger.Debug("configuration loaded", "path", a.cfgPath, "format", a.format)
	return nil
}

// write renders doc to stdout in the selected format.
func (a *App) write(doc report.Document) error {
	if err := report.Write(a.stdout, a.format, doc); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// explain prints the guide for an issue. Guides are text-only; structured
// formats skip them.
func (a *App) explain(i *issue.Issue) error {
	if i == nil || a.format != report.FormatText {
		return nil
	}
	out, err := i.Render(a.glamourStyle())
	if err != nil {
		return fmt.Errorf("render explanation: %w", err)
	}
	_, err = fmt.Fprint(a.stdout, out)
	return err
}

// glamourStyle maps the configured color scheme to a glamour style name.
func (a *App) glamourStyle() string {
	switch a.cfg.UI.ColorScheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		if f, ok := a.stdout.(*os.File); ok && isTerminal(f) {
			return "auto"
		}
		return "notty"
	}
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
