// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/addonvet/addonvet/pkg/version"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// FormatText renders reports as styled text.
	FormatText ReportFormat = "text"
	// FormatTOML renders reports as TOML.
	FormatTOML ReportFormat = "toml"
	// FormatYAML renders reports as YAML.
	FormatYAML ReportFormat = "yaml"

	// LogLevelDebug logs every decision the scanner makes.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs rejected, superseded and blocked add-ons.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs only problems.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs only failures.
	LogLevelError LogLevel = "error"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultScanPattern matches every file; names are filtered by extension afterwards.
	DefaultScanPattern = "*"
	// DefaultScanConcurrency bounds parallel archive validation.
	DefaultScanConcurrency = 4
)

var (
	// ErrInvalidReportFormat is returned when a ReportFormat value is not recognized.
	ErrInvalidReportFormat = errors.New("invalid report format")
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidAddOnDir is returned when an add-on directory is empty or whitespace-only.
	ErrInvalidAddOnDir = errors.New("invalid add-on directory")
	// ErrInvalidScanConfig is the sentinel error wrapped by InvalidScanConfigError.
	ErrInvalidScanConfig = errors.New("invalid scan config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ReportFormat selects how reports are rendered.
	ReportFormat string

	// LogLevel is the minimum level of log messages written.
	LogLevel string

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// AddOnDir is a directory scanned for add-on archives.
	AddOnDir string

	// InvalidValueError is returned when an enumerated setting holds an unknown value.
	InvalidValueError struct {
		Field string
		Value string
		Valid []string
		Err   error
	}

	// InvalidScanConfigError is returned when a ScanConfig has invalid fields.
	// It wraps ErrInvalidScanConfig for errors.Is() compatibility.
	InvalidScanConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// HostVersion is the host application version add-ons are checked against.
		HostVersion string `json:"host_version" mapstructure:"host_version" yaml:"host_version" toml:"host_version"`
		// JavaVersion is the Java runtime version add-ons are checked against.
		JavaVersion string `json:"java_version" mapstructure:"java_version" yaml:"java_version" toml:"java_version"`
		// AddOnDirs are scanned when no directory is given on the command line.
		AddOnDirs []AddOnDir `json:"addon_dirs" mapstructure:"addon_dirs" yaml:"addon_dirs" toml:"addon_dirs"`
		// Scan tunes the startup scan.
		Scan ScanConfig `json:"scan" mapstructure:"scan" yaml:"scan" toml:"scan"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui" yaml:"ui" toml:"ui"`
		// Log configures diagnostic logging.
		Log LogConfig `json:"log" mapstructure:"log" yaml:"log" toml:"log"`
	}

	// ScanConfig configures the startup scan.
	ScanConfig struct {
		// Pattern is a doublestar glob evaluated in each add-on directory.
		Pattern string `json:"pattern" mapstructure:"pattern" yaml:"pattern" toml:"pattern"`
		// Concurrency is the number of archives validated in parallel.
		Concurrency int `json:"concurrency" mapstructure:"concurrency" yaml:"concurrency" toml:"concurrency"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		Verbose     bool         `json:"verbose" mapstructure:"verbose" yaml:"verbose" toml:"verbose"`
		Format      ReportFormat `json:"format" mapstructure:"format" yaml:"format" toml:"format"`
		ColorScheme ColorScheme  `json:"color_scheme" mapstructure:"color_scheme" yaml:"color_scheme" toml:"color_scheme"`
	}

	// LogConfig configures diagnostic logging.
	LogConfig struct {
		Level LogLevel `json:"level" mapstructure:"level" yaml:"level" toml:"level"`
	}
)

// Error implements the error interface.
func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid %s %q (valid: %s)", e.Field, e.Value, strings.Join(e.Valid, ", "))
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidValueError) Unwrap() error { return e.Err }

// String returns the string representation of the ReportFormat.
func (f ReportFormat) String() string { return string(f) }

// IsValid returns whether the ReportFormat is one of the defined formats,
// and a list of validation errors if it is not.
func (f ReportFormat) IsValid() (bool, []error) {
	switch f {
	case FormatText, FormatTOML, FormatYAML:
		return true, nil
	default:
		return false, []error{&InvalidValueError{
			Field: "report format", Value: string(f),
			Valid: []string{"text", "toml", "yaml"}, Err: ErrInvalidReportFormat,
		}}
	}
}

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels,
// and a list of validation errors if it is not.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidValueError{
			Field: "log level", Value: string(l),
			Valid: []string{"debug", "info", "warn", "error"}, Err: ErrInvalidLogLevel,
		}}
	}
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidValueError{
			Field: "color scheme", Value: string(cs),
			Valid: []string{"auto", "dark", "light"}, Err: ErrInvalidColorScheme,
		}}
	}
}

// String returns the string representation of the AddOnDir.
func (d AddOnDir) String() string { return string(d) }

// IsValid returns whether the AddOnDir is non-empty and not whitespace-only.
func (d AddOnDir) IsValid() (bool, []error) {
	if strings.TrimSpace(string(d)) == "" {
		return false, []error{fmt.Errorf("%w %q: must be non-empty", ErrInvalidAddOnDir, string(d))}
	}
	return true, nil
}

// IsValid returns whether the ScanConfig has a well-formed pattern and a
// positive concurrency.
func (c ScanConfig) IsValid() (bool, []error) {
	var errs []error
	if c.Pattern == "" || !doublestar.ValidatePattern(c.Pattern) {
		errs = append(errs, fmt.Errorf("pattern %q is not a valid glob", c.Pattern))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency %d must be at least 1", c.Concurrency))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidScanConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidScanConfigError.
func (e *InvalidScanConfigError) Error() string {
	return fmt.Sprintf("invalid scan config: %s", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidScanConfig for errors.Is() compatibility.
func (e *InvalidScanConfigError) Unwrap() error { return ErrInvalidScanConfig }

// IsValid returns whether the Config has valid fields. Version strings are
// checked with the same parsers the compatibility gate uses.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if c.HostVersion != "" {
		if _, err := version.Parse(c.HostVersion); err != nil {
			errs = append(errs, fmt.Errorf("host_version: %w", err))
		}
	}
	if c.JavaVersion != "" {
		if _, err := version.ParseRuntime(c.JavaVersion); err != nil {
			errs = append(errs, fmt.Errorf("java_version: %w", err))
		}
	}
	for _, dir := range c.AddOnDirs {
		if valid, fieldErrs := dir.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	for _, check := range []func() (bool, []error){
		c.Scan.IsValid, c.UI.Format.IsValid, c.UI.ColorScheme.IsValid, c.Log.Level.IsValid,
	} {
		if valid, fieldErrs := check(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig and the field errors, so errors.Is() matches
// both the config sentinel and the sentinel of each invalid field.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// Dirs returns the add-on directories as plain paths.
func (c Config) Dirs() []string {
	dirs := make([]string, 0, len(c.AddOnDirs))
	for _, d := range c.AddOnDirs {
		dirs = append(dirs, string(d))
	}
	return dirs
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		AddOnDirs: []AddOnDir{},
		Scan: ScanConfig{
			Pattern:     DefaultScanPattern,
			Concurrency: DefaultScanConcurrency,
		},
		UI: UIConfig{
			Format:      FormatText,
			ColorScheme: ColorSchemeAuto,
		},
		Log: LogConfig{
			Level: LogLevelInfo,
		},
	}
}
