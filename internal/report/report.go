// SPDX-License-Identifier: MPL-2.0

package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// FormatText renders documents as styled text.
	FormatText Format = "text"
	// FormatTOML renders documents as TOML.
	FormatTOML Format = "toml"
	// FormatYAML renders documents as YAML.
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned for a Format that is not one of the constants.
var ErrUnknownFormat = errors.New("unknown report format")

type (
	// Format selects a document encoding.
	Format string

	// Document is a report that can be written as text, TOML or YAML.
	Document interface {
		writeText(w io.Writer, s *styles) error
	}

	styles struct {
		title   lipgloss.Style
		label   lipgloss.Style
		muted   lipgloss.Style
		ok      lipgloss.Style
		bad     lipgloss.Style
		warning lipgloss.Style
	}
)

// ParseFormat returns the Format named by s.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatTOML, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("%w %q (valid: text, toml, yaml)", ErrUnknownFormat, s)
	}
}

// Write encodes doc to w. Text output is styled only when w is a terminal.
func Write(w io.Writer, f Format, doc Document) error {
	switch f {
	case FormatTOML:
		enc := toml.NewEncoder(w)
		enc.SetIndentTables(true)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatText, "":
		return doc.writeText(w, newStyles(lipgloss.NewRenderer(w)))
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, f)
	}
}

func newStyles(r *lipgloss.Renderer) *styles {
	return &styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		label:   r.NewStyle().Foreground(lipgloss.Color("#3B82F6")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		ok:      r.NewStyle().Foreground(lipgloss.Color("#10B981")),
		bad:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444")),
		warning: r.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
	}
}
