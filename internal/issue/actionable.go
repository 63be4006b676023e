// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"fmt"
	"strings"
)

type (
	// ActionableError is a user-facing failure: the operation that failed, the
	// archive, directory or config file it failed on, and what to try next.
	// Build one with NewErrorContext.
	ActionableError struct {
		// Operation is a verb phrase such as "compare add-ons".
		Operation string
		// Resource is the path or add-on id involved, if any.
		Resource string
		// Suggestions are printed as a bullet list under the message.
		Suggestions []string
		// Cause is the underlying error, if any.
		Cause error
	}

	// ErrorContext accumulates the parts of an ActionableError.
	//
	//	return issue.NewErrorContext().
	//		WithOperation("load configuration").
	//		WithResource(path).
	//		WithSuggestion("Check that the file contains valid CUE syntax").
	//		Wrap(err).
	//		BuildError()
	ErrorContext struct {
		err ActionableError
	}
)

// NewErrorContext starts an empty ErrorContext.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// Error returns "failed to <operation>[: <resource>][: <cause>]".
func (e *ActionableError) Error() string {
	parts := []string{"failed to " + e.Operation}
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the cause so errors.Is sees add-on sentinels through it.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// HasSuggestions reports whether e carries any suggestions.
func (e *ActionableError) HasSuggestions() bool {
	return len(e.Suggestions) > 0
}

// Format renders e for the terminal: the message, then one bullet per
// suggestion. Verbose output appends the numbered cause chain.
func (e *ActionableError) Format(verbose bool) string {
	var b strings.Builder
	b.WriteString(e.Error())

	if e.HasSuggestions() {
		b.WriteString("\n")
		for _, s := range e.Suggestions {
			b.WriteString("\n  • " + s)
		}
	}

	if verbose && e.Cause != nil {
		b.WriteString("\n\nError chain:")
		for i, err := range causeChain(e.Cause) {
			fmt.Fprintf(&b, "\n  %d. %s", i+1, err)
		}
	}

	return b.String()
}

// causeChain lists err and everything it wraps. For a multi-error such as a
// manifest error, which wraps a sentinel and its cause, the last error is
// followed since that is the specific one.
func causeChain(err error) []error {
	var chain []error
	for err != nil {
		chain = append(chain, err)
		switch u := err.(type) {
		case interface{ Unwrap() []error }:
			errs := u.Unwrap()
			if len(errs) == 0 {
				return chain
			}
			err = errs[len(errs)-1]
		case interface{ Unwrap() error }:
			err = u.Unwrap()
		default:
			return chain
		}
	}
	return chain
}

// WithOperation sets the operation, e.g. "read add-on archive".
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.err.Operation = op
	return c
}

// WithResource sets the path or id involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.err.Resource = res
	return c
}

// WithSuggestion appends a suggestion.
func (c *ErrorContext) WithSuggestion(s string) *ErrorContext {
	c.err.Suggestions = append(c.err.Suggestions, s)
	return c
}

// Wrap sets the cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.err.Cause = err
	return c
}

// BuildError returns the accumulated *ActionableError, or nil when no
// operation was set.
func (c *ErrorContext) BuildError() error {
	if c.err.Operation == "" {
		return nil
	}
	ae := c.err
	ae.Suggestions = append([]string(nil), c.err.Suggestions...)
	return &ae
}
