// SPDX-License-Identifier: MPL-2.0

package version

import (
	"errors"
	"fmt"
)

// ErrInvalidVersion is the sentinel error wrapped by InvalidVersionError.
var ErrInvalidVersion = errors.New("invalid version")

// InvalidVersionError is returned when a string cannot be parsed as a Version or Runtime.
type InvalidVersionError struct {
	Value  string
	Reason string
}

// Error implements the error interface.
func (e *InvalidVersionError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid version %q", e.Value)
	}
	return fmt.Sprintf("invalid version %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidVersion so callers can use errors.Is for programmatic detection.
func (e *InvalidVersionError) Unwrap() error { return ErrInvalidVersion }
