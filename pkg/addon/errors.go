// SPDX-License-Identifier: MPL-2.0

package addon

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidStatus is the sentinel error wrapped by InvalidStatusError.
	ErrInvalidStatus = errors.New("invalid add-on status")
	// ErrInvalidFileName is returned when a file name does not follow the add-on naming rules.
	ErrInvalidFileName = errors.New("invalid add-on file name")
	// ErrIdentityMismatch is the sentinel error wrapped by IdentityMismatchError.
	ErrIdentityMismatch = errors.New("add-on identity mismatch")
	// ErrNoIncumbent is returned by IsUpdateTo when there is nothing to compare with.
	ErrNoIncumbent = errors.New("no incumbent add-on")
	// ErrIOFailure is returned when a descriptor cannot be built from an unreadable source.
	ErrIOFailure = errors.New("add-on not readable")
	// ErrValidationFailure is the sentinel error wrapped by ValidationError.
	ErrValidationFailure = errors.New("add-on validation failed")
	// ErrInvalidManifest is the sentinel error wrapped by ManifestError.
	ErrInvalidManifest = errors.New("invalid add-on manifest")
	// ErrMissingManifestField is returned when a required manifest element is absent.
	ErrMissingManifestField = errors.New("missing required element")
	// ErrNotInCatalog is returned when a catalog has no entry for the requested id.
	ErrNotInCatalog = errors.New("add-on not in catalog")
)

type (
	// InvalidStatusError is returned when a status string does not name a known status.
	InvalidStatusError struct {
		Value string
	}

	// IdentityMismatchError is returned when two descriptors of different lineage
	// are compared where the same lineage is a precondition.
	IdentityMismatchError struct {
		Candidate string
		Incumbent string
	}

	// ManifestError describes a manifest that is not well formed or lacks
	// required content. Field is empty when the document itself is broken.
	ManifestError struct {
		Field string
		Err   error
	}

	// ValidationError converts a rejected ValidationResult into an error.
	ValidationError struct {
		Result ValidationResult
	}
)

// Error implements the error interface.
func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid add-on status %q", e.Value)
}

// Unwrap returns ErrInvalidStatus so callers can use errors.Is for programmatic detection.
func (e *InvalidStatusError) Unwrap() error { return ErrInvalidStatus }

// Error implements the error interface.
func (e *IdentityMismatchError) Error() string {
	return fmt.Sprintf("cannot compare add-on %q with add-on %q: different identities", e.Candidate, e.Incumbent)
}

// Unwrap returns ErrIdentityMismatch so callers can use errors.Is for programmatic detection.
func (e *IdentityMismatchError) Unwrap() error { return ErrIdentityMismatch }

// Error implements the error interface.
func (e *ManifestError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid manifest: %v", e.Err)
	}
	return fmt.Sprintf("invalid manifest: <%s>: %v", e.Field, e.Err)
}

// Unwrap exposes both ErrInvalidManifest and the underlying cause.
func (e *ManifestError) Unwrap() []error {
	return []error{ErrInvalidManifest, e.Err}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("add-on %q rejected (%s): %s", e.Result.Path, e.Result.Validity, e.Result.Reason())
	if e.Result.Cause != nil {
		msg += ": " + e.Result.Cause.Error()
	}
	return msg
}

// Unwrap exposes ErrValidationFailure and, when present, the cause of the rejection.
func (e *ValidationError) Unwrap() []error {
	if e.Result.Cause == nil {
		return []error{ErrValidationFailure}
	}
	return []error{ErrValidationFailure, e.Result.Cause}
}
