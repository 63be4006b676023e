// SPDX-License-Identifier: MPL-2.0

package cmd

import "fmt"

// Process exit codes.
const (
	// ExitOK means every checked add-on passed.
	ExitOK = 0
	// ExitRejected means an add-on was rejected, is not an update or is not compatible.
	ExitRejected = 1
	// ExitUsage means the command line or the configuration is wrong.
	ExitUsage = 2
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
// A nil Err means the outcome was already reported and nothing more is printed.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

func rejected(err error) error { return &ExitError{Code: ExitRejected, Err: err} }

func usageError(err error) error { return &ExitError{Code: ExitUsage, Err: err} }
