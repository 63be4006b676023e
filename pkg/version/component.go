// SPDX-License-Identifier: MPL-2.0

package version

import (
	"errors"
	"fmt"
)

var errEmptyComponent = errors.New("empty component")

type componentError struct {
	part     string
	overflow bool
}

func (e *componentError) Error() string {
	if e.overflow {
		return fmt.Sprintf("component %q is out of range", e.part)
	}
	return fmt.Sprintf("component %q is not a non-negative integer", e.part)
}
