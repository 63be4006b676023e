// SPDX-License-Identifier: MPL-2.0

package version

import (
	"strconv"
	"strings"
)

// Runtime is a runtime version normalised to its feature release number.
//
// Runtimes have reported their version in several shapes over time: the legacy
// "1.<feature>" pair ("1.8", "1.8.0_151"), a bare feature number ("9"), and a
// dotted triple ("9.1.2", "17.0.2+8"). Only the feature release takes part in
// comparisons.
type Runtime struct {
	feature int
	text    string
}

// ParseRuntime parses a runtime version. Each component only contributes its
// leading digits, so vendor suffixes such as "_151" or "-ea" are ignored.
// The first component must start with a digit.
func ParseRuntime(text string) (Runtime, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Runtime{}, &InvalidVersionError{Value: text, Reason: "empty"}
	}

	parts := strings.Split(trimmed, ".")
	first, ok := leadingNumber(parts[0])
	if !ok {
		return Runtime{}, &InvalidVersionError{Value: text, Reason: "does not start with a number"}
	}

	feature := first
	if first == 1 && len(parts) > 1 {
		if second, ok := leadingNumber(parts[1]); ok {
			feature = second
		}
	}

	return Runtime{feature: feature, text: text}, nil
}

// leadingNumber returns the integer formed by the leading digits of s.
func leadingNumber(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Feature returns the normalised feature release number.
func (r Runtime) Feature() int { return r.feature }

// String returns the runtime version as it was parsed.
func (r Runtime) String() string { return r.text }

// Compare returns -1, 0 or 1 comparing the feature releases of r and other.
func (r Runtime) Compare(other Runtime) int {
	switch {
	case r.feature < other.feature:
		return -1
	case r.feature > other.feature:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether r satisfies the given minimum.
func (r Runtime) AtLeast(minimum Runtime) bool {
	return r.Compare(minimum) >= 0
}
