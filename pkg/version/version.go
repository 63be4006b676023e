// SPDX-License-Identifier: MPL-2.0

package version

import (
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// Version is a parsed dotted version. The zero value has no components and
// compares equal to "0".
type Version struct {
	components []int
	text       string
}

// Parse parses a dotted version such as "1.6.7" or "2.8.0.1".
// Every component must be a non-negative decimal integer.
func Parse(text string) (Version, error) {
	if text == "" {
		return Version{}, &InvalidVersionError{Value: text, Reason: "empty"}
	}

	parts := strings.Split(text, ".")
	components := make([]int, len(parts))
	for i, part := range parts {
		n, err := parseComponent(part)
		if err != nil {
			return Version{}, &InvalidVersionError{Value: text, Reason: err.Error()}
		}
		components[i] = n
	}

	return Version{components: components, text: text}, nil
}

// MustParse is like Parse but panics if the text cannot be parsed.
// It is intended for constants and tests.
func MustParse(text string) Version {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}

// FromComponents builds a Version from explicit components, rendering the
// text in dotted form.
func FromComponents(components ...int) Version {
	parts := make([]string, len(components))
	for i, c := range components {
		if c < 0 {
			c = 0
		}
		parts[i] = strconv.Itoa(c)
	}
	return Version{components: slices.Clone(components), text: strings.Join(parts, ".")}
}

func parseComponent(part string) (int, error) {
	if part == "" {
		return 0, errEmptyComponent
	}
	for _, r := range part {
		if r < '0' || r > '9' {
			return 0, &componentError{part: part}
		}
	}
	n, err := strconv.Atoi(part)
	if err != nil {
		// Only reachable on overflow, digits were checked above.
		return 0, &componentError{part: part, overflow: true}
	}
	return n, nil
}

// String returns the version text exactly as it was parsed.
func (v Version) String() string {
	if v.text == "" && len(v.components) == 0 {
		return "0"
	}
	return v.text
}

// Components returns a copy of the numeric components.
func (v Version) Components() []int {
	return slices.Clone(v.components)
}

// Component returns the component at index i, or 0 when the version is shorter.
func (v Version) Component(i int) int {
	if i < 0 || i >= len(v.components) {
		return 0
	}
	return v.components[i]
}

// Major returns the first component.
func (v Version) Major() int {
	return v.Component(0)
}

// Compare returns -1 if v < other, 0 if they are equal and 1 if v > other.
// Components are compared left to right, padding the shorter version with zeros.
func (v Version) Compare(other Version) int {
	n := max(len(v.components), len(other.components))
	for i := range n {
		a, b := v.Component(i), other.Component(i)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
	}
	return 0
}

// Equal reports whether v and other compare as equal.
func (v Version) Equal(other Version) bool { return v.Compare(other) == 0 }

// Less reports whether v orders strictly before other.
func (v Version) Less(other Version) bool { return v.Compare(other) < 0 }

// Compare returns -1, 0 or 1 comparing a to b. It is suitable for slices.SortFunc.
func Compare(a, b Version) int {
	return a.Compare(b)
}

// MarshalText implements encoding.TextMarshaler using the original text.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
