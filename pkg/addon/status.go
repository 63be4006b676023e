// SPDX-License-Identifier: MPL-2.0

package addon

import "fmt"

// Status is the maturity of an add-on. Statuses are totally ordered by rank:
// example < alpha < beta < weekly < release.
//
// The zero value is the undetermined status. It ranks below every defined status
// and is never produced by ParseStatus.
type Status uint8

const (
	// StatusExample marks add-ons that only demonstrate the extension API.
	StatusExample Status = iota + 1
	// StatusAlpha marks early, possibly unstable add-ons.
	StatusAlpha
	// StatusBeta marks feature-complete add-ons that are still being hardened.
	StatusBeta
	// StatusWeekly marks add-ons released with weekly builds.
	StatusWeekly
	// StatusRelease marks stable add-ons.
	StatusRelease
)

var statusNames = map[Status]string{
	StatusExample: "example",
	StatusAlpha:   "alpha",
	StatusBeta:    "beta",
	StatusWeekly:  "weekly",
	StatusRelease: "release",
}

// Statuses returns every defined status in ascending rank order.
func Statuses() []Status {
	return []Status{StatusExample, StatusAlpha, StatusBeta, StatusWeekly, StatusRelease}
}

// ParseStatus returns the status with the given name. The match is exact and
// case-sensitive; unknown names are an error, never a default.
func ParseStatus(name string) (Status, error) {
	for _, s := range Statuses() {
		if statusNames[s] == name {
			return s, nil
		}
	}
	return 0, &InvalidStatusError{Value: name}
}

// String returns the status name, or "unknown" for the undetermined status.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// Rank returns the ordering weight of the status. The undetermined status ranks 0.
func (s Status) Rank() int {
	if _, ok := statusNames[s]; !ok {
		return 0
	}
	return int(s)
}

// Compare returns -1, 0 or 1 comparing the ranks of s and other.
func (s Status) Compare(other Status) int {
	switch a, b := s.Rank(), other.Rank(); {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// IsValid returns whether the status is one of the defined statuses,
// and a list of validation errors if it is not.
func (s Status) IsValid() (bool, []error) {
	if _, ok := statusNames[s]; !ok {
		return false, []error{&InvalidStatusError{Value: fmt.Sprintf("Status(%d)", s)}}
	}
	return true, nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
