// SPDX-License-Identifier: MPL-2.0

package addon

import (
	"errors"
	"testing"
)

func TestParseStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Status
		wantErr bool
	}{
		{"example", StatusExample, false},
		{"alpha", StatusAlpha, false},
		{"beta", StatusBeta, false},
		{"weekly", StatusWeekly, false},
		{"release", StatusRelease, false},
		{"Alpha", 0, true},
		{"unknown", 0, true},
		{"", 0, true},
		{" beta", 0, true},
		{"xxx", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseStatus(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidStatus) {
					t.Fatalf("ParseStatus(%q) error = %v, want ErrInvalidStatus", tt.input, err)
				}
				var statusErr *InvalidStatusError
				if !errors.As(err, &statusErr) || statusErr.Value != tt.input {
					t.Errorf("ParseStatus(%q) error = %#v, want *InvalidStatusError{Value: %q}", tt.input, err, tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStatus(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if got.String() != tt.input {
				t.Errorf("String() = %q, want %q", got.String(), tt.input)
			}
		})
	}
}

func TestStatusOrder(t *testing.T) {
	t.Parallel()

	statuses := Statuses()
	var unknown Status
	for i, s := range statuses {
		if unknown.Compare(s) >= 0 {
			t.Errorf("unknown should rank below %v", s)
		}
		if s.Compare(s) != 0 {
			t.Errorf("%v.Compare(%v) != 0", s, s)
		}
		for _, higher := range statuses[i+1:] {
			if s.Compare(higher) != -1 || higher.Compare(s) != 1 {
				t.Errorf("%v should rank below %v", s, higher)
			}
		}
	}
}

func TestStatusIsValid(t *testing.T) {
	t.Parallel()

	if ok, errs := StatusBeta.IsValid(); !ok || len(errs) != 0 {
		t.Errorf("StatusBeta.IsValid() = %v, %v", ok, errs)
	}

	for _, s := range []Status{0, StatusRelease + 1} {
		ok, errs := s.IsValid()
		if ok || len(errs) != 1 || !errors.Is(errs[0], ErrInvalidStatus) {
			t.Errorf("Status(%d).IsValid() = %v, %v, want invalid", s, ok, errs)
		}
		if s.String() != "unknown" {
			t.Errorf("Status(%d).String() = %q, want %q", s, s.String(), "unknown")
		}
		if s.Rank() != 0 {
			t.Errorf("Status(%d).Rank() = %d, want 0", s, s.Rank())
		}
	}
}

func TestStatusText(t *testing.T) {
	t.Parallel()

	text, err := StatusWeekly.MarshalText()
	if err != nil || string(text) != "weekly" {
		t.Fatalf("MarshalText() = %q, %v", text, err)
	}

	var s Status
	if err := s.UnmarshalText([]byte("release")); err != nil || s != StatusRelease {
		t.Errorf("UnmarshalText(release) = %v, %v", s, err)
	}
	if err := s.UnmarshalText([]byte("gold")); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("UnmarshalText(gold) error = %v, want ErrInvalidStatus", err)
	}
}
