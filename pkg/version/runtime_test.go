// SPDX-License-Identifier: MPL-2.0

package version

import (
	"errors"
	"testing"
)

func TestParseRuntime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		want    int
		wantErr bool
	}{
		{"legacy_pair", "1.8", 8, false},
		{"legacy_update", "1.8.0_151", 8, false},
		{"major_only", "9", 9, false},
		{"triple", "9.1.2", 9, false},
		{"build_suffix", "17.0.2+8", 17, false},
		{"early_access", "11-ea", 11, false},
		{"bare_one", "1", 1, false},
		{"surrounding_space", " 10 ", 10, false},
		{"empty", "", 0, true},
		{"not_numeric", "java", 0, true},
		{"leading_dot", ".8", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r, err := ParseRuntime(tt.text)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidVersion) {
					t.Fatalf("ParseRuntime(%q) error = %v, want ErrInvalidVersion", tt.text, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRuntime(%q) unexpected error: %v", tt.text, err)
			}
			if r.Feature() != tt.want {
				t.Errorf("ParseRuntime(%q).Feature() = %d, want %d", tt.text, r.Feature(), tt.want)
			}
			if r.String() != tt.text {
				t.Errorf("String() = %q, want %q", r.String(), tt.text)
			}
		})
	}
}

func TestRuntime_AtLeast(t *testing.T) {
	t.Parallel()

	tests := []struct {
		running, minimum string
		want             bool
	}{
		{"9", "1.8", true},
		{"9.1.2", "1.8", true},
		{"1.8", "1.8", true},
		{"1.7", "1.8", false},
		{"9", "10", false},
		{"9.1.2", "10", false},
		{"11", "11.0.1", true},
	}

	for _, tt := range tests {
		t.Run(tt.running+"_min_"+tt.minimum, func(t *testing.T) {
			t.Parallel()
			running, err := ParseRuntime(tt.running)
			if err != nil {
				t.Fatal(err)
			}
			minimum, err := ParseRuntime(tt.minimum)
			if err != nil {
				t.Fatal(err)
			}
			if got := running.AtLeast(minimum); got != tt.want {
				t.Errorf("ParseRuntime(%q).AtLeast(%q) = %v, want %v", tt.running, tt.minimum, got, tt.want)
			}
		})
	}
}
