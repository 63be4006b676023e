// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

const testSchema = `
#Profile: {
	name:         string
	concurrency:  int & >=1
	verbose:      bool
	description?: string
}
`

type testProfile struct {
	Name        string `json:"name"`
	Concurrency int    `json:"concurrency"`
	Verbose     bool   `json:"verbose"`
	Description string `json:"description,omitempty"`
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		opts    []Option
		wantErr string
	}{
		{
			name: "valid",
			data: "name: \"scan\"\nconcurrency: 4\nverbose: true\ndescription: \"nightly\"\n",
		},
		{
			name: "optional field omitted",
			data: "name: \"scan\"\nconcurrency: 1\nverbose: false\n",
		},
		{
			name:    "constraint violated",
			data:    "name: \"scan\"\nconcurrency: 0\nverbose: false\n",
			opts:    []Option{WithFilename("profile.cue")},
			wantErr: "profile.cue: concurrency",
		},
		{
			name:    "wrong type",
			data:    "name: \"scan\"\nconcurrency: \"many\"\nverbose: false\n",
			wantErr: "<input>",
		},
		{
			name:    "missing required field",
			data:    "name: \"scan\"\nverbose: false\n",
			wantErr: "concurrency",
		},
		{
			name:    "syntax error",
			data:    "name: \"scan\n",
			wantErr: "<input>",
		},
		{
			name:    "file too large",
			data:    "name: \"scan\"\nconcurrency: 4\nverbose: true\n",
			opts:    []Option{WithMaxFileSize(8)},
			wantErr: "exceeds maximum",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := ParseAndDecodeString[testProfile](testSchema, []byte(tt.data), "#Profile", tt.opts...)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAndDecode() error = %v", err)
			}
			if result.Value.Name != "scan" {
				t.Errorf("Name = %q, want scan", result.Value.Name)
			}
		})
	}
}

func TestParseAndDecode_NotConcrete(t *testing.T) {
	t.Parallel()

	schema := `#Config: { host?: string, dirs?: [...string] }`

	result, err := ParseAndDecodeString[map[string]any](schema, []byte(`host: "2.8.0"`), "#Config", WithConcrete(false))
	if err != nil {
		t.Fatalf("ParseAndDecode() error = %v", err)
	}
	if got := (*result.Value)["host"]; got != "2.8.0" {
		t.Errorf("host = %v, want 2.8.0", got)
	}
	if _, ok := (*result.Value)["dirs"]; ok {
		t.Error("unset optional field was decoded")
	}

	if _, err := ParseAndDecodeString[map[string]any](schema, []byte(`port: 1`), "#Config", WithConcrete(false)); err == nil {
		t.Error("closed definition should reject unknown fields")
	}
}

func TestParseAndDecode_MissingDefinition(t *testing.T) {
	t.Parallel()

	_, err := ParseAndDecodeString[testProfile](testSchema, []byte(`name: "x"`), "#Missing")
	if err == nil || !strings.Contains(err.Error(), "#Missing") {
		t.Errorf("error = %v, want missing definition", err)
	}
}

func TestFormatError(t *testing.T) {
	t.Parallel()

	if err := FormatError(nil, "test.cue"); err != nil {
		t.Errorf("FormatError(nil) = %v", err)
	}

	original := errors.New("some error")
	err := FormatError(original, "test.cue")
	if !errors.Is(err, original) {
		t.Errorf("non-CUE errors should be wrapped, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "test.cue: ") {
		t.Errorf("error should start with the file path, got %q", err)
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path []string
		want string
	}{
		{nil, ""},
		{[]string{"host_version"}, "host_version"},
		{[]string{"scan", "pattern"}, "scan.pattern"},
		{[]string{"addon_dirs", "1"}, "addon_dirs[1]"},
		{[]string{"a", "0", "b", "2"}, "a[0].b[2]"},
	}

	for _, tt := range tests {
		if got := formatPath(tt.path); got != tt.want {
			t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	if err := CheckFileSize(make([]byte, 100), 100, "test.cue"); err != nil {
		t.Errorf("at limit: %v", err)
	}
	err := CheckFileSize(make([]byte, 101), 100, "test.cue")
	if err == nil {
		t.Fatal("expected error above limit")
	}
	for _, want := range []string{"test.cue", "101", "100"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should contain %q", err, want)
		}
	}
}
