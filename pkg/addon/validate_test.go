// SPDX-License-Identifier: MPL-2.0

package addon

import (
	"bytes"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	"github.com/addonvet/addonvet/internal/testutil"
)

var validManifest = testutil.Manifest{Version: "1.0.0", Status: "release"}

// manifestBody returns a setup writing an archive whose manifest entry holds body.
func manifestBody(body string) func(t *testing.T, dir string) string {
	return func(t *testing.T, dir string) string {
		path := filepath.Join(dir, "addon.zap")
		testutil.WriteZip(t, path, testutil.ZipEntry{Name: ManifestFileName, Body: body})
		return path
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		setup     func(t *testing.T, dir string) string
		want      Validity
		wantCause bool
	}{
		{
			name:  "empty path",
			setup: func(*testing.T, string) string { return "" },
			want:  ValidityInvalidPath,
		},
		{
			name:  "root has no file name",
			setup: func(*testing.T, string) string { return "/" },
			want:  ValidityInvalidPath,
		},
		{
			name:  "dot has no file name",
			setup: func(*testing.T, string) string { return "." },
			want:  ValidityInvalidPath,
		},
		{
			name: "wrong extension",
			setup: func(t *testing.T, dir string) string {
				return testutil.WriteAddOn(t, dir, "addon.zip", validManifest)
			},
			want: ValidityInvalidFileName,
		},
		{
			name: "txt extension",
			setup: func(t *testing.T, dir string) string {
				return testutil.WriteAddOn(t, dir, "addon.txt", validManifest)
			},
			want: ValidityInvalidFileName,
		},
		{
			name: "directory named like an add-on",
			setup: func(t *testing.T, dir string) string {
				path := filepath.Join(dir, "addon.zap")
				testutil.MustMkdirAll(t, path, 0o755)
				return path
			},
			want:      ValidityFileNotReadable,
			wantCause: true,
		},
		{
			name:      "missing file",
			setup:     func(_ *testing.T, dir string) string { return filepath.Join(dir, "absent.zap") },
			want:      ValidityFileNotReadable,
			wantCause: true,
		},
		{
			name: "empty file is not a zip",
			setup: func(t *testing.T, dir string) string {
				path := filepath.Join(dir, "addon.zap")
				testutil.MustWriteFile(t, path, nil)
				return path
			},
			want:      ValidityUnreadableZipFile,
			wantCause: true,
		},
		{
			name: "text file is not a zip",
			setup: func(t *testing.T, dir string) string {
				path := filepath.Join(dir, "addon.zap")
				testutil.MustWriteFile(t, path, []byte("plain text"))
				return path
			},
			want:      ValidityUnreadableZipFile,
			wantCause: true,
		},
		{
			name: "empty zip",
			setup: func(t *testing.T, dir string) string {
				path := filepath.Join(dir, "addon.zap")
				testutil.WriteZip(t, path)
				return path
			},
			want: ValidityMissingManifest,
		},
		{
			name: "zip without manifest",
			setup: func(t *testing.T, dir string) string {
				path := filepath.Join(dir, "addon.zap")
				testutil.WriteZip(t, path, testutil.ZipEntry{Name: "Not a manifest"})
				return path
			},
			want: ValidityMissingManifest,
		},
		{
			name: "manifest in a subdirectory",
			setup: func(t *testing.T, dir string) string {
				path := filepath.Join(dir, "addon.zap")
				testutil.WriteZip(t, path, testutil.ZipEntry{Name: "sub/" + ManifestFileName, Body: validManifest.XML()})
				return path
			},
			want: ValidityMissingManifest,
		},
		{
			name: "empty manifest",
			setup: func(t *testing.T, dir string) string {
				path := filepath.Join(dir, "addon.zap")
				testutil.WriteZip(t, path, testutil.ZipEntry{Name: ManifestFileName})
				return path
			},
			want:      ValidityInvalidManifest,
			wantCause: true,
		},
		{
			name:      "manifest after another root element",
			setup:     manifestBody("<other/>" + validManifest.XML()),
			want:      ValidityInvalidManifest,
			wantCause: true,
		},
		{
			name:      "manifest followed by text",
			setup:     manifestBody(validManifest.XML() + "trailing text"),
			want:      ValidityInvalidManifest,
			wantCause: true,
		},
		{
			name:      "two manifest roots",
			setup:     manifestBody(validManifest.XML() + "<zapaddon/>"),
			want:      ValidityInvalidManifest,
			wantCause: true,
		},
		{
			name: "manifest without status",
			setup: func(t *testing.T, dir string) string {
				return testutil.WriteAddOn(t, dir, "addon.zap", testutil.Manifest{Version: "1"})
			},
			want:      ValidityInvalidManifest,
			wantCause: true,
		},
		{
			name: "valid",
			setup: func(t *testing.T, dir string) string {
				return testutil.WriteAddOn(t, dir, "addon.zap", validManifest)
			},
			want: ValidityValid,
		},
		{
			name: "valid with upper case extension",
			setup: func(t *testing.T, dir string) string {
				return testutil.WriteAddOn(t, dir, "addon.ZAP", validManifest)
			},
			want: ValidityValid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := tt.setup(t, t.TempDir())
			result := Validate(path)

			if result.Validity != tt.want {
				t.Fatalf("Validate(%q) = %v (cause %v), want %v", path, result.Validity, result.Cause, tt.want)
			}
			if result.Path != path {
				t.Errorf("Path = %q, want %q", result.Path, path)
			}
			if tt.wantCause && result.Cause == nil {
				t.Error("Cause = nil, want the underlying error")
			}
			if result.Reason() == "" {
				t.Error("Reason() is empty")
			}

			if tt.want == ValidityValid {
				if result.Manifest == nil {
					t.Error("Manifest = nil for a valid add-on")
				}
				if result.LastModified.IsZero() {
					t.Error("LastModified is zero for a valid add-on")
				}
				if result.Err() != nil {
					t.Errorf("Err() = %v, want nil", result.Err())
				}
				return
			}

			if result.Manifest != nil {
				t.Error("Manifest set for a rejected add-on")
			}
			err := result.Err()
			if !errors.Is(err, ErrValidationFailure) {
				t.Errorf("Err() = %v, want ErrValidationFailure", err)
			}
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) || validationErr.Result.Validity != tt.want {
				t.Errorf("Err() = %#v, want *ValidationError with %v", err, tt.want)
			}
		})
	}
}

func TestValidate_NotReadable(t *testing.T) {
	t.Parallel()

	path := testutil.WriteAddOn(t, t.TempDir(), "addon.zap", validManifest)
	if !testutil.MustRemoveReadPermission(t, path) {
		t.Skip("file permissions are not enforced for this user")
	}

	result := Validate(path)
	if result.Validity != ValidityFileNotReadable {
		t.Fatalf("Validate() = %v, want %v", result.Validity, ValidityFileNotReadable)
	}
	if !result.IsPermissionError() {
		t.Errorf("IsPermissionError() = false, cause %v", result.Cause)
	}
}

func TestIsAddOn(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	emptyZip := filepath.Join(dir, "empty.zap")
	testutil.WriteZip(t, emptyZip)

	tests := []struct {
		path string
		want bool
	}{
		{"", false},
		{dir, false},
		{emptyZip, false},
		{testutil.WriteAddOn(t, dir, "addon.txt", testutil.Manifest{Version: "1", Status: "alpha"}), false},
		{testutil.WriteAddOn(t, dir, "addon.zap", testutil.Manifest{Version: "1", Status: "alpha"}), true},
		{testutil.WriteAddOn(t, dir, "upper.ZAP", testutil.Manifest{Version: "1", Status: "alpha"}), true},
	}

	for _, tt := range tests {
		if got := IsAddOn(tt.path); got != tt.want {
			t.Errorf("IsAddOn(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

type (
	fakeFile struct {
		*bytes.Reader
		closed *bool
	}

	fakeInfo struct {
		name string
		size int64
		mode fs.FileMode
		mod  time.Time
	}

	fakeFileSystem struct {
		info    fakeInfo
		data    []byte
		statErr error
		openErr error
		closed  bool
	}
)

func (f fakeFile) Close() error {
	*f.closed = true
	return nil
}

func (i fakeInfo) Name() string       { return i.name }
func (i fakeInfo) Size() int64        { return i.size }
func (i fakeInfo) Mode() fs.FileMode  { return i.mode }
func (i fakeInfo) ModTime() time.Time { return i.mod }
func (i fakeInfo) IsDir() bool        { return i.mode.IsDir() }
func (i fakeInfo) Sys() any           { return nil }

func (f *fakeFileSystem) Stat(string) (fs.FileInfo, error) {
	if f.statErr != nil {
		return nil, f.statErr
	}
	return f.info, nil
}

func (f *fakeFileSystem) Open(string) (File, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return fakeFile{Reader: bytes.NewReader(f.data), closed: &f.closed}, nil
}

func TestValidator_FileSystem(t *testing.T) {
	t.Parallel()

	modTime := testutil.NewFakeClock(time.Time{}).Now()
	archive := testutil.ZipBytes(t, testutil.ZipEntry{Name: ManifestFileName, Body: validManifest.XML()})

	tests := []struct {
		name       string
		fsys       *fakeFileSystem
		want       Validity
		wantClosed bool
	}{
		{
			name: "valid",
			fsys: &fakeFileSystem{
				info: fakeInfo{name: "a.zap", size: int64(len(archive)), mod: modTime},
				data: archive,
			},
			want:       ValidityValid,
			wantClosed: true,
		},
		{
			name: "stat fails",
			fsys: &fakeFileSystem{statErr: fs.ErrNotExist},
			want: ValidityFileNotReadable,
		},
		{
			name: "open denied",
			fsys: &fakeFileSystem{
				info:    fakeInfo{name: "a.zap", size: int64(len(archive))},
				openErr: fs.ErrPermission,
			},
			want: ValidityFileNotReadable,
		},
		{
			name: "not a regular file",
			fsys: &fakeFileSystem{
				info: fakeInfo{name: "a.zap", mode: fs.ModeNamedPipe},
			},
			want: ValidityFileNotReadable,
		},
		{
			name: "broken archive is closed",
			fsys: &fakeFileSystem{
				info: fakeInfo{name: "a.zap", size: 4},
				data: []byte("nope"),
			},
			want:       ValidityUnreadableZipFile,
			wantClosed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := NewValidator(WithFileSystem(tt.fsys)).Validate("addons/a.zap")
			if result.Validity != tt.want {
				t.Fatalf("Validate() = %v (cause %v), want %v", result.Validity, result.Cause, tt.want)
			}
			if tt.fsys.closed != tt.wantClosed {
				t.Errorf("closed = %v, want %v", tt.fsys.closed, tt.wantClosed)
			}
			if tt.want == ValidityValid && !result.LastModified.Equal(modTime) {
				t.Errorf("LastModified = %v, want %v", result.LastModified, modTime)
			}
		})
	}
}

func TestValidator_MaxManifestSize(t *testing.T) {
	t.Parallel()

	path := testutil.WriteAddOn(t, t.TempDir(), "addon.zap", validManifest)

	result := NewValidator(WithMaxManifestSize(8)).Validate(path)
	if result.Validity != ValidityInvalidManifest {
		t.Fatalf("Validate() = %v, want %v", result.Validity, ValidityInvalidManifest)
	}
	if !errors.Is(result.Cause, ErrInvalidManifest) {
		t.Errorf("Cause = %v, want ErrInvalidManifest", result.Cause)
	}
}

func TestValidityString(t *testing.T) {
	t.Parallel()

	if ValidityFileNotReadable.String() != "file_not_readable" {
		t.Errorf("String() = %q", ValidityFileNotReadable.String())
	}
	if Validity(0).String() != "Validity(0)" {
		t.Errorf("String() = %q", Validity(0).String())
	}
}
