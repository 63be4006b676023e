// SPDX-License-Identifier: MPL-2.0

package addon

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zip"
)

// DefaultMaxManifestSize is the largest manifest the validator reads (1 MiB).
const DefaultMaxManifestSize int64 = 1 << 20

// Validity classifications, in the order the validator checks them.
const (
	ValidityInvalidPath Validity = iota + 1
	ValidityInvalidFileName
	ValidityFileNotReadable
	ValidityUnreadableZipFile
	ValidityMissingManifest
	ValidityInvalidManifest
	ValidityValid
)

var validityNames = map[Validity]string{
	ValidityInvalidPath:       "invalid_path",
	ValidityInvalidFileName:   "invalid_file_name",
	ValidityFileNotReadable:   "file_not_readable",
	ValidityUnreadableZipFile: "unreadable_zip_file",
	ValidityMissingManifest:   "missing_manifest",
	ValidityInvalidManifest:   "invalid_manifest",
	ValidityValid:             "valid",
}

var validityReasons = map[Validity]string{
	ValidityInvalidPath:       "the path is empty or has no file name",
	ValidityInvalidFileName:   "the file name does not have the " + FileExtension + " extension",
	ValidityFileNotReadable:   "the file does not exist, is not a regular file or cannot be read",
	ValidityUnreadableZipFile: "the file is not a readable zip archive",
	ValidityMissingManifest:   "the archive has no " + ManifestFileName + " entry",
	ValidityInvalidManifest:   "the " + ManifestFileName + " manifest is malformed or incomplete",
	ValidityValid:             "the add-on is valid",
}

type (
	// Validity classifies the outcome of validating a candidate add-on.
	Validity uint8

	// ValidationResult is the outcome of validating a candidate add-on.
	// Cause holds the underlying error for FileNotReadable, UnreadableZipFile and
	// InvalidManifest; Manifest and LastModified are set only when valid.
	ValidationResult struct {
		Validity     Validity
		Path         string
		Manifest     *Manifest
		LastModified time.Time
		Cause        error
	}

	// File is an open add-on archive.
	File interface {
		io.ReaderAt
		io.Closer
	}

	// FileSystem supplies the file facts the validator relies on.
	FileSystem interface {
		Stat(name string) (fs.FileInfo, error)
		Open(name string) (File, error)
	}

	// Validator checks candidate add-on archives. It holds no mutable state and
	// may be used from several goroutines at once.
	Validator struct {
		fsys            FileSystem
		maxManifestSize int64
	}

	// ValidatorOption configures a Validator.
	ValidatorOption func(*Validator)

	osFileSystem struct{}
)

// String returns the classification name.
func (v Validity) String() string {
	if name, ok := validityNames[v]; ok {
		return name
	}
	return fmt.Sprintf("Validity(%d)", v)
}

// MarshalText implements encoding.TextMarshaler.
func (v Validity) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (osFileSystem) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }

func (osFileSystem) Open(name string) (File, error) { return os.Open(name) }

// OSFileSystem returns the FileSystem backed by the host operating system.
func OSFileSystem() FileSystem { return osFileSystem{} }

// WithFileSystem makes the validator read through fsys instead of the OS.
func WithFileSystem(fsys FileSystem) ValidatorOption {
	return func(v *Validator) {
		v.fsys = fsys
	}
}

// WithMaxManifestSize sets the largest manifest accepted, in bytes.
// Default is DefaultMaxManifestSize.
func WithMaxManifestSize(size int64) ValidatorOption {
	return func(v *Validator) {
		v.maxManifestSize = size
	}
}

// NewValidator creates a Validator.
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{
		fsys:            osFileSystem{},
		maxManifestSize: DefaultMaxManifestSize,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

var defaultValidator = NewValidator()

// Validate checks the add-on at path using the OS file system.
func Validate(path string) ValidationResult {
	return defaultValidator.Validate(path)
}

// Validate classifies the add-on at path. The first failing check decides the
// outcome:
//
//  1. empty path or no file name: InvalidPath
//  2. no .zap extension: InvalidFileName
//  3. missing, not a regular file, or not readable: FileNotReadable
//  4. not a zip archive: UnreadableZipFile
//  5. no ZapAddOn.xml entry: MissingManifest
//  6. manifest not well formed or incomplete: InvalidManifest
//
// The archive is opened at most once and always closed before returning.
func (v *Validator) Validate(path string) ValidationResult {
	result := ValidationResult{Path: path}

	name := fileName(path)
	if name == "" {
		return result.reject(ValidityInvalidPath, nil)
	}
	if !IsAddOnFileName(name) {
		return result.reject(ValidityInvalidFileName, nil)
	}

	info, err := v.fsys.Stat(path)
	if err != nil {
		return result.reject(ValidityFileNotReadable, err)
	}
	if info.IsDir() {
		return result.reject(ValidityFileNotReadable, fmt.Errorf("%s is a directory", path))
	}
	if !info.Mode().IsRegular() {
		return result.reject(ValidityFileNotReadable, fmt.Errorf("%s is not a regular file", path))
	}

	f, err := v.fsys.Open(path)
	if err != nil {
		return result.reject(ValidityFileNotReadable, err)
	}
	defer func() { _ = f.Close() }()

	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return result.reject(ValidityUnreadableZipFile, err)
	}

	entry := findEntry(zr, ManifestFileName)
	if entry == nil {
		return result.reject(ValidityMissingManifest, nil)
	}

	manifest, err := v.readManifest(entry)
	if err != nil {
		return result.reject(ValidityInvalidManifest, err)
	}

	result.Validity = ValidityValid
	result.Manifest = manifest
	result.LastModified = info.ModTime()
	return result
}

func (v *Validator) readManifest(entry *zip.File) (*Manifest, error) {
	if size := int64(entry.UncompressedSize64); size > v.maxManifestSize || size < 0 {
		return nil, &ManifestError{Err: fmt.Errorf("manifest size %d bytes exceeds maximum %d bytes", entry.UncompressedSize64, v.maxManifestSize)}
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, &ManifestError{Err: err}
	}
	defer func() { _ = rc.Close() }()

	// The header size can lie; never read past the limit.
	return ParseManifest(io.LimitReader(rc, v.maxManifestSize))
}

func findEntry(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// fileName returns the last element of path, or "" when there is none.
func fileName(path string) string {
	if path == "" {
		return ""
	}
	base := filepath.Base(filepath.Clean(path))
	if base == "." || base == ".." || base == string(filepath.Separator) || base == "/" {
		return ""
	}
	return base
}

func (r ValidationResult) reject(validity Validity, cause error) ValidationResult {
	r.Validity = validity
	r.Cause = cause
	return r
}

// Valid reports whether the add-on passed every check.
func (r ValidationResult) Valid() bool {
	return r.Validity == ValidityValid
}

// Reason returns a human-readable explanation of the classification.
func (r ValidationResult) Reason() string {
	if reason, ok := validityReasons[r.Validity]; ok {
		return reason
	}
	return "the add-on was not validated"
}

// Err returns nil for a valid result and a *ValidationError otherwise.
func (r ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	return &ValidationError{Result: r}
}

// IsPermissionError reports whether the rejection was caused by missing permissions.
func (r ValidationResult) IsPermissionError() bool {
	return r.Cause != nil && errors.Is(r.Cause, fs.ErrPermission)
}
