// SPDX-License-Identifier: MPL-2.0

package addon

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// FileExtension is the extension of add-on archives. It is matched case-insensitively.
const FileExtension = ".zap"

// IsAddOnFileName reports whether name ends with the add-on extension, ignoring case.
func IsAddOnFileName(name string) bool {
	return len(name) >= len(FileExtension) &&
		strings.EqualFold(name[len(name)-len(FileExtension):], FileExtension)
}

// IsLegacyAddOnFileName reports whether name follows the legacy
// "<id>-<status>-<fileVersion>.zap" scheme that NewFromFileName accepts.
func IsLegacyAddOnFileName(name string) bool {
	_, _, _, err := parseLegacyFileName(name)
	return err == nil
}

// IsAddOn reports whether path is a valid add-on archive.
func IsAddOn(path string) bool {
	return Validate(path).Valid()
}

// trimExtension removes the add-on extension, whatever its case.
func trimExtension(name string) string {
	return name[:len(name)-len(FileExtension)]
}

// parseLegacyFileName splits "<id>-<status>-<fileVersion>.zap".
func parseLegacyFileName(name string) (id string, status Status, fileVersion int, err error) {
	if !IsAddOnFileName(name) {
		return "", 0, 0, fmt.Errorf("%w: %q does not end with %s", ErrInvalidFileName, name, FileExtension)
	}
	if strings.ContainsAny(name, `/\`) {
		return "", 0, 0, fmt.Errorf("%w: %q is a path, not a file name", ErrInvalidFileName, name)
	}

	parts := strings.Split(trimExtension(name), "-")
	if len(parts) != 3 || parts[0] == "" {
		return "", 0, 0, fmt.Errorf("%w: %q is not <id>-<status>-<version>%s", ErrInvalidFileName, name, FileExtension)
	}

	status, err = ParseStatus(parts[1])
	if err != nil {
		return "", 0, 0, fmt.Errorf("%w: %w", ErrInvalidFileName, err)
	}

	if !isDigits(parts[2]) {
		return "", 0, 0, fmt.Errorf("%w: %q has no numeric version", ErrInvalidFileName, name)
	}
	fileVersion, err = strconv.Atoi(parts[2])
	if err != nil {
		return "", 0, 0, fmt.Errorf("%w: %q has no numeric version", ErrInvalidFileName, name)
	}

	return parts[0], status, fileVersion, nil
}

// idFromFileName derives the add-on id from an archive file name: the name
// without extension, up to the first "-".
func idFromFileName(name string) (string, error) {
	base := filepath.Base(name)
	if !IsAddOnFileName(base) {
		return "", fmt.Errorf("%w: %q does not end with %s", ErrInvalidFileName, base, FileExtension)
	}
	id, _, _ := strings.Cut(trimExtension(base), "-")
	if id == "" {
		return "", fmt.Errorf("%w: %q has no add-on id", ErrInvalidFileName, base)
	}
	return id, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
