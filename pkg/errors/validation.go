package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateOutputPath validates a file path chosen for a rendered sheet.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 1024 characters
//   - No null bytes or control characters
//   - Must not name a directory (trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 1024
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidPath, "output path %q names a directory", path)
	}

	return nil
}

// ValidateRange checks that v lies in [lo, hi]. The name is used in the
// error message.
func ValidateRange[T int | float64](name string, v, lo, hi T) error {
	if v < lo || v > hi {
		return New(ErrCodeInvalidInput, "%s must be between %v and %v, got %v", name, lo, hi, v)
	}
	return nil
}
