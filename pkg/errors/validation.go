package errors

import (
	"strings"
	"unicode"
)

// ValidateFilename validates an output filename for safety.
// It ensures the name is a simple basename without path components, so a
// rendered filename template can never escape the output directory.
func ValidateFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidPath, "filename cannot be empty")
	}

	if len(filename) > 255 {
		return New(ErrCodeInvalidPath, "filename too long (max 255 characters)")
	}

	for _, r := range filename {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "filename contains invalid control characters")
		}
	}

	// Must be a simple filename, not a path
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidPath, "filename cannot contain path separators: %q", filename)
	}

	if filename == "." || filename == ".." {
		return New(ErrCodeInvalidPath, "filename cannot be %q", filename)
	}

	return nil
}

// ValidateSweepID validates an externally supplied sweep identifier.
// Sweep IDs end up in cache keys and log lines, so they are restricted to a
// conservative character set.
//
// Validation rules:
//   - ID cannot be empty
//   - Maximum length of 128 characters
//   - Only letters, digits, '-', '_' and '.'
func ValidateSweepID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "sweep id cannot be empty")
	}

	const maxIDLength = 128
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "sweep id too long (max %d characters)", maxIDLength)
	}

	for _, r := range id {
		if r > unicode.MaxASCII {
			return New(ErrCodeInvalidInput, "sweep id contains invalid characters: %q", id)
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' {
			continue
		}
		return New(ErrCodeInvalidInput, "sweep id contains invalid characters: %q", id)
	}

	return nil
}
