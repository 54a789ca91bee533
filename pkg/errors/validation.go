package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateOutputPath validates a path the generator is about to write.
//
// The validation rules are intentionally conservative:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Must not end in a path separator
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "output path must name a file, not a directory: %q", path)
	}

	return nil
}

// elementIDRegex matches XML ids as produced by common vector editors.
var elementIDRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.:-]*$`)

// ValidateElementID validates the id of a logo sub-path reference.
func ValidateElementID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidConfig, "element id cannot be empty")
	}
	if len(id) > 256 {
		return New(ErrCodeInvalidConfig, "element id too long (max 256 characters)")
	}
	if !elementIDRegex.MatchString(id) {
		return New(ErrCodeInvalidConfig, "invalid element id: %q", id)
	}
	return nil
}
