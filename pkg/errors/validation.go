package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxNameLength bounds frame and frameset names.
const MaxNameLength = 128

// ValidateName validates a frame or frameset name. Names are optional, so the
// empty string is accepted.
//
// Validation rules:
//   - Maximum length of MaxNameLength characters
//   - No control characters or null bytes
//   - No path separators, since names end up in artifact file names
func ValidateName(name string) error {
	if len(name) > MaxNameLength {
		return New(ErrCodeInvalidName, "name too long (max %d characters)", MaxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidName, "name cannot contain path separators: %q", name)
	}

	return nil
}

// colorRegex matches #rgb, #rrggbb and plain color keywords.
var colorRegex = regexp.MustCompile(`^(#[0-9a-fA-F]{3}|#[0-9a-fA-F]{6}|[a-zA-Z]+)$`)

// ValidateColor validates a border color. The empty string means "inherit".
func ValidateColor(color string) error {
	if color == "" {
		return nil
	}
	if !colorRegex.MatchString(color) {
		return New(ErrCodeInvalidColor, "invalid color: %q", color)
	}
	return nil
}

// ValidatePath validates a relative artifact path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
