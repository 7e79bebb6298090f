package errors

import (
	"strings"
	"unicode"
)

// MaxPathLength is the longest repository-relative path accepted at the boundary.
const MaxPathLength = 1024

// ValidatePath validates a file path within an analyzed repository.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of [MaxPathLength] characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No ".." path segments
//   - No backslashes (Windows-style paths)
//
// Empty segments ("a//b") are accepted; the tree builder collapses them.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	if len(path) > MaxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", MaxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain parent directory segments (..)")
		}
	}

	return nil
}

// ValidateFileID validates a file identifier assigned by the upstream analyzer.
// IDs are used verbatim as graph node ids and edge id components.
func ValidateFileID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidPayload, "file id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidPayload, "file id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPayload, "file id contains invalid control characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
