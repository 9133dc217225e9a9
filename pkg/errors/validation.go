package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateCaptionPath validates a caption file path supplied by a client.
// It rejects paths that could escape the configured caption root.
//
// The validation rules are intentionally conservative:
//   - No empty paths
//   - No control characters or null bytes
//   - No parent-directory traversal after cleaning
//   - Maximum length of 4096 characters
//
// Containment within the serving root is checked separately by the
// caption source, which knows the root.
func ValidateCaptionPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	if len(path) > 4096 {
		return New(ErrCodeInvalidPath, "path too long (max 4096 characters)")
	}

	for _, r := range path {
		if r == 0 || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}

	clean := filepath.Clean(path)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return New(ErrCodeInvalidPath, "path escapes the caption root")
	}

	return nil
}

// ValidateOperation validates a transform operation name from a client
// request.
func ValidateOperation(op string) error {
	switch op {
	case "dropout", "shuffle", "both":
		return nil
	case "":
		return New(ErrCodeInvalidOperation, "operation cannot be empty")
	default:
		return New(ErrCodeInvalidOperation, "unknown operation: %q (want dropout, shuffle, or both)", op)
	}
}
