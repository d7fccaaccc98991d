package errors

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// documentNameRegex matches names that are safe as a .tex/.pdf basename.
var documentNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateDocumentName validates a report name before it is used as a file
// name for pdflatex. The name becomes <name>.tex inside a temp directory and
// <name>.pdf in the output directory, so it must be a plain basename.
//
// Validation rules:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateDocumentName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "document name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "document name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "document name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return New(ErrCodeInvalidInput, "document name must be a plain file name: %q", name)
	}

	if !documentNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid document name: %q", name)
	}

	return nil
}

// ValidateRunID checks that id is a canonical UUID as issued for solve runs.
func ValidateRunID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "run id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid run id %q", id)
	}
	return nil
}
