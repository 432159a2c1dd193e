package validator

import (
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	maxFolderNameLen = 255
	maxMediaPathLen  = 1024

	errFolderNameRequired  = "Folder name is required"
	errFolderNameMaxLength = "Folder name must be 255 characters or less"
	errFolderNameCharset   = "Folder name can only contain letters, numbers, spaces, hyphens, and underscores"

	errMediaPathMaxLengthFmt = "media path must not exceed %d characters"
	errMediaPathBackslash    = "media path cannot contain backslashes"
	errMediaPathTraversal    = "media path cannot contain path traversal"
	errMediaPathEmptySeg     = "media path contains empty segment"
)

var folderNameRegex = regexp.MustCompile(`^[a-zA-Z0-9\s\-_]+$`)

// NameValidation is the outcome of a folder-name check. Error carries the
// first violated rule's message and is empty when Valid is true.
type NameValidation struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// FolderName validates a folder display name. Rules are checked in order and
// the first violation wins: non-blank, at most 255 characters, restricted
// character set.
func FolderName(name string) error {
	if strings.TrimSpace(name) == "" {
		return validation.NewError("validation_required", errFolderNameRequired)
	}

	return validation.Validate(name,
		validation.RuneLength(0, maxFolderNameLen).Error(errFolderNameMaxLength),
		validation.Match(folderNameRegex).Error(errFolderNameCharset),
	)
}

// ValidateFolderName is the structured form of FolderName. It performs no I/O.
func ValidateFolderName(name string) NameValidation {
	if err := FolderName(name); err != nil {
		return NameValidation{Valid: false, Error: err.Error()}
	}
	return NameValidation{Valid: true}
}

// MediaPath validates a media store directory or file path after trimming.
// The empty path addresses the store root and is allowed.
func MediaPath(path string) error {
	if path == "" {
		return nil
	}

	if len(path) > maxMediaPathLen {
		return fmt.Errorf(errMediaPathMaxLengthFmt, maxMediaPathLen)
	}

	if strings.Contains(path, "\\") {
		return fmt.Errorf(errMediaPathBackslash)
	}

	for _, segment := range strings.Split(path, "/") {
		if segment == "" {
			return fmt.Errorf(errMediaPathEmptySeg)
		}
		if segment == "." || segment == ".." {
			return fmt.Errorf(errMediaPathTraversal)
		}
	}

	return nil
}

// SanitizeMediaPath trims surrounding whitespace and slashes the way the
// media controller expects paths to arrive.
func SanitizeMediaPath(path string) string {
	return strings.Trim(strings.TrimSpace(path), "/")
}
