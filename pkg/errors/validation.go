package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds scene, shape and connector identifiers.
const maxIDLength = 256

// ValidateID checks an identifier that may become a file name or a storage
// key. Empty, overlong, control-character and path-like ids are rejected.
func ValidateID(id string) error {
	switch {
	case id == "":
		return New(ErrCodeInvalidID, "identifier cannot be empty")
	case len(id) > maxIDLength:
		return New(ErrCodeInvalidID, "identifier longer than %d bytes", maxIDLength)
	case strings.ContainsFunc(id, unicode.IsControl):
		return New(ErrCodeInvalidID, "identifier %q contains control characters", id)
	case strings.Contains(id, "..") || strings.ContainsAny(id, `/\`):
		return New(ErrCodeInvalidID, "identifier %q looks like a path", id)
	}
	return nil
}
