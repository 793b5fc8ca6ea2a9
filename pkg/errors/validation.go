package errors

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

const (
	maxNameLength = 256
	maxTagLength  = 64
)

// ValidateName validates a design name. Empty names are allowed.
func ValidateName(name string) error {
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}
	return nil
}

// ValidateTag validates a tag supplied by a user. Tags are opaque to the
// core but end up in DOT attributes and file names, so they must be
// non-empty, short, and free of whitespace, quotes and backslashes.
func ValidateTag(tag string) error {
	if tag == "" {
		return New(ErrCodeInvalidTag, "tag cannot be empty")
	}
	if len(tag) > maxTagLength {
		return New(ErrCodeInvalidTag, "tag too long (max %d characters)", maxTagLength)
	}
	for _, r := range tag {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidTag, "tag %q contains whitespace or control characters", tag)
		}
	}
	if strings.ContainsAny(tag, "\"\\") {
		return New(ErrCodeInvalidTag, "tag %q contains quotes or backslashes", tag)
	}
	return nil
}

// ValidateID validates a design ID.
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeInvalidID, err, "invalid id %q", id)
	}
	return nil
}

// ValidateDimensions validates the size of a new design.
func ValidateDimensions(cols, rows int) error {
	const maxTracks = 1000
	if cols < 1 || rows < 1 {
		return New(ErrCodeInvalidInput, "a design needs at least one column and one row, got %dx%d", cols, rows)
	}
	if cols > maxTracks || rows > maxTracks {
		return New(ErrCodeInvalidInput, "design too large (max %d tracks per axis)", maxTracks)
	}
	return nil
}
