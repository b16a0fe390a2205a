package validator

import (
	"fmt"
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	maxEntryNameLen   = 255
	maxContentTypeLen = 255
	asciiControlStart = 32
	asciiDelete       = 127

	errEntryNameEmptyFmt        = "name cannot be empty"
	errEntryNameMaxLengthFmt    = "name must not exceed %d characters"
	errEntryNameControlCharsFmt = "name cannot contain control characters"
	errEntryNameEncodingFmt     = "name must be valid UTF-8"
	errContentTypeMaxLengthFmt  = "content type must not exceed %d characters"
	errContentTypeInvalidFmt    = "invalid content type"
	errFileSizeNegativeFmt      = "file size cannot be negative"
	errInvalidIDFmt             = "%s must be a valid UUID"
)

// EntryName checks a display name for a file or folder and returns it trimmed.
// Display names are stored as typed; only storage keys are sanitized.
func EntryName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf(errEntryNameEmptyFmt)
	}

	if !utf8.ValidString(trimmed) {
		return "", fmt.Errorf(errEntryNameEncodingFmt)
	}

	if utf8.RuneCountInString(trimmed) > maxEntryNameLen {
		return "", fmt.Errorf(errEntryNameMaxLengthFmt, maxEntryNameLen)
	}

	for _, char := range trimmed {
		if char < asciiControlStart || char == asciiDelete {
			return "", fmt.Errorf(errEntryNameControlCharsFmt)
		}
	}

	return trimmed, nil
}

// OptionalID parses an id form or query field. An empty value means "no id".
func OptionalID(field, raw string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf(errInvalidIDFmt, field)
	}
	return &id, nil
}

// RequiredID parses a path parameter id.
func RequiredID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf(errInvalidIDFmt, field)
	}
	return id, nil
}

func FileSize(size int64) error {
	if size < 0 {
		return fmt.Errorf(errFileSizeNegativeFmt)
	}
	return nil
}

func ContentType(contentType string) error {
	if contentType == "" {
		return nil
	}

	if len(contentType) > maxContentTypeLen {
		return fmt.Errorf(errContentTypeMaxLengthFmt, maxContentTypeLen)
	}

	if _, _, err := mime.ParseMediaType(contentType); err != nil {
		return fmt.Errorf(errContentTypeInvalidFmt)
	}

	return nil
}
