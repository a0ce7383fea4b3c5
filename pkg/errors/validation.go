package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Field limits for bouquet cards.
const (
	MaxNameLength    = 50
	MaxMessageLength = 500
)

// ValidateName checks a sender or receiver name.
//
// Rules:
//   - Not empty after trimming
//   - At most MaxNameLength characters (runes, not bytes)
//   - No control characters, including newlines
func ValidateName(field, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return New(ErrCodeInvalidInput, "%s is required", field)
	}
	if n := utf8.RuneCountInString(value); n > MaxNameLength {
		return New(ErrCodeInvalidInput, "%s too long (max %d characters)", field, MaxNameLength)
	}
	for _, r := range value {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s contains invalid control characters", field)
		}
	}
	return nil
}

// ValidateMessage checks a card message. Line breaks and tabs are allowed;
// other control characters are not.
func ValidateMessage(value string) error {
	if strings.TrimSpace(value) == "" {
		return New(ErrCodeInvalidInput, "message is required")
	}
	if !utf8.ValidString(value) {
		return New(ErrCodeInvalidInput, "message is not valid UTF-8")
	}
	if n := utf8.RuneCountInString(value); n > MaxMessageLength {
		return New(ErrCodeInvalidInput, "message too long (max %d characters)", MaxMessageLength)
	}
	for _, r := range value {
		if r == '\n' || r == '\r' || r == '\t' {
			continue
		}
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "message contains invalid control characters")
		}
	}
	return nil
}

// ValidateID checks a record identifier before it reaches a storage backend.
// IDs are short lowercase hex or alphanumeric strings.
func ValidateID(id string) error {
	if id == "" || len(id) > 64 {
		return New(ErrCodeNotFound, "bouquet not found")
	}
	for _, r := range id {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return New(ErrCodeNotFound, "bouquet not found")
		}
	}
	return nil
}
