package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidSelection, "pick at least %d flowers", 6)

	if err.Code != ErrCodeInvalidSelection {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidSelection)
	}
	if err.Message != "pick at least 6 flowers" {
		t.Errorf("Message = %v, want %v", err.Message, "pick at least 6 flowers")
	}

	expected := "INVALID_SELECTION: pick at least 6 flowers"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeStorage, cause, "create bouquet")

	if err.Code != ErrCodeStorage {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeStorage)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if got := err.Error(); got != "STORAGE_ERROR: create bouquet: connection refused" {
		t.Errorf("Error() = %q", got)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeNotFound, "x"), ErrCodeNotFound, true},
		{"non-matching code", New(ErrCodeNotFound, "x"), ErrCodeStorage, false},
		{"outer code wins", Wrap(ErrCodeStorage, New(ErrCodeConflict, "inner"), "outer"), ErrCodeStorage, true},
		{"fmt wrapped", fmtWrap(New(ErrCodeInvalidPayload, "bad")), ErrCodeInvalidPayload, true},
		{"non-Error type", errors.New("plain"), ErrCodeNotFound, false},
		{"nil error", nil, ErrCodeNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeInvalidStyle, "x"), ErrCodeInvalidStyle},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "validation keeps message",
			err:      New(ErrCodeInvalidSelection, "pick at least 6 flowers"),
			expected: "pick at least 6 flowers",
		},
		{
			name:     "payload detail hidden",
			err:      Wrap(ErrCodeInvalidPayload, errors.New("illegal base64 data at input byte 4"), "decode link"),
			expected: "This bouquet may have been removed or the link is incorrect.",
		},
		{
			name:     "not found",
			err:      New(ErrCodeNotFound, "bouquet abc not found"),
			expected: "This bouquet may have been removed or the link is incorrect.",
		},
		{
			name:     "storage",
			err:      Wrap(ErrCodeStorage, errors.New("dial tcp"), "insert"),
			expected: "Could not save your bouquet. Please try again.",
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			expected: "Something went wrong. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func fmtWrap(err error) error {
	return &wrapped{err}
}

type wrapped struct{ err error }

func (w *wrapped) Error() string { return "ctx: " + w.err.Error() }
func (w *wrapped) Unwrap() error { return w.err }
