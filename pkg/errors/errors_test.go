package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidScene, "test message: %s", "value")

	if err.Code != ErrCodeInvalidScene {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidScene)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_SCENE: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInvalidScene, cause, "failed to decode")

	if err.Code != ErrCodeInvalidScene {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidScene)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeConnectorNotFound, "test"),
			code:     ErrCodeConnectorNotFound,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeConnectorNotFound, "test"),
			code:     ErrCodeShapeNotFound,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeInvalidScene, New(ErrCodeInvalidSide, "inner"), "outer"),
			code:     ErrCodeInvalidScene,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidSide, "test"),
			expected: ErrCodeInvalidSide,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.expected {
				t.Errorf("CodeOf() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Message(tt.err); got != tt.expected {
				t.Errorf("Message() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	for _, code := range []Code{ErrCodeNotFound, ErrCodeSceneNotFound, ErrCodeShapeNotFound, ErrCodeConnectorNotFound} {
		if !IsNotFound(New(code, "missing")) {
			t.Errorf("IsNotFound(%s) = false, want true", code)
		}
	}
	if IsNotFound(New(ErrCodeInvalidScene, "bad")) {
		t.Error("IsNotFound(INVALID_SCENE) = true, want false")
	}
	if IsNotFound(errors.New("plain")) {
		t.Error("IsNotFound(plain) = true, want false")
	}
}

func TestCodeCategories(t *testing.T) {
	tests := []struct {
		code             Code
		invalid, missing bool
	}{
		{ErrCodeInvalidSide, true, false},
		{ErrCodeInvalidID, true, false},
		{ErrCodeShapeNotFound, false, true},
		{ErrCodeNotFound, false, true},
		{ErrCodeInternal, false, false},
		{ErrCodeUnsupported, false, false},
	}
	for _, tt := range tests {
		if got := tt.code.Invalid(); got != tt.invalid {
			t.Errorf("%s.Invalid() = %v", tt.code, got)
		}
		if got := tt.code.Missing(); got != tt.missing {
			t.Errorf("%s.Missing() = %v", tt.code, got)
		}
	}
}
