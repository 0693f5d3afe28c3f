package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNodeUnavailable, "node %q vanished", "pCube1")

	if err.Code != ErrCodeNodeUnavailable {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNodeUnavailable)
	}

	if err.Message != `node "pCube1" vanished` {
		t.Errorf("Message = %v, want %v", err.Message, `node "pCube1" vanished`)
	}

	expected := `NODE_UNAVAILABLE: node "pCube1" vanished`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := Wrap(ErrCodeSchemaInvalid, cause, "decode export")

	if err.Code != ErrCodeSchemaInvalid {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeSchemaInvalid)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "SCHEMA_INVALID: decode export: unexpected EOF"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
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
			err:      New(ErrCodeBackendUnavailable, "mtoa not loaded"),
			code:     ErrCodeBackendUnavailable,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeBackendUnavailable, "mtoa not loaded"),
			code:     ErrCodeNodeUnavailable,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeNodeUnavailable, New(ErrCodeAttributeMissing, "inner"), "outer"),
			code:     ErrCodeNodeUnavailable,
			expected: true,
		},
		{
			name:     "fmt wrapped",
			err:      errorsJoin(New(ErrCodeNoRenderOutput, "no files")),
			code:     ErrCodeNoRenderOutput,
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

func errorsJoin(err error) error {
	return errors.Join(errors.New("render"), err)
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeAttributeMissing, "test"),
			expected: ErrCodeAttributeMissing,
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
			name:     "Error type",
			err:      New(ErrCodeSchemaInvalid, "missing required key \"cameras\""),
			expected: "missing required key \"cameras\"",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
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

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"node unavailable", New(ErrCodeNodeUnavailable, "x"), true},
		{"schema invalid", New(ErrCodeSchemaInvalid, "x"), true},
		{"backend unavailable", New(ErrCodeBackendUnavailable, "x"), false},
		{"attribute missing", New(ErrCodeAttributeMissing, "x"), false},
		{"no render output", New(ErrCodeNoRenderOutput, "x"), false},
		{"plain", errors.New("boom"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFatal(tt.err); got != tt.want {
				t.Errorf("IsFatal() = %v, want %v", got, tt.want)
			}
		})
	}
}
