// Package errors provides structured error types for scenebridge.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the library packages
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The scene-specific codes mirror how each failure is handled:
//   - NODE_UNAVAILABLE: a referenced scene node vanished mid-operation (fatal to that operation)
//   - BACKEND_UNAVAILABLE: renderer plugin not loaded (non-fatal, degraded result)
//   - ATTRIBUTE_MISSING: optional attribute absent (non-fatal, resolved by a default)
//   - NO_RENDER_OUTPUT: render produced no matching file (non-fatal, surfaced as a warning)
//   - SCHEMA_INVALID: persisted document missing required keys (fatal to load)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNodeUnavailable, "node %q no longer exists", name)
//	if errors.Is(err, errors.ErrCodeNodeUnavailable) {
//	    // Abort this bake
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeSchemaInvalid, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Scene errors
	ErrCodeNodeUnavailable    Code = "NODE_UNAVAILABLE"
	ErrCodeBackendUnavailable Code = "BACKEND_UNAVAILABLE"
	ErrCodeAttributeMissing   Code = "ATTRIBUTE_MISSING"
	ErrCodeNoRenderOutput     Code = "NO_RENDER_OUTPUT"
	ErrCodeSchemaInvalid      Code = "SCHEMA_INVALID"

	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidPath  Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsFatal reports whether err belongs to a category that must abort the
// operation that produced it. Backend, attribute and render-output failures
// are degradations and return false.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	switch GetCode(err) {
	case ErrCodeBackendUnavailable, ErrCodeAttributeMissing, ErrCodeNoRenderOutput:
		return false
	}
	return true
}
