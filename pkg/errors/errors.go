// Package errors provides structured error types for staffsheet.
//
// Every failure the layout core can report carries a machine-readable code so
// the CLI and the HTTP server can map it to an exit status or response code
// without string matching.
//
// # Error Codes
//
//   - UNKNOWN_PITCH: a pitch name outside the fixed vocabulary
//   - EMPTY_PITCH_SET: no pitches were selected
//   - INVALID_LAYOUT: non-positive note count or degenerate staff geometry
//   - INVALID_*: other input validation failures
//   - INTERNAL_ERROR: unexpected failures (converter crashes, I/O)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownPitch, "unknown pitch %q", name)
//	if errors.Is(err, errors.ErrCodeUnknownPitch) {
//	    // Handle the bad selection
//	}
//
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "convert page %d", n)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Core layout errors
	ErrCodeUnknownPitch  Code = "UNKNOWN_PITCH"
	ErrCodeEmptyPitchSet Code = "EMPTY_PITCH_SET"
	ErrCodeInvalidLayout Code = "INVALID_LAYOUT"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidMode   Code = "INVALID_MODE"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource errors
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

// IsInputError reports whether err was caused by bad caller input rather than
// an internal failure. The server uses it to choose between 400 and 500.
func IsInputError(err error) bool {
	switch GetCode(err) {
	case ErrCodeUnknownPitch, ErrCodeEmptyPitchSet, ErrCodeInvalidLayout,
		ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidMode, ErrCodeInvalidPath:
		return true
	}
	return false
}
