// Package errors provides structured error types for xyplot.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the libraries
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes fall into three groups:
//   - configuration errors (EMPTY_LIST, FONT_NOT_FOUND, INVALID_*): fatal,
//     the current build or sweep step is aborted
//   - driver contract violations (INDEX_OUT_OF_RANGE, CELL_POPULATED):
//     the caller drove the sweep incorrectly
//   - NOT_FOUND and INTERNAL_ERROR for everything else
//
// Template substitution problems are never errors: they are rendered inline
// (see package template).
//
// # Usage
//
//	err := errors.New(errors.ErrCodeEmptyList, "dim1 list is empty")
//	if errors.Is(err, errors.ErrCodeEmptyList) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFontNotFound, origErr, "TTF font not found: %q", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Configuration errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeEmptyList    Code = "EMPTY_LIST"
	ErrCodeFontNotFound Code = "FONT_NOT_FOUND"
	ErrCodeInvalidColor Code = "INVALID_COLOR"
	ErrCodeInvalidAlign Code = "INVALID_ALIGN"
	ErrCodeInvalidPath  Code = "INVALID_PATH"

	// Driver contract violations
	ErrCodeIndexOutOfRange Code = "INDEX_OUT_OF_RANGE"
	ErrCodeCellPopulated   Code = "CELL_POPULATED"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// IsConfig reports whether err is a configuration error, i.e. one that
// will fail again with the same inputs.
func IsConfig(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeEmptyList, ErrCodeFontNotFound,
		ErrCodeInvalidColor, ErrCodeInvalidAlign, ErrCodeInvalidPath:
		return true
	}
	return false
}
