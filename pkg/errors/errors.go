// Package errors provides structured error types for boxsvg.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the renderer, CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (including style values)
//   - NOT_FOUND: Resource not found
//   - NETWORK_*: Network-related errors
//   - INTERNAL_*: Unexpected internal errors
//
// Render-specific failures have dedicated typed errors
// ([InvalidPropertyValueError], [MissingDisplayModeError],
// [NoFontLoadedError]) that still answer to [Is] with their code.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "invalid document: %s", path)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "failed to fetch %s", url)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput         Code = "INVALID_INPUT"
	ErrCodeInvalidFormat        Code = "INVALID_FORMAT"
	ErrCodeInvalidPath          Code = "INVALID_PATH"
	ErrCodeInvalidPropertyValue Code = "INVALID_PROPERTY_VALUE"
	ErrCodeUnknownProperty      Code = "UNKNOWN_PROPERTY"
	ErrCodeMissingDisplayMode   Code = "MISSING_DISPLAY_MODE"

	// Font errors
	ErrCodeNoFontLoaded Code = "NO_FONT_LOADED"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Network errors
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	// Cancellation
	ErrCodeCanceled Code = "CANCELED"

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

// coder is implemented by the typed errors below.
type coder interface {
	error
	Code() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or a typed error with a
// matching code. The outermost coded error wins.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no coded error is found in the chain.
func GetCode(err error) Code {
	for err != nil {
		switch e := err.(type) {
		case *Error:
			return e.Code
		case coder:
			return e.Code()
		}
		err = errors.Unwrap(err)
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

// InvalidPropertyValueError is raised when a style value is outside the
// enumerated set a property accepts.
type InvalidPropertyValueError struct {
	Property string
	Received string
	Allowed  []string
}

// Error implements the error interface.
func (e *InvalidPropertyValueError) Error() string {
	return fmt.Sprintf("invalid value for %q: %q (allowed: %s)",
		e.Property, e.Received, strings.Join(e.Allowed, ", "))
}

// Code returns the error code for this error type.
func (e *InvalidPropertyValueError) Code() Code {
	return ErrCodeInvalidPropertyValue
}

// MissingDisplayModeError is raised when a node has more than one child but
// declares neither display:flex nor display:none.
type MissingDisplayModeError struct {
	NodeID   string
	Children int
}

// Error implements the error interface.
func (e *MissingDisplayModeError) Error() string {
	return fmt.Sprintf("node %q has %d children but no display:flex or display:none", e.NodeID, e.Children)
}

// Code returns the error code for this error type.
func (e *MissingDisplayModeError) Code() Code {
	return ErrCodeMissingDisplayMode
}

// NoFontLoadedError is raised when text must be measured but no font is
// registered with the font engine.
type NoFontLoadedError struct {
	Text string
}

// Error implements the error interface.
func (e *NoFontLoadedError) Error() string {
	if e.Text == "" {
		return "no font loaded"
	}
	return fmt.Sprintf("no font loaded to measure %q", e.Text)
}

// Code returns the error code for this error type.
func (e *NoFontLoadedError) Code() Code {
	return ErrCodeNoFontLoaded
}

// RateLimitedError provides additional information for rate-limited responses
// from image hosts.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
	Message    string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}
