// Package errors provides structured error types for smartstep.
//
// The routing core degrades silently and almost never fails; the codes in
// this package cover the boundaries around it: decoding scene files, looking
// up shapes and connectors, the document store and the HTTP API.
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND: Resource not found
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConnectorNotFound, "connector %q", id)
//	if errors.Is(err, errors.ErrCodeConnectorNotFound) {
//	    // Handle missing connector
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidScene, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable error code. Its prefix or suffix names the
// category: INVALID_* for rejected input, *_NOT_FOUND for missing
// resources.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidScene  Code = "INVALID_SCENE"
	ErrCodeInvalidSide   Code = "INVALID_SIDE"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidID     Code = "INVALID_ID"

	ErrCodeNotFound          Code = "NOT_FOUND"
	ErrCodeSceneNotFound     Code = "SCENE_NOT_FOUND"
	ErrCodeShapeNotFound     Code = "SHAPE_NOT_FOUND"
	ErrCodeConnectorNotFound Code = "CONNECTOR_NOT_FOUND"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Invalid reports whether c rejects caller input.
func (c Code) Invalid() bool { return strings.HasPrefix(string(c), "INVALID_") }

// Missing reports whether c names an absent resource.
func (c Code) Missing() bool { return strings.HasSuffix(string(c), "NOT_FOUND") }

// Error carries a code, a message meant for users and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates an error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// as finds the outermost *Error in the chain.
func as(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := as(err)
	return ok && e.Code == code
}

// CodeOf returns the code of err, or "" for uncoded errors.
func CodeOf(err error) Code {
	if e, ok := as(err); ok {
		return e.Code
	}
	return ""
}

// Message returns the user-facing part of err: the message of a coded error
// without code or cause, else err.Error().
func Message(err error) string {
	if e, ok := as(err); ok {
		return e.Message
	}
	return err.Error()
}

// IsNotFound reports whether err carries any *_NOT_FOUND code.
func IsNotFound(err error) bool { return CodeOf(err).Missing() }
