// Package errors provides coded errors for the CLI and HTTP surfaces.
//
// Library packages return plain sentinel errors (grid.ErrIndexOutOfRange,
// layout.ErrOverlappingCellSpan, ...). The outer surfaces turn them into an
// [Error] with a machine-readable [Code] through [Classify], and the HTTP
// server maps codes to status codes with [HTTPStatus].
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidTag, "tag %q is too long", tag)
//	if errors.Is(err, errors.ErrCodeInvalidTag) {
//	    // Handle validation error
//	}
//
//	// Attach a code to a library error
//	err := errors.Classify(origErr)
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/matzehuels/cellspan/pkg/cache"
	"github.com/matzehuels/cellspan/pkg/design"
	"github.com/matzehuels/cellspan/pkg/grid"
	"github.com/matzehuels/cellspan/pkg/grid/edit"
	"github.com/matzehuels/cellspan/pkg/layout"
	"github.com/matzehuels/cellspan/pkg/pipeline"
	"github.com/matzehuels/cellspan/pkg/store"
)

// Code represents a machine-readable error code.
type Code string

// Error codes.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidDesign Code = "INVALID_DESIGN"
	ErrCodeInvalidTag    Code = "INVALID_TAG"
	ErrCodeInvalidID     Code = "INVALID_ID"
	ErrCodeEmptyInput    Code = "EMPTY_INPUT"
	ErrCodeOutOfRange    Code = "INDEX_OUT_OF_RANGE"

	// Cell-span errors
	ErrCodeNonRectangular   Code = "NON_RECTANGULAR_SPAN"
	ErrCodePaletteExhausted Code = "PALETTE_EXHAUSTED"
	ErrCodeOverlappingSpan  Code = "OVERLAPPING_CELL_SPAN"
	ErrCodeUnpositioned     Code = "UNPOSITIONED_GROUP"

	// Resource errors
	ErrCodeNotFound    Code = "NOT_FOUND"
	ErrCodeUnavailable Code = "BACKEND_UNAVAILABLE"
	ErrCodeCanceled    Code = "CANCELED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface. A cause whose text equals the
// message is not repeated.
func (e *Error) Error() string {
	if e.Cause != nil && e.Cause.Error() != e.Message {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error { return e.Cause }

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether err has the given error code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// Returns the empty code if err carries none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of an [Error] without its code, or the
// plain error string otherwise.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// sentinels maps library errors to codes. Order matters: the first match
// wins, and more specific errors come first.
var sentinels = []struct {
	err  error
	code Code
}{
	{context.Canceled, ErrCodeCanceled},
	{context.DeadlineExceeded, ErrCodeCanceled},
	{grid.ErrEmptyInput, ErrCodeEmptyInput},
	{grid.ErrIndexOutOfRange, ErrCodeOutOfRange},
	{grid.ErrNonRectangularSpan, ErrCodeNonRectangular},
	{grid.ErrInternalInvariant, ErrCodeInternal},
	{edit.ErrPaletteExhausted, ErrCodePaletteExhausted},
	{layout.ErrOverlappingCellSpan, ErrCodeOverlappingSpan},
	{layout.ErrUnpositionedGroup, ErrCodeUnpositioned},
	{layout.ErrInvalidNodeID, ErrCodeInvalidDesign},
	{layout.ErrDuplicateNodeID, ErrCodeInvalidDesign},
	{layout.ErrUnknownNode, ErrCodeInvalidDesign},
	{design.ErrInvalidDocument, ErrCodeInvalidDesign},
	{design.ErrDuplicateNode, ErrCodeInvalidDesign},
	{design.ErrUnknownNode, ErrCodeInvalidDesign},
	{design.ErrUnknownFormat, ErrCodeInvalidFormat},
	{pipeline.ErrInvalidOptions, ErrCodeInvalidInput},
	{store.ErrNotFound, ErrCodeNotFound},
	{cache.ErrBackend, ErrCodeUnavailable},
}

// Classify attaches a code to err. Errors that already carry a code are
// returned unchanged, known library sentinels get their code, and anything
// else becomes [ErrCodeInternal]. Classify(nil) is nil.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if GetCode(err) != "" {
		return err
	}
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return &Error{Code: s.code, Message: err.Error(), Cause: err}
		}
	}
	return &Error{Code: ErrCodeInternal, Message: err.Error(), Cause: err}
}

// HTTPStatus returns the HTTP status code for an error code.
func HTTPStatus(code Code) int {
	switch code {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidTag, ErrCodeInvalidID,
		ErrCodeEmptyInput, ErrCodeOutOfRange:
		return http.StatusBadRequest
	case ErrCodeInvalidDesign, ErrCodeNonRectangular, ErrCodeOverlappingSpan, ErrCodeUnpositioned:
		return http.StatusUnprocessableEntity
	case ErrCodePaletteExhausted:
		return http.StatusConflict
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrCodeCanceled:
		return http.StatusRequestTimeout
	}
	return http.StatusInternalServerError
}
