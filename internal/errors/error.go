package errors

import (
	"errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryRegistry Category = "registry"
	CategoryProtocol Category = "protocol"
	CategoryConfig   Category = "config"
	CategoryCLI      Category = "cli"
)

// HistoryError is a structured error with a code, an explanation and a hint.
type HistoryError struct {
	// Code is a unique error identifier (e.g., "H001").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *HistoryError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *HistoryError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a HistoryError with the same code.
func (e *HistoryError) Is(target error) bool {
	t, ok := target.(*HistoryError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithSuggestion adds a fix suggestion to the error.
func (e *HistoryError) WithSuggestion(s string) *HistoryError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the detailed explanation of the error.
func (e *HistoryError) WithDetail(d string) *HistoryError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *HistoryError) Wrap(err error) *HistoryError {
	e.Wrapped = err
	return e
}

// New creates a HistoryError from a registered error code.
func New(code string) *HistoryError {
	template, ok := registry[code]
	if !ok {
		return &HistoryError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &HistoryError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new HistoryError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *HistoryError {
	return &HistoryError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a HistoryError.
// Errors that already are HistoryErrors are returned as is.
func FromError(err error, code string) *HistoryError {
	if err == nil {
		return nil
	}
	var he *HistoryError
	if errors.As(err, &he) {
		return he
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err is (or wraps) a HistoryError with the given code.
func HasCode(err error, code string) bool {
	var he *HistoryError
	if !errors.As(err, &he) {
		return false
	}
	return he.Code == code
}
