package engine

import (
	"errors"
	"fmt"
)

// Code classifies engine errors for reporting.
type Code string

const (
	CodeParse       Code = "parse"
	CodeXPath       Code = "xpath"
	CodeXslt        Code = "xslt"
	CodeXsd         Code = "xsd"
	CodeIO          Code = "io"
	CodeUnsupported Code = "unsupported"
	CodeEngine      Code = "engine"
)

// Error is a classified engine failure. It wraps the underlying cause
// when there is one.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf builds a classified error without a cause.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds a classified error around a cause.
func Wrap(code Code, err error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// ErrUnsupported marks operations or features an engine does not
// implement. The runner reports these as not applicable.
var ErrUnsupported = errors.New("unsupported")

// Unsupportedf builds an unsupported-operation error that satisfies
// both errors.Is(err, ErrUnsupported) and the *Error classification.
func Unsupportedf(format string, args ...any) *Error {
	return &Error{
		Code:    CodeUnsupported,
		Message: fmt.Sprintf(format, args...),
		Err:     ErrUnsupported,
	}
}

// IsUnsupported reports whether err represents an unimplemented
// operation or feature.
func IsUnsupported(err error) bool {
	if errors.Is(err, ErrUnsupported) {
		return true
	}
	var e *Error
	return errors.As(err, &e) && e.Code == CodeUnsupported
}
