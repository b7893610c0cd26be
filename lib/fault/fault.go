// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fault

import (
	"errors"
	"fmt"
)

// Kind classifies an engine failure.
type Kind int

const (
	// Unknown is the kind of errors that did not originate in the
	// engine (context cancellation, plain I/O errors).
	Unknown Kind = iota
	Syntax
	Validation
	Type
	NotFound
	NamingConflict
	Underflow
	Security
	Inspection
)

// String returns the taxonomy name used in CLI and JSON output.
func (k Kind) String() string {
	switch k {
	case Syntax:
		return "SyntaxError"
	case Validation:
		return "ValidationViolation"
	case Type:
		return "TypeError"
	case NotFound:
		return "NotFoundError"
	case NamingConflict:
		return "NamingConflictError"
	case Underflow:
		return "UnderflowError"
	case Security:
		return "SecurityError"
	case Inspection:
		return "InspectionError"
	default:
		return "Error"
	}
}

// PreExecution reports whether errors of this kind are raised before
// any statement runs.
func (k Kind) PreExecution() bool {
	return k == Syntax || k == Validation
}

// Kinded is implemented by error types that carry a Kind. Error types
// defined outside this package (parser.SyntaxError,
// security.ValidationError) implement it so [KindOf] sees through them.
type Kinded interface {
	error
	Kind() Kind
}

// Error is the general engine error. Message is the human-readable
// description; Err is an optional underlying cause.
type Error struct {
	kind    Kind
	Message string
	Err     error
}

// New returns an error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an error of the given kind that wraps cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.Message)
}

// Kind returns the error's classification.
func (e *Error) Kind() Kind { return e.kind }

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of the first Kinded error in err's chain, or
// Unknown when there is none.
func KindOf(err error) Kind {
	var kinded Kinded
	if errors.As(err, &kinded) {
		return kinded.Kind()
	}
	return Unknown
}

// Is reports whether err (or anything it wraps) is of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Convenience constructors for the kinds raised from many packages.

func TypeErrorf(format string, args ...any) *Error { return New(Type, format, args...) }

func NotFoundf(format string, args ...any) *Error { return New(NotFound, format, args...) }

func Securityf(format string, args ...any) *Error { return New(Security, format, args...) }
