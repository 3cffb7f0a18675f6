// Package errs defines the error kinds surfaced by league operations.
// The kind decides how an error is reported to callers; the message is shown verbatim.
package errs

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	KindInternal Kind = iota
	KindValidation
	KindOwnership
	KindNotFound
	KindForbidden
	KindInvalidState
	KindUnauthorized
	KindConflict
	KindStorageConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindOwnership:
		return "ownership"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindInvalidState:
		return "invalid_state"
	case KindUnauthorized:
		return "unauthorized"
	case KindConflict:
		return "conflict"
	case KindStorageConflict:
		return "storage_conflict"
	default:
		return "internal"
	}
}

// Error carries a Kind alongside a human-readable message
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an error of the given kind
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func Validation(format string, args ...any) error   { return New(KindValidation, format, args...) }
func Ownership(format string, args ...any) error    { return New(KindOwnership, format, args...) }
func NotFound(format string, args ...any) error     { return New(KindNotFound, format, args...) }
func Forbidden(format string, args ...any) error    { return New(KindForbidden, format, args...) }
func InvalidState(format string, args ...any) error { return New(KindInvalidState, format, args...) }
func Unauthorized(format string, args ...any) error { return New(KindUnauthorized, format, args...) }
func Conflict(format string, args ...any) error     { return New(KindConflict, format, args...) }

// KindOf returns the kind of the outermost *Error in err's chain, or KindInternal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
