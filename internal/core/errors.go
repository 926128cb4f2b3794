package core

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers. Each kind maps to one HTTP status.
type Kind string

const (
	KindInvalidInput Kind = "invalid_input"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindStore        Kind = "store_error"
	KindInternal     Kind = "internal"
)

var (
	// ErrNotFound is wrapped by store errors for a missing document.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is wrapped by store errors for a unique-index violation.
	ErrDuplicate = errors.New("duplicate key")
)

// Error is a classified error. Message is safe to return to the caller;
// Err is for logs only.
type Error struct {
	Kind    Kind
	Message string
	// Unavailable marks store errors caused by an unreachable store.
	Unavailable bool
	Err         error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Invalid(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// StoreFailure wraps a driver error that reached the service boundary.
func StoreFailure(err error, unavailable bool) *Error {
	msg := "the database operation failed"
	if unavailable {
		msg = "the database is unavailable"
	}
	return &Error{Kind: KindStore, Message: msg, Unavailable: unavailable, Err: err}
}

// AsError returns err as a classified *Error. Unclassified errors become
// KindInternal with a generic message.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindInternal, Message: "an unexpected error occurred", Err: err}
}

// KindOf returns the kind of err, or "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return AsError(err).Kind
}
