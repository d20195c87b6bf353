// Package apperr carries the error taxonomy the handlers translate into
// HTTP responses: user-fixable validation failures aggregate messages,
// everything else is a single-message kinded error.
package apperr

import (
	"errors"
	"strings"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindStorage
)

type Error struct {
	Kind     Kind
	Messages []string
	cause    error
}

func (e *Error) Error() string {
	if len(e.Messages) > 0 {
		return strings.Join(e.Messages, "; ")
	}
	if e.cause != nil {
		return e.cause.Error()
	}
	return "error"
}

func (e *Error) Unwrap() error { return e.cause }

func Validation(messages ...string) *Error {
	return &Error{Kind: KindValidation, Messages: messages}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Messages: []string{message}}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Messages: []string{message}}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Messages: []string{message}}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Messages: []string{message}}
}

// Storage wraps an infrastructure failure. The wrapped error is kept for
// logs; the message is what clients are allowed to see.
func Storage(message string, cause error) *Error {
	return &Error{Kind: KindStorage, Messages: []string{message}, cause: cause}
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func Is(err error, kind Kind) bool { return KindOf(err) == kind }

// MessagesOf returns the client-facing messages, falling back to the bare
// error text for untyped errors.
func MessagesOf(err error) []string {
	var e *Error
	if errors.As(err, &e) && len(e.Messages) > 0 {
		return e.Messages
	}
	return []string{err.Error()}
}
