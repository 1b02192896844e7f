// Package apperror defines the error kinds surfaced to API clients.
//
// Every service error carries a kind and a client-safe message. The optional
// cause is kept for logging and never rendered.
package apperror

import (
	"errors"
)

var (
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrAuth       = errors.New("auth error")
	ErrCapacity   = errors.New("capacity exceeded")
	ErrInternal   = errors.New("internal error")
)

type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func Validation(message string) *Error {
	return &Error{Kind: ErrValidation, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: ErrConflict, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: ErrNotFound, Message: message}
}

func Auth(message string) *Error {
	return &Error{Kind: ErrAuth, Message: message}
}

func Capacity(message string) *Error {
	return &Error{Kind: ErrCapacity, Message: message}
}

// Internal hides cause behind a fixed message.
func Internal(message string, cause error) *Error {
	return &Error{Kind: ErrInternal, Message: message, Cause: cause}
}

func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }
func IsConflict(err error) bool   { return errors.Is(err, ErrConflict) }
func IsNotFound(err error) bool   { return errors.Is(err, ErrNotFound) }
func IsAuth(err error) bool       { return errors.Is(err, ErrAuth) }
func IsCapacity(err error) bool   { return errors.Is(err, ErrCapacity) }
func IsInternal(err error) bool   { return errors.Is(err, ErrInternal) }

// Message returns the client-facing text for err. Anything that is not an
// *Error yields fallback.
func Message(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return fallback
}
