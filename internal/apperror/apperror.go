// Package apperror defines the expected, routine failures returned by the
// console core. Anything that is not an *Error (storage, randomness) is an
// exceptional condition and must be treated as fatal for the operation.
package apperror

import (
	"errors"
	"strings"
)

// Kind classifies a routine failure.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindNotFound      Kind = "not_found"
	KindConflict      Kind = "conflict"
	KindAuthorization Kind = "authorization"
	KindRateLimit     Kind = "rate_limit"
)

// Keys for Error.Fields.
const (
	FieldLocked                = "locked"
	FieldAttemptsRemaining     = "attemptsRemaining"
	FieldRemainingMinutes      = "remainingMinutes"
	FieldRequireChangePassword = "requireChangePassword"
)

// Error is the failure branch of an operation result. Fields carries the
// extra data the caller may render next to Message.
type Error struct {
	Kind    Kind
	Message string
	Details []string
	Fields  map[string]any
}

func (e *Error) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Details, "; ")
}

// With sets an extra field and returns e for chaining.
func (e *Error) With(key string, value any) *Error {
	if e.Fields == nil {
		e.Fields = make(map[string]any)
	}
	e.Fields[key] = value
	return e
}

// Bool returns a boolean field, false when absent.
func (e *Error) Bool(key string) bool {
	v, _ := e.Fields[key].(bool)
	return v
}

// Int returns an int field and whether it was present.
func (e *Error) Int(key string) (int, bool) {
	v, ok := e.Fields[key].(int)
	return v, ok
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Validation(msg string, details ...string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Details: details}
}

func NotFound(msg string) *Error { return New(KindNotFound, msg) }

func Conflict(msg string) *Error { return New(KindConflict, msg) }

func Authorization(msg string) *Error { return New(KindAuthorization, msg) }

func RateLimit(msg string) *Error { return New(KindRateLimit, msg) }

// As extracts an *Error from err.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}
