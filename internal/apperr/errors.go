// Package apperr is the error taxonomy shared by services, stores and the
// HTTP layer.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindInvalidQuery
	KindInvalidInput
	KindUnitNotSupported
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

// Error carries a kind and a short public message. Err is the cause and is
// never shown to clients.
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

func newErr(k Kind, msg string) error { return &Error{Kind: k, Message: msg} }

func InvalidQuery(msg string) error     { return newErr(KindInvalidQuery, msg) }
func InvalidInput(msg string) error     { return newErr(KindInvalidInput, msg) }
func UnitNotSupported(msg string) error { return newErr(KindUnitNotSupported, msg) }
func Unauthorized(msg string) error     { return newErr(KindUnauthorized, msg) }
func Forbidden(msg string) error        { return newErr(KindForbidden, msg) }
func NotFound(msg string) error         { return newErr(KindNotFound, msg) }

// Conflict wraps a transaction failure that the caller may retry.
func Conflict(msg string, cause error) error {
	return &Error{Kind: KindConflict, Message: msg, Err: cause}
}

func Internal(msg string, cause error) error {
	return &Error{Kind: KindInternal, Message: msg, Err: cause}
}

// KindOf returns the kind of the first *Error in the chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// HTTP maps an error to status, machine code and public message.
// Internal errors get a generic message.
func HTTP(err error) (status int, code, msg string) {
	var e *Error
	if !errors.As(err, &e) || e.Kind == KindInternal {
		return http.StatusInternalServerError, "internal-error", "internal server error"
	}
	switch e.Kind {
	case KindInvalidQuery:
		return http.StatusBadRequest, "invalid-query", e.Message
	case KindInvalidInput:
		return http.StatusBadRequest, "invalid-input", e.Message
	case KindUnitNotSupported:
		return http.StatusBadRequest, "unit-not-supported", e.Message
	case KindUnauthorized:
		return http.StatusUnauthorized, "unauthorized", e.Message
	case KindForbidden:
		return http.StatusForbidden, "forbidden", e.Message
	case KindNotFound:
		return http.StatusNotFound, "not-found", e.Message
	case KindConflict:
		return http.StatusConflict, "conflict", e.Message
	}
	return http.StatusInternalServerError, "internal-error", "internal server error"
}
