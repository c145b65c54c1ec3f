// Package apperr defines the error kinds services return and the transport
// layer translates into responses.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindForbidden
	KindConflict
	KindNotFound
	KindDelivery
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindDelivery:
		return "delivery"
	default:
		return "internal"
	}
}

// Status is the HTTP status a kind maps to.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a user-facing failure. Message and Detail are safe to show to
// callers; Err holds the internal cause and is never rendered.
type Error struct {
	Kind    Kind
	Message string
	Detail  string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// WithDetail returns a copy carrying detail.
func (e *Error) WithDetail(detail string) *Error {
	cp := *e
	cp.Detail = detail
	return &cp
}

func newErr(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

func Validation(msg string) *Error { return newErr(KindValidation, msg, nil) }

func Auth(msg string, cause error) *Error { return newErr(KindAuth, msg, cause) }

func Forbidden(msg string) *Error { return newErr(KindForbidden, msg, nil) }

func Conflict(msg string) *Error { return newErr(KindConflict, msg, nil) }

func NotFound(msg string) *Error { return newErr(KindNotFound, msg, nil) }

func Delivery(msg string, cause error) *Error { return newErr(KindDelivery, msg, cause) }

func Internal(msg string, cause error) *Error { return newErr(KindInternal, msg, cause) }

// KindOf reports the kind of err, KindInternal for anything that is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
