// Package apierr defines the error taxonomy shared by the lifecycle engine,
// the stores and the HTTP layer.
package apierr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for callers and for HTTP translation.
type Kind uint8

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// HTTPStatus maps the kind to the status code the REST layer answers with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrStaleState is returned by stores when a conditional status update
// matched no row because the row is no longer in the expected status, or
// when the new status collides with a unique status index.
var ErrStaleState = errors.New("row is no longer in the expected status")

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an error of the given kind wrapping err (which may be nil).
func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) *Error     { return New(KindNotFound, message, nil) }
func Conflict(message string) *Error     { return New(KindConflict, message, nil) }
func Forbidden(message string) *Error    { return New(KindForbidden, message, nil) }
func BadRequest(message string) *Error   { return New(KindBadRequest, message, nil) }
func Unauthorized(message string) *Error { return New(KindUnauthorized, message, nil) }
func Unavailable(message string) *Error  { return New(KindUnavailable, message, nil) }

// Internal wraps an unexpected failure.
func Internal(message string, err error) *Error {
	return New(KindInternal, message, err)
}

// KindOf returns the kind of the first *Error in err's chain, KindInternal otherwise.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindInternal
}

func IsNotFound(err error) bool  { return err != nil && KindOf(err) == KindNotFound }
func IsConflict(err error) bool  { return err != nil && KindOf(err) == KindConflict }
func IsForbidden(err error) bool { return err != nil && KindOf(err) == KindForbidden }
