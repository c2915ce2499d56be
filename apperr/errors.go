package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so handlers can pick a status code and clients
// can tell "sold out" apart from "bad request".
type Kind string

const (
	KindNotFound         Kind = "not_found"
	KindValidation       Kind = "validation_error"
	KindCapacityExceeded Kind = "capacity_exceeded"
	KindDuplicate        Kind = "duplicate_operation"
	KindUpstreamPayment  Kind = "upstream_payment_error"
	KindConflict         Kind = "conflict"
	KindUnauthorized     Kind = "unauthorized"
)

type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func NotFound(what string) *Error {
	return New(KindNotFound, what+" not found")
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

func CapacityExceeded(message string) *Error {
	return New(KindCapacityExceeded, message)
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}

// KindOf extracts the kind, or "" for untyped errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// HTTPStatus maps a kind onto the status the REST surface promises.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindCapacityExceeded, KindUpstreamPayment:
		return http.StatusBadRequest
	case KindConflict, KindDuplicate:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
