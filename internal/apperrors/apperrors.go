// Package apperrors defines the application error taxonomy and its mapping
// to HTTP statuses. Handlers return these errors as-is; the Echo error
// handler renders the uniform {"error": msg} body.
package apperrors

import (
	"errors"
	"net/http"

	"gorm.io/gorm"
)

type Kind int

const (
	KindValidation Kind = iota // malformed or missing input -> 400
	KindAuth                   // missing or invalid credential -> 401
	KindForbidden              // authenticated but not a party -> 403
	KindNotFound               // absent, or access collapsed for privacy -> 404
	KindDuplicate              // uniqueness invariant violated -> 400
	KindDependency             // downstream store or service failure -> 500
)

type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.cause }

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }
func Auth(msg string) *Error       { return &Error{Kind: KindAuth, Message: msg} }
func Forbidden(msg string) *Error  { return &Error{Kind: KindForbidden, Message: msg} }
func NotFound(msg string) *Error   { return &Error{Kind: KindNotFound, Message: msg} }
func Duplicate(msg string) *Error  { return &Error{Kind: KindDuplicate, Message: msg} }

func Dependency(msg string, cause error) *Error {
	return &Error{Kind: KindDependency, Message: msg, cause: cause}
}

// Status returns the HTTP status for an application error. Unknown errors
// map to 500.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation, KindDuplicate:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// FromStore translates storage-layer errors into taxonomy members. Unique
// index violations become Duplicate so a racing write that loses to the
// constraint surfaces the same way as one caught by the pre-check.
func FromStore(err error, notFoundMsg, duplicateMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound(notFoundMsg)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Duplicate(duplicateMsg)
	default:
		return Dependency("database error", err)
	}
}

// IsKind reports whether err is an application error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}
