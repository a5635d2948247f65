// Package apperror is the single error type crossing service and handler
// boundaries. The HTTP status is derived from the Kind and nothing else.
package apperror

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindTooManyRequests
)

type Code string

const (
	CodeAccessUnauthorized  Code = "ACCESS_UNAUTHORIZED"
	CodeEmailAlreadyExists  Code = "AUTH_EMAIL_ALREADY_EXISTS"
	CodeInvalidToken        Code = "AUTH_INVALID_TOKEN"
	CodeUserNotFound        Code = "AUTH_USER_NOT_FOUND"
	CodeAuthNotFound        Code = "AUTH_NOT_FOUND"
	CodeTooManyAttempts     Code = "AUTH_TOO_MANY_ATTEMPTS"
	CodeUnauthorizedAccess  Code = "AUTH_UNAUTHORIZED_ACCESS"
	CodeValidation          Code = "VALIDATION_ERROR"
	CodeResourceNotFound    Code = "RESOURCE_NOT_FOUND"
	CodeInternalServerError Code = "INTERNAL_SERVER_ERROR"
	CodeBadRequest          Code = "BAD_REQUEST"
	CodeInvalidJSON         Code = "INVALID_JSON"
)

type Error struct {
	Kind    Kind
	Message string
	Code    Code
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// WithCode returns a copy of e carrying code.
func (e *Error) WithCode(code Code) *Error {
	cp := *e
	cp.Code = code
	return &cp
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message, Code: CodeValidation}
}

func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message, Code: CodeBadRequest}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message, Code: CodeAccessUnauthorized}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message, Code: CodeAccessUnauthorized}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message, Code: CodeResourceNotFound}
}

func TooManyRequests(message string) *Error {
	return &Error{Kind: KindTooManyRequests, Message: message, Code: CodeTooManyAttempts}
}

// Internal wraps an unexpected failure. The message is never shown to
// clients.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Code: CodeInternalServerError, Err: err}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err's chain holds an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}
