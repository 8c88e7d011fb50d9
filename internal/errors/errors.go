package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind classifies a business-rule failure. The HTTP layer maps each kind to a
// transport status; the services never return raw transport codes.
type Kind string

const (
	KindNotFound          Kind = "NOT_FOUND"
	KindForbidden         Kind = "FORBIDDEN"
	KindUnauthenticated   Kind = "UNAUTHENTICATED"
	KindDuplicateIdentity Kind = "DUPLICATE_IDENTITY"
	KindInvalidState      Kind = "INVALID_STATE"
	KindExpiredOrInvalid  Kind = "EXPIRED_OR_INVALID"
	KindInvalidInput      Kind = "INVALID_INPUT"
	KindRoleNotSeeded     Kind = "ROLE_NOT_SEEDED"
	KindInternal          Kind = "INTERNAL_ERROR"
)

// Error is a tagged business failure surfaced at the operation boundary.
type Error struct {
	Kind    Kind   `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, fmt.Sprintf(format, args...))
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

func Unauthenticated(message string) *Error {
	return New(KindUnauthenticated, message)
}

func DuplicateIdentity(message string) *Error {
	return New(KindDuplicateIdentity, message)
}

func InvalidState(message string) *Error {
	return New(KindInvalidState, message)
}

func ExpiredOrInvalid(message string) *Error {
	return New(KindExpiredOrInvalid, message)
}

func InvalidInput(message string) *Error {
	return New(KindInvalidInput, message)
}

// RoleNotSeeded marks missing reference data. It is a configuration fault,
// not a user-actionable error.
func RoleNotSeeded(name string) *Error {
	return New(KindRoleNotSeeded, fmt.Sprintf("role %s is not seeded", name))
}

// IsKind reports whether err is a tagged Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// statusFor maps an error kind to an HTTP status.
func statusFor(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindDuplicateIdentity:
		return http.StatusConflict
	case KindInvalidState, KindExpiredOrInvalid, KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes err as a JSON error response. Untagged errors are reported
// as opaque internal errors so wrapped storage failures never leak.
func Respond(c *gin.Context, err error) {
	var e *Error
	if !errors.As(err, &e) {
		e = New(KindInternal, "internal server error")
	}
	c.JSON(statusFor(e.Kind), e)
}

// AbortWith writes err and stops the handler chain. Used by middlewares.
func AbortWith(c *gin.Context, err error) {
	Respond(c, err)
	c.Abort()
}

// BadRequest writes a 400 with the given message.
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "invalid request"
	}
	c.JSON(http.StatusBadRequest, New(KindInvalidInput, message))
}
