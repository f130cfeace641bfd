package apperror

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies an error so callers can branch without matching on
// message strings.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuthentication
	KindAuthorization
	KindConflict
	KindNotFound
	KindTransient
	KindInternal
)

// Error is the tagged error carried from the service layer up to the HTTP
// handlers. Code is a stable, machine-readable identifier for client UX
// (e.g. distinguishing an expired token from a malformed one even though
// both map to 401).
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap attaches an underlying cause, keeping kind/code/message.
func (e *Error) Wrap(err error) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: e.Message, Err: err}
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Validation returns a 400-class error (malformed or insufficient input).
func Validation(code, message string) *Error {
	return newError(KindValidation, code, message)
}

// Authentication returns a 401-class error (identity could not be
// established or credential invalid/expired/revoked).
func Authentication(code, message string) *Error {
	return newError(KindAuthentication, code, message)
}

// Authorization returns a 403-class error (identity established but
// insufficient privilege).
func Authorization(code, message string) *Error {
	return newError(KindAuthorization, code, message)
}

// Conflict returns a 409-class error (uniqueness violation).
func Conflict(code, message string) *Error {
	return newError(KindConflict, code, message)
}

// NotFound returns a 404-class error.
func NotFound(code, message string) *Error {
	return newError(KindNotFound, code, message)
}

// Transient returns a 502-class error (downstream timeout or
// unavailability, eligible for retry by the caller).
func Transient(code, message string) *Error {
	return newError(KindTransient, code, message)
}

// Internal returns a 500-class error.
func Internal(message string) *Error {
	return newError(KindInternal, "INTERNAL_ERROR", message)
}

// KindOf returns the kind of err, or KindInternal for untagged errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// CodeOf returns the stable code of err, or "INTERNAL_ERROR" when untagged.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return "INTERNAL_ERROR"
}

// MessageOf returns the user-facing message of err. Untagged errors get a
// generic message so internals never leak to clients.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error"
}

// StatusOf maps an error kind to its HTTP status code.
func StatusOf(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindAuthentication:
		return fiber.StatusUnauthorized
	case KindAuthorization:
		return fiber.StatusForbidden
	case KindConflict:
		return fiber.StatusConflict
	case KindNotFound:
		return fiber.StatusNotFound
	case KindTransient:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
