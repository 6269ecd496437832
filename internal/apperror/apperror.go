// Package apperror defines the error kinds shared by the service and
// repository layers. Handlers translate them to HTTP status codes; nothing
// below the handler layer knows about HTTP.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrConflict        = errors.New("conflict")
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidCredentials is the single outcome of a failed login. It is
	// also an ErrUnauthenticated.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
)

// Messages surfaced verbatim to clients.
const (
	MsgMissingFields      = "Please provide all required fields"
	MsgUserExists         = "User already exists"
	MsgInvalidCredentials = "Invalid credentials"
)

type AppError struct {
	Err     error  // kind, one of the sentinels above
	Message string // human-readable, safe to show to clients
	Field   string // optional: input field that caused the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// NotFoundMessage is NotFound with a caller-chosen message.
func NotFoundMessage(message string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: message,
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// MissingFields reports that one or more required inputs were empty.
func MissingFields(field string) *AppError {
	return ValidationFailed(field, MsgMissingFields)
}

func Conflict(field, message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
		Field:   field,
	}
}

// UserExists is the conflict returned when an email is already registered.
func UserExists() *AppError {
	return Conflict("email", MsgUserExists)
}

// Unauthenticated is returned when no valid session is present.
func Unauthenticated(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthenticated,
		Message: message,
	}
}

// InvalidCredentials is returned for both an unknown email and a wrong
// password so callers cannot tell which one failed.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: MsgInvalidCredentials,
	}
}
