package utils

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map them to HTTP status codes through RespondAppError.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrInternal     = errors.New("internal server error")
)

// AppError carries one of the kinds above, a short client-facing message
// and optionally the underlying cause.
type AppError struct {
	Kind    error
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Is(target error) bool {
	return target == e.Kind
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Unauthorized(msg string) *AppError {
	return &AppError{Kind: ErrUnauthorized, Message: msg}
}

func Validation(msg string) *AppError {
	return &AppError{Kind: ErrValidation, Message: msg}
}

func NotFound(msg string) *AppError {
	return &AppError{Kind: ErrNotFound, Message: msg}
}

// Internal wraps a store failure. The cause is logged, never sent to the client.
func Internal(msg string, err error) *AppError {
	return &AppError{Kind: ErrInternal, Message: msg, Err: err}
}
