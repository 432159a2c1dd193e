package errors

import (
	"errors"
	"fmt"
)

// Domain errors - Sentinel errors for use with errors.Is()
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrBadRequest         = errors.New("bad request")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("validation error")
	ErrInvalidInput       = errors.New("invalid input")
	ErrStoreFailure       = errors.New("content store request failed")
	ErrMediaStoreFailure  = errors.New("media store request failed")
	ErrBulkActionFailed   = errors.New("bulk action failed")
	ErrMaxDepthReached    = errors.New("maximum folder depth reached")
)

// Custom error type with context
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Constructors
func NotFound(msg string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: msg, Err: ErrNotFound}
}

func Unauthorized(msg string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: msg, Err: ErrUnauthorized}
}

func BadRequest(msg string) *AppError {
	return &AppError{Code: "BAD_REQUEST", Message: msg, Err: ErrBadRequest}
}

func InvalidCredentials(msg string) *AppError {
	return &AppError{Code: "INVALID_CREDENTIALS", Message: msg, Err: ErrInvalidCredentials}
}

func Validation(msg string) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Message: msg, Err: ErrValidation}
}

func StoreFailure(msg string, err error) *AppError {
	return &AppError{Code: "STORE_FAILURE", Message: msg, Err: errors.Join(ErrStoreFailure, err)}
}

func MediaStoreFailure(msg string, err error) *AppError {
	return &AppError{Code: "MEDIA_STORE_FAILURE", Message: msg, Err: errors.Join(ErrMediaStoreFailure, err)}
}

func MaxDepthReached(msg string) *AppError {
	return &AppError{Code: "MAX_DEPTH_REACHED", Message: msg, Err: ErrMaxDepthReached}
}
