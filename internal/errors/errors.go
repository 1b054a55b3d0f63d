package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of client error.
type ErrorCode string

const (
	// ErrCodeNetwork indicates the transport failed before a usable response arrived.
	ErrCodeNetwork ErrorCode = "network"
	// ErrCodeTimeout indicates the transport gave up waiting. Timeouts are network errors.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeAuthRejected indicates the server declined credentials or the verification code.
	ErrCodeAuthRejected ErrorCode = "auth_rejected"
	// ErrCodeUnauthenticated indicates the session token is missing or has expired.
	ErrCodeUnauthenticated ErrorCode = "unauthenticated"
	// ErrCodeRemote indicates the server answered with a non-success envelope code.
	ErrCodeRemote ErrorCode = "remote"
	// ErrCodeDeserialization indicates stored or received text is not valid JSON.
	ErrCodeDeserialization ErrorCode = "deserialization"
	// ErrCodeStorageUnavailable indicates the storage medium for a scope is absent.
	ErrCodeStorageUnavailable ErrorCode = "storage_unavailable"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeInternal indicates an unexpected client-side failure.
	ErrCodeInternal ErrorCode = "internal"
	// ErrCodeCanceled indicates the operation was canceled by the caller.
	ErrCodeCanceled ErrorCode = "canceled"
)

// AppError represents a structured client error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
	// Status carries the HTTP status or envelope code reported by the server, when known.
	Status int
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

func newError(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Network creates a new Network error.
func Network(message string) *AppError { return newError(ErrCodeNetwork, message) }

// Networkf creates a new Network error with formatted message.
func Networkf(format string, args ...any) *AppError {
	return newError(ErrCodeNetwork, fmt.Sprintf(format, args...))
}

// Timeout creates a new Timeout error.
func Timeout(message string) *AppError { return newError(ErrCodeTimeout, message) }

// AuthRejected creates a new AuthRejected error.
func AuthRejected(message string) *AppError { return newError(ErrCodeAuthRejected, message) }

// Unauthenticated creates a new Unauthenticated error.
func Unauthenticated(message string) *AppError { return newError(ErrCodeUnauthenticated, message) }

// Remote creates a new Remote error carrying the server-reported code.
func Remote(status int, message string) *AppError {
	return &AppError{Code: ErrCodeRemote, Message: message, Status: status}
}

// Deserialization creates a new Deserialization error.
func Deserialization(message string) *AppError { return newError(ErrCodeDeserialization, message) }

// StorageUnavailable creates a new StorageUnavailable error.
func StorageUnavailable(message string) *AppError {
	return newError(ErrCodeStorageUnavailable, message)
}

// StorageUnavailablef creates a new StorageUnavailable error with formatted message.
func StorageUnavailablef(format string, args ...any) *AppError {
	return newError(ErrCodeStorageUnavailable, fmt.Sprintf(format, args...))
}

// Validation creates a new Validation error.
func Validation(message string) *AppError { return newError(ErrCodeValidation, message) }

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
		Field:   field,
	}
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError { return newError(ErrCodeNotFound, message) }

// Internal creates a new Internal error.
func Internal(message string) *AppError { return newError(ErrCodeInternal, message) }

// Internalf creates a new Internal error with formatted message.
func Internalf(format string, args ...any) *AppError {
	return newError(ErrCodeInternal, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsNetwork reports whether err is a transport failure. Timeouts count as network failures.
func IsNetwork(err error) bool {
	return isCode(err, ErrCodeNetwork) || isCode(err, ErrCodeTimeout)
}

// IsTimeout checks if an error is a Timeout error.
func IsTimeout(err error) bool { return isCode(err, ErrCodeTimeout) }

// IsAuthRejected checks if an error is an AuthRejected error.
func IsAuthRejected(err error) bool { return isCode(err, ErrCodeAuthRejected) }

// IsUnauthenticated checks if an error is an Unauthenticated error.
func IsUnauthenticated(err error) bool { return isCode(err, ErrCodeUnauthenticated) }

// IsRemote checks if an error is a Remote error.
func IsRemote(err error) bool { return isCode(err, ErrCodeRemote) }

// IsDeserialization checks if an error is a Deserialization error.
func IsDeserialization(err error) bool { return isCode(err, ErrCodeDeserialization) }

// IsStorageUnavailable checks if an error is a StorageUnavailable error.
func IsStorageUnavailable(err error) bool { return isCode(err, ErrCodeStorageUnavailable) }

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool { return isCode(err, ErrCodeValidation) }

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool { return isCode(err, ErrCodeNotFound) }

// IsInternal checks if an error is an Internal error.
func IsInternal(err error) bool { return isCode(err, ErrCodeInternal) }

// IsCanceled checks if an error is a Canceled error.
func IsCanceled(err error) bool { return isCode(err, ErrCodeCanceled) }

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}

// GetStatus returns the server-reported status from an error, or 0 when none was recorded.
func GetStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return 0
}
