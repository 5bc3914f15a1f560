package errors

import (
	"fmt"

	"gorisk/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid        = "CONFIG_INVALID"
	CodeInvalidInput         = "INVALID_INPUT"
	CodeDivisionUndefined    = "DIVISION_UNDEFINED"
	CodeSourceUnavailable    = "SOURCE_UNAVAILABLE"
	CodeDeterminismViolation = "DETERMINISM_VIOLATION"
	CodeNotFound             = "NOT_FOUND"
	CodeInternalError        = "INTERNAL_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func DivisionUndefined(message string) *AppError {
	return New(CodeDivisionUndefined, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func SourceUnavailable(source string, cause error) *AppError {
	return &AppError{
		Code:    CodeSourceUnavailable,
		Message: fmt.Sprintf("trial source %s unavailable", source),
		Cause:   cause,
	}
}

// FromDomain classifies a domain error into an AppError. The cause chain is
// preserved, so errors.Is against the core sentinels keeps working.
func FromDomain(err error) *AppError {
	switch {
	case err == nil:
		return nil
	case core.IsInvalidArgument(err):
		return &AppError{Code: CodeInvalidInput, Message: "invalid input", Cause: err}
	case core.IsDivisionUndefined(err):
		return &AppError{Code: CodeDivisionUndefined, Message: "statistic undefined for these inputs", Cause: err}
	case core.IsDeterminismError(err):
		return &AppError{Code: CodeDeterminismViolation, Message: "deterministic replay failed", Cause: err}
	default:
		if appErr, ok := err.(*AppError); ok {
			return appErr
		}
		return &AppError{Code: CodeInternalError, Message: "internal error", Cause: err}
	}
}
