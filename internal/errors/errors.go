package errors

import (
	"fmt"
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
	CodeMissingRequiredInput = "MISSING_REQUIRED_INPUT"
	CodeInvalidConfiguration = "INVALID_CONFIGURATION"
	CodeUnparseableDate      = "UNPARSEABLE_DATE"
	CodeInsufficientSamples  = "INSUFFICIENT_SAMPLES"
	CodeReadError            = "READ_ERROR"
	CodeWriteError           = "WRITE_ERROR"
	CodeInternalError        = "INTERNAL_ERROR"
	CodeInvalidInput         = "INVALID_INPUT"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func MissingRequiredInput(table string) *AppError {
	return New(CodeMissingRequiredInput, fmt.Sprintf("%s table is required", table))
}

func InvalidConfiguration(message string) *AppError {
	return New(CodeInvalidConfiguration, message)
}

func ReadError(source string, cause error) *AppError {
	return &AppError{
		Code:    CodeReadError,
		Message: fmt.Sprintf("failed to read %s", source),
		Cause:   cause,
	}
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// HTTPStatus maps an error code to an HTTP response status.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case CodeMissingRequiredInput, CodeInvalidInput, CodeInvalidConfiguration, CodeUnparseableDate:
		return 400
	case CodeInsufficientSamples:
		return 422
	case CodeReadError:
		return 404
	default:
		return 500
	}
}
