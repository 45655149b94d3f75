package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Input validation errors
	ErrDuplicatePath   ErrorCode = "DUPLICATE_PATH"
	ErrPathEscape      ErrorCode = "PATH_ESCAPE"
	ErrContentsInvalid ErrorCode = "CONTENTS_INVALID"
	ErrSentinelMissing ErrorCode = "SENTINEL_MISSING"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// FileSystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrFileWrite  ErrorCode = "FILE_WRITE"
	ErrDirCreate  ErrorCode = "DIR_CREATE"

	// Text encoding errors
	ErrEncoding ErrorCode = "ENCODING"
)

// CpconfigError represents a structured error with code and details
type CpconfigError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *CpconfigError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *CpconfigError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *CpconfigError) Is(target error) bool {
	var targetErr *CpconfigError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new CpconfigError with the given code and message
func New(code ErrorCode, message string) *CpconfigError {
	return &CpconfigError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new CpconfigError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *CpconfigError {
	return &CpconfigError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a CpconfigError
func Wrap(err error, code ErrorCode, message string) *CpconfigError {
	if err == nil {
		return nil
	}
	return &CpconfigError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *CpconfigError {
	if err == nil {
		return nil
	}
	return &CpconfigError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *CpconfigError) WithDetail(key string, value interface{}) *CpconfigError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var cerr *CpconfigError
	if errors.As(err, &cerr) {
		return cerr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a CpconfigError
func GetErrorCode(err error) ErrorCode {
	var cerr *CpconfigError
	if errors.As(err, &cerr) {
		return cerr.Code
	}
	return ErrUnknown
}
