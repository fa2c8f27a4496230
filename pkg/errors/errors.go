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
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"
	ErrAborted       ErrorCode = "ABORTED"

	// Configuration errors
	ErrConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrConfigParse   ErrorCode = "CONFIG_PARSE"
	ErrConfigValid   ErrorCode = "CONFIG_INVALID"
	ErrBranchMissing ErrorCode = "BRANCH_MISSING"

	// Synchronization errors
	ErrSyncDiverged ErrorCode = "SYNC_DIVERGED"
	ErrGitCommand   ErrorCode = "GIT_COMMAND"
	ErrRemoteAPI    ErrorCode = "REMOTE_API"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// DotlifeError represents a structured error with code and details
type DotlifeError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DotlifeError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DotlifeError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *DotlifeError) Is(target error) bool {
	var targetErr *DotlifeError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new DotlifeError with the given code and message
func New(code ErrorCode, message string) *DotlifeError {
	return &DotlifeError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DotlifeError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DotlifeError {
	return &DotlifeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a DotlifeError
func Wrap(err error, code ErrorCode, message string) *DotlifeError {
	if err == nil {
		return nil
	}
	return &DotlifeError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DotlifeError {
	if err == nil {
		return nil
	}
	return &DotlifeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *DotlifeError) WithDetail(key string, value interface{}) *DotlifeError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsCode checks if an error carries the given code
func IsCode(err error, code ErrorCode) bool {
	var de *DotlifeError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}
