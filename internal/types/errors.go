package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for Strider framework errors.
type ErrorCode string

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
	CONFIG_NOT_FOUND         ErrorCode = "CONFIG_NOT_FOUND"
)

// Environment and action error codes
const (
	ACTION_INVALID    ErrorCode = "ACTION_INVALID"
	ENV_NOT_RESET     ErrorCode = "ENV_NOT_RESET"
	ENCODING_MISMATCH ErrorCode = "ENCODING_MISMATCH"
)

// Training error codes
const (
	TRAINING_BATCH_FAILED ErrorCode = "TRAINING_BATCH_FAILED"
	MODEL_SHAPE_MISMATCH  ErrorCode = "MODEL_SHAPE_MISMATCH"
)

// Checkpoint error codes
const (
	CHECKPOINT_WRITE_FAILED    ErrorCode = "CHECKPOINT_WRITE_FAILED"
	CHECKPOINT_READ_FAILED     ErrorCode = "CHECKPOINT_READ_FAILED"
	CHECKPOINT_DECODE_FAILED   ErrorCode = "CHECKPOINT_DECODE_FAILED"
	CHECKPOINT_VERSION_INVALID ErrorCode = "CHECKPOINT_VERSION_INVALID"
	CHECKPOINT_CORRUPT         ErrorCode = "CHECKPOINT_CORRUPT"
)

// StriderError represents a structured error with error code, message, and optional cause.
// It supports error wrapping and retryability hints for error handling logic.
type StriderError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface, returning a formatted error message.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *StriderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping chains.
func (e *StriderError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error by error code.
func (e *StriderError) Is(target error) bool {
	var striderErr *StriderError
	if errors.As(target, &striderErr) {
		return e.Code == striderErr.Code
	}
	return false
}

// NewError creates a new non-retryable StriderError with the given code and message.
func NewError(code ErrorCode, message string) *StriderError {
	return &StriderError{
		Code:    code,
		Message: message,
	}
}

// WrapError creates a new non-retryable StriderError that wraps an existing error.
// The wrapped error is accessible via Unwrap() for error chain inspection.
func WrapError(code ErrorCode, message string, cause error) *StriderError {
	return &StriderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
