package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for costgraph errors.
type ErrorCode string

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// Graph store error codes
const (
	GRAPH_CONNECTION_FAILED ErrorCode = "GRAPH_CONNECTION_FAILED"
	GRAPH_CONNECTION_CLOSED ErrorCode = "GRAPH_CONNECTION_CLOSED"
	GRAPH_QUERY_FAILED      ErrorCode = "GRAPH_QUERY_FAILED"
	GRAPH_WRITE_FAILED      ErrorCode = "GRAPH_WRITE_FAILED"
	GRAPH_INVALID_CONFIG    ErrorCode = "GRAPH_INVALID_CONFIG"
)

// Schema error codes
const (
	SCHEMA_SETUP_FAILED  ErrorCode = "SCHEMA_SETUP_FAILED"
	SCHEMA_RESET_REFUSED ErrorCode = "SCHEMA_RESET_REFUSED"
	SCHEMA_RESET_FAILED  ErrorCode = "SCHEMA_RESET_FAILED"
)

// Ingestion error codes
const (
	INGEST_ROW_INVALID ErrorCode = "INGEST_ROW_INVALID"
	INGEST_ROW_FAILED  ErrorCode = "INGEST_ROW_FAILED"
	INGEST_SEED_FAILED ErrorCode = "INGEST_SEED_FAILED"
	INGEST_LOAD_FAILED ErrorCode = "INGEST_LOAD_FAILED"
)

// Embedding and generation error codes
const (
	EMBED_FAILED         ErrorCode = "EMBED_FAILED"
	EMBED_WRITE_FAILED   ErrorCode = "EMBED_WRITE_FAILED"
	GENERATION_FAILED    ErrorCode = "GENERATION_FAILED"
	PROVIDER_AUTH_FAILED ErrorCode = "PROVIDER_AUTH_FAILED"
	PROVIDER_UNAVAILABLE ErrorCode = "PROVIDER_UNAVAILABLE"
)

// CostGraphError represents a structured error with error code, message, and
// optional cause. It supports error wrapping and retryability hints.
type CostGraphError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface, returning a formatted error message.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *CostGraphError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping chains.
func (e *CostGraphError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error by error code.
func (e *CostGraphError) Is(target error) bool {
	var cgErr *CostGraphError
	if errors.As(target, &cgErr) {
		return e.Code == cgErr.Code
	}
	return false
}

// NewError creates a new non-retryable CostGraphError with the given code and message.
func NewError(code ErrorCode, message string) *CostGraphError {
	return &CostGraphError{
		Code:    code,
		Message: message,
	}
}

// NewRetryableError creates a new retryable CostGraphError.
// Use this for transient errors that may succeed on retry.
func NewRetryableError(code ErrorCode, message string) *CostGraphError {
	return &CostGraphError{
		Code:      code,
		Message:   message,
		Retryable: true,
	}
}

// WrapError creates a new non-retryable CostGraphError that wraps an existing error.
// The wrapped error is accessible via Unwrap() for error chain inspection.
func WrapError(code ErrorCode, message string, cause error) *CostGraphError {
	return &CostGraphError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
