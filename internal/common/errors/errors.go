// Package errors provides the client's standardized error taxonomy.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Non-success HTTP status from the notification service.
	ErrCodeTransport ErrorCode = "TRANSPORT_ERROR"
	// Raised before any network call; attributable to one argument position.
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	// Well-formed response whose ok flag is false.
	ErrCodeServerRejected ErrorCode = "SERVER_REJECTED"
	// A required identifier or input is absent.
	ErrCodeMissingPrecondition ErrorCode = "MISSING_PRECONDITION"

	ErrCodeSchemaNotFound       ErrorCode = "SCHEMA_NOT_FOUND"
	ErrCodeNotificationNotFound ErrorCode = "NOTIFICATION_NOT_FOUND"
	ErrCodeDecodeFailed         ErrorCode = "DECODE_FAILED"
	ErrCodeStaleResponse        ErrorCode = "STALE_RESPONSE"
	ErrCodeInternal             ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured client error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata returns e after attaching key/value to its metadata.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// NewTransportError reports a non-success HTTP status. The user-facing message
// always carries the status code.
func NewTransportError(endpoint string, status int) *StandardError {
	return &StandardError{
		Code:      ErrCodeTransport,
		Message:   fmt.Sprintf("Request failed with HTTP status %d", status),
		Details:   fmt.Sprintf("endpoint: %s", endpoint),
		Retryable: true,
		Metadata:  map[string]interface{}{"status": status, "endpoint": endpoint},
		Timestamp: time.Now().UTC(),
	}
}

// NewRequestFailedError reports a request that never produced a response.
func NewRequestFailedError(endpoint string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTransport,
		Message:   "Request to notification service failed",
		Details:   fmt.Sprintf("endpoint: %s, error: %s", endpoint, err.Error()),
		Retryable: true,
		Metadata:  map[string]interface{}{"endpoint": endpoint},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewValidationFailedError reports the first invalid argument position.
func NewValidationFailedError(position int, label, message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   message,
		Details:   fmt.Sprintf("position: %d, label: %s", position, label),
		Retryable: false,
		Metadata:  map[string]interface{}{"position": position, "label": label},
		Timestamp: time.Now().UTC(),
	}
}

// NewServerRejectedError carries the server message verbatim.
func NewServerRejectedError(operation, message string) *StandardError {
	if message == "" {
		message = "The server rejected the request"
	}
	return &StandardError{
		Code:      ErrCodeServerRejected,
		Message:   message,
		Details:   fmt.Sprintf("operation: %s", operation),
		Retryable: false,
		Metadata:  map[string]interface{}{"operation": operation},
		Timestamp: time.Now().UTC(),
	}
}

func NewMissingPreconditionError(what string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingPrecondition,
		Message:   fmt.Sprintf("Missing required %s", what),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewSchemaNotFoundError(typeID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSchemaNotFound,
		Message:   fmt.Sprintf("Unknown notification type %q", typeID),
		Details:   fmt.Sprintf("typeId: %s", typeID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewNotificationNotFoundError(uuid string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationNotFound,
		Message:   "Notification not found",
		Details:   fmt.Sprintf("uuid: %s", uuid),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewDecodeFailedError(endpoint string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDecodeFailed,
		Message:   "Unexpected response from notification service",
		Details:   fmt.Sprintf("endpoint: %s, error: %s", endpoint, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewStaleResponseError(seq, latest uint64) *StandardError {
	return &StandardError{
		Code:      ErrCodeStaleResponse,
		Message:   "Response superseded by a newer request",
		Details:   fmt.Sprintf("sequence: %d, latest: %d", seq, latest),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// CodeOf returns the code of the first StandardError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
