package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeBackend represents completion backend failures
	ErrorTypeBackend ErrorType = "backend"
	// ErrorTypeClassification represents unusable classifier output
	ErrorTypeClassification ErrorType = "classification"
	// ErrorTypePlatform represents rejected chat platform calls
	ErrorTypePlatform ErrorType = "platform"
	// ErrorTypePersistence represents document store read/write failures
	ErrorTypePersistence ErrorType = "persistence"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeContext represents context cancellation/timeout errors
	ErrorTypeContext ErrorType = "context"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// Kind returns the error category. It is promoted to every typed error below.
func (e *BaseError) Kind() ErrorType {
	return e.Type
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Backend Errors

// ErrBackend is returned when the completion backend fails or answers in an unexpected shape
type ErrBackend struct {
	*BaseError
	Backend    string
	StatusCode int
}

func NewBackendError(backend string, statusCode int, err error) *ErrBackend {
	return &ErrBackend{
		BaseError:  NewBaseError(ErrorTypeBackend, fmt.Sprintf("%s request failed", backend), err),
		Backend:    backend,
		StatusCode: statusCode,
	}
}

func NewBackendUnexpectedResponse(backend, detail string) *ErrBackend {
	return &ErrBackend{
		BaseError: NewBaseError(ErrorTypeBackend, fmt.Sprintf("unexpected %s response: %s", backend, detail), nil),
		Backend:   backend,
	}
}

// Classification Errors

// ErrClassification describes classifier output that could not be used. Classifiers
// log it and collapse to their default intent; it never reaches a caller.
type ErrClassification struct {
	*BaseError
	Classifier string
}

func NewClassificationError(classifier, reason string, err error) *ErrClassification {
	return &ErrClassification{
		BaseError:  NewBaseError(ErrorTypeClassification, fmt.Sprintf("%s: %s", classifier, reason), err),
		Classifier: classifier,
	}
}

// Platform Errors

// ErrPlatform is returned when a chat platform call is rejected
type ErrPlatform struct {
	*BaseError
	Operation string
}

func NewPlatformError(operation string, err error) *ErrPlatform {
	return &ErrPlatform{
		BaseError: NewBaseError(ErrorTypePlatform, fmt.Sprintf("%s failed", operation), err),
		Operation: operation,
	}
}

// ErrPlatformSessionUnavailable is returned when the Discord session is not available
var ErrPlatformSessionUnavailable = NewBaseError(ErrorTypePlatform, "Discord session not available", nil)

// Persistence Errors

// ErrPersistence is returned when a document cannot be read or written
type ErrPersistence struct {
	*BaseError
	Document  string
	Operation string
}

func NewPersistenceError(document, operation string, err error) *ErrPersistence {
	return &ErrPersistence{
		BaseError: NewBaseError(ErrorTypePersistence, fmt.Sprintf("%s %s", operation, document), err),
		Document:  document,
		Operation: operation,
	}
}

// Context Errors

// ErrContextCancelled is returned when context is cancelled
type ErrContextCancelled struct {
	*BaseError
	Operation string
}

func NewContextCancelled(operation string, err error) *ErrContextCancelled {
	return &ErrContextCancelled{
		BaseError: NewBaseError(ErrorTypeContext, fmt.Sprintf("context cancelled: %s", operation), err),
		Operation: operation,
	}
}

// Config Errors

// ErrConfigValidationFailed is returned when configuration validation fails
type ErrConfigValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewConfigValidationFailed(field, reason string) *ErrConfigValidationFailed {
	return &ErrConfigValidationFailed{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("config validation failed: %s - %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

// IsErrorType reports whether any error in err's chain carries errType
func IsErrorType(err error, errType ErrorType) bool {
	for err != nil {
		if typed, ok := err.(interface{ Kind() ErrorType }); ok && typed.Kind() == errType {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
