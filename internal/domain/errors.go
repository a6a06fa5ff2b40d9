package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific kind of failure in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// Validation errors
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Provider errors
	CodeProviderError   ErrorCode = "PROVIDER_ERROR"
	CodeProviderTimeout ErrorCode = "PROVIDER_TIMEOUT"
	CodeEvaluationParse ErrorCode = "EVALUATION_PARSE_ERROR"

	// Quiz state errors
	CodeNoActiveQuiz     ErrorCode = "NO_ACTIVE_QUIZ"
	CodeInsufficientPool ErrorCode = "INSUFFICIENT_POOL"

	// Persistence errors
	CodeStorage ErrorCode = "STORAGE_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// WithContext attaches a key/value pair that is surfaced in error responses.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf returns the ErrorCode carried by err, or CodeInternal when err is not a DomainError.
func CodeOf(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}

// IsCode reports whether err is a DomainError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewProviderError(provider string, err error) *DomainError {
	return NewError(CodeProviderError, fmt.Sprintf("%s provider call failed", provider), err).
		WithContext("provider", provider)
}

func NewProviderTimeoutError(provider string, err error) *DomainError {
	return NewError(CodeProviderTimeout, fmt.Sprintf("%s provider timed out", provider), err).
		WithContext("provider", provider)
}

func NewEvaluationParseError(raw string, err error) *DomainError {
	return NewError(CodeEvaluationParse, "rubric response is not valid JSON", err).
		WithContext("raw_length", len(raw))
}

func NewNoActiveQuizError() *DomainError {
	return NewError(CodeNoActiveQuiz, "No active quiz found. Please start a new quiz.", nil)
}

func NewInsufficientPoolError(requested, available int) *DomainError {
	return NewError(CodeInsufficientPool,
		fmt.Sprintf("requested %d questions but only %d are available", requested, available), nil).
		WithContext("requested", requested).
		WithContext("available", available)
}

func NewStorageError(message string, err error) *DomainError {
	return NewError(CodeStorage, message, err)
}

// ValidationError describes a single invalid request field.
type ValidationError struct {
	Code    ErrorCode   `json:"code"`
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects field-level validation failures.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	if len(v) == 1 {
		return v[0].Error()
	}
	return fmt.Sprintf("%s (and %d more)", v[0].Error(), len(v)-1)
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Code: CodeMissingField, Field: field, Message: "field is required"}
}

func NewInvalidFormatError(field string, value interface{}) ValidationError {
	return ValidationError{Code: CodeInvalidFormat, Field: field, Message: "field has an invalid format", Value: value}
}

func NewOutOfRangeError(field string, value interface{}, min, max int) ValidationError {
	return ValidationError{
		Code:    CodeOutOfRange,
		Field:   field,
		Message: fmt.Sprintf("value must be between %d and %d", min, max),
		Value:   value,
	}
}
