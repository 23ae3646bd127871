// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	ErrCodeUnparseableText ErrorCode = "UNPARSEABLE_TEXT"
	ErrCodeSchemaMismatch  ErrorCode = "SCHEMA_MISMATCH"
	ErrCodeInvalidFallback ErrorCode = "INVALID_FALLBACK"

	ErrCodeGenerationFailed      ErrorCode = "GENERATION_FAILED"
	ErrCodeGenerationTimeout     ErrorCode = "GENERATION_TIMEOUT"
	ErrCodeRateLimited           ErrorCode = "RATE_LIMITED"
	ErrCodeEmptyResponse         ErrorCode = "EMPTY_RESPONSE"
	ErrCodeProviderNotConfigured ErrorCode = "PROVIDER_NOT_CONFIGURED"
	ErrCodeCacheUnavailable      ErrorCode = "CACHE_UNAVAILABLE"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"

	ErrCodeCatalogInvalid    ErrorCode = "CATALOG_INVALID"
	ErrCodeBrokerUnavailable ErrorCode = "BROKER_UNAVAILABLE"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Cause     error                  `json:"-"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a StandardError with the same code, so
// package-level sentinels match any error built from the same code.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	return ok && t.Code == e.Code
}

// Sentinel returns a bare error usable as an errors.Is target.
func Sentinel(code ErrorCode, message string) *StandardError {
	return &StandardError{Code: code, Message: message}
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewInvalidInputError creates a non-retryable input validation error.
func NewInvalidInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Flow input failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnparseableTextError wraps a decode failure of model text.
func NewUnparseableTextError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnparseableText,
		Message:   "text was not valid JSON even after normalization",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewSchemaMismatchError reports which fields failed schema validation.
func NewSchemaMismatchError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSchemaMismatch,
		Message:   "parsed JSON did not match the expected shape",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidFallbackError is raised when a deterministic fallback does not
// satisfy its own schema. It is a programming error, never retried.
func NewInvalidFallbackError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidFallback,
		Message:   "fallback value does not satisfy its schema",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationFailedError creates a retryable provider error.
func NewGenerationFailedError(provider string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationFailed,
		Message:   "Text generation failed",
		Details:   fmt.Sprintf("provider: %s, error: %s", provider, err.Error()),
		Retryable: true,
		Metadata:  map[string]interface{}{"provider": provider},
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewGenerationTimeoutError creates a retryable timeout error.
func NewGenerationTimeoutError(provider string) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationTimeout,
		Message:   "Text generation timeout",
		Details:   fmt.Sprintf("provider: %s", provider),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRateLimitedError marks a provider error as rate-limit class.
func NewRateLimitedError(provider string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRateLimited,
		Message:   "Provider rate limit reached",
		Details:   fmt.Sprintf("provider: %s, error: %s", provider, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewEmptyResponseError reports a provider that answered with blank text.
func NewEmptyResponseError(provider string, cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptyResponse,
		Message:   fmt.Sprintf("%s model returned an empty response", provider),
		Retryable: true,
		Metadata:  map[string]interface{}{"provider": provider},
		Timestamp: time.Now().UTC(),
		Cause:     cause,
	}
}

// NewProviderNotConfiguredError creates a non-retryable configuration error.
func NewProviderNotConfiguredError(role string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderNotConfigured,
		Message:   fmt.Sprintf("%s model not configured", role),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheUnavailableError creates a retryable cache connection error.
func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Generation cache unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsertFailed,
		Message:   "Database insert operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewCatalogInvalidError creates a non-retryable flow catalog error.
func NewCatalogInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogInvalid,
		Message:   "Flow catalog is invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewBrokerUnavailableError creates a retryable job-broker transport error.
func NewBrokerUnavailableError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeBrokerUnavailable,
		Message:   "Job broker unavailable",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidInput:             "INVALID_INPUT",
	ErrCodeUnparseableText:          "UNPARSEABLE_TEXT",
	ErrCodeSchemaMismatch:           "SCHEMA_MISMATCH",
	ErrCodeInvalidFallback:          "INVALID_FALLBACK",
	ErrCodeGenerationFailed:         "GENERATION_FAILED",
	ErrCodeGenerationTimeout:        "GENERATION_TIMEOUT",
	ErrCodeRateLimited:              "RATE_LIMITED",
	ErrCodeEmptyResponse:            "EMPTY_RESPONSE",
	ErrCodeProviderNotConfigured:    "PROVIDER_NOT_CONFIGURED",
	ErrCodeCacheUnavailable:         "CACHE_UNAVAILABLE",
	ErrCodeDatabaseConnectionFailed: "DATABASE_CONNECTION_FAILED",
	ErrCodeDatabaseInsertFailed:     "DATABASE_INSERT_FAILED",
	ErrCodeQueryExecutionFailed:     "QUERY_EXECUTION_FAILED",
	ErrCodeCatalogInvalid:           "CATALOG_INVALID",
	ErrCodeBrokerUnavailable:        "BROKER_UNAVAILABLE",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeGenerationFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeBrokerUnavailable:
		return 3
	case ErrCodeRateLimited,
		ErrCodeGenerationTimeout:
		return 2
	case ErrCodeEmptyResponse,
		ErrCodeCacheUnavailable:
		return 1
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "UNPARSEABLE") || strings.Contains(codeStr, "SCHEMA") || strings.Contains(codeStr, "FALLBACK"):
		return "RESOLUTION"
	case strings.Contains(codeStr, "GENERATION") || strings.Contains(codeStr, "RATE") ||
		strings.Contains(codeStr, "EMPTY") || strings.Contains(codeStr, "PROVIDER"):
		return "AI"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY") || strings.Contains(codeStr, "CACHE"):
		return "STORAGE"
	case strings.Contains(codeStr, "BROKER"):
		return "TRANSPORT"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "CATALOG"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
