package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardError_IsMatchesByCode(t *testing.T) {
	sentinel := Sentinel(ErrCodeSchemaMismatch, "shape mismatch")
	err := NewSchemaMismatchError("overview: is required")

	assert.True(t, stderrors.Is(err, sentinel))
	assert.True(t, stderrors.Is(fmt.Errorf("attempt 1: %w", err), sentinel))
	assert.False(t, stderrors.Is(err, Sentinel(ErrCodeUnparseableText, "")))
}

func TestStandardError_UnwrapsCause(t *testing.T) {
	cause := stderrors.New("unexpected end of JSON input")
	err := NewUnparseableTextError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "UNPARSEABLE_TEXT")
	assert.Contains(t, err.Error(), "unexpected end of JSON input")
}

func TestNormalize(t *testing.T) {
	wrapped := fmt.Errorf("flow: %w", NewRateLimitedError("gemini", stderrors.New("429")))
	assert.Equal(t, ErrCodeRateLimited, Normalize(wrapped).Code)

	plain := Normalize(stderrors.New("boom"))
	assert.Equal(t, ErrorCode("INTERNAL_ERROR"), plain.Code)
	assert.False(t, plain.Retryable)
}

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name            string
		err             *StandardError
		expectedCode    string
		expectedRetries int
	}{
		{"retryable generation failure", NewGenerationFailedError("openrouter", stderrors.New("502")), "GENERATION_FAILED", 3},
		{"rate limited", NewRateLimitedError("gemini", stderrors.New("429")), "RATE_LIMITED", 2},
		{"invalid input is thrown", NewInvalidInputError("issue is required"), "INVALID_INPUT", 0},
		{"invalid fallback is thrown", NewInvalidFallbackError("steps too short"), "INVALID_FALLBACK", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := ConvertToBPMNError(tt.err)
			require.NotNil(t, bpmn)
			assert.Equal(t, tt.expectedCode, bpmn.Code)
			assert.Equal(t, tt.expectedRetries, bpmn.Retries)

			vars := bpmn.ToErrorVariables()
			assert.Equal(t, string(tt.err.Code), vars["originalErrorCode"])
			assert.Equal(t, tt.err.Retryable, vars["retryable"])
		})
	}
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "RESOLUTION", GetErrorCategory(ErrCodeSchemaMismatch))
	assert.Equal(t, "RESOLUTION", GetErrorCategory(ErrCodeInvalidFallback))
	assert.Equal(t, "AI", GetErrorCategory(ErrCodeRateLimited))
	assert.Equal(t, "STORAGE", GetErrorCategory(ErrCodeDatabaseInsertFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidInput))
	assert.Equal(t, "OTHER", GetErrorCategory("SOMETHING_ELSE"))
}
