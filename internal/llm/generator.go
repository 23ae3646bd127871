// Package llm talks to the hosted text-generation models used by the flows.
package llm

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"toolbox-ai/internal/common/errors"
)

// Request is one text-generation call.
type Request struct {
	System string
	Prompt string
	// MaxTokens overrides the provider budget when positive.
	MaxTokens int
	// SkipPrimary sends the request straight to the secondary model.
	SkipPrimary bool
}

// Generator returns raw model text for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Provider is a single hosted model.
type Provider interface {
	Name() string
	Complete(ctx context.Context, system, prompt string, maxTokens int) (string, error)
}

var (
	ErrFallbackNotConfigured = errors.Sentinel(errors.ErrCodeProviderNotConfigured, "Fallback model not configured")
	ErrEmptyResponse         = errors.Sentinel(errors.ErrCodeEmptyResponse, "model returned an empty response")

	errRateLimited = errors.Sentinel(errors.ErrCodeRateLimited, "provider rate limit reached")
)

// ProviderError describes a failed provider call.
type ProviderError struct {
	Provider     string
	StatusCode   int
	Message      string
	FinishReason string
	// MissingParts is set when the response carried no usable content.
	MissingParts bool
	Err          error
}

func (e *ProviderError) Error() string {
	var b strings.Builder
	b.WriteString(e.Provider)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.FinishReason != "" {
		fmt.Fprintf(&b, " [finishReason %s]", e.FinishReason)
	}
	return b.String()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

var fallbackPhrases = []string{
	"too many requests",
	"429",
	"resource_exhausted",
	"invalid json response",
	"type validation failed",
	"max_tokens",
}

// ShouldFallback reports whether a primary failure is one the secondary
// model may succeed on: rate limiting, unusable response bodies and
// responses cut off by the token budget.
func ShouldFallback(err error) bool {
	if err == nil {
		return false
	}

	if stderrors.Is(err, errRateLimited) {
		return true
	}

	var pe *ProviderError
	if stderrors.As(err, &pe) {
		if pe.StatusCode == 429 || pe.MissingParts || pe.FinishReason == "MAX_TOKENS" {
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	for _, phrase := range fallbackPhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

// classify turns a provider failure into the StandardError reported to jobs.
func classify(provider string, err error) *errors.StandardError {
	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}

	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewGenerationTimeoutError(provider)
	}

	var pe *ProviderError
	if stderrors.As(err, &pe) && pe.StatusCode == 429 {
		return errors.NewRateLimitedError(provider, err)
	}
	if strings.Contains(strings.ToLower(err.Error()), "too many requests") {
		return errors.NewRateLimitedError(provider, err)
	}
	return errors.NewGenerationFailedError(provider, err)
}
