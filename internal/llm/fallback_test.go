package llm

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolbox-ai/internal/common/errors"
	"toolbox-ai/internal/common/logger"
)

type fakeProvider struct {
	name    string
	text    string
	err     error
	calls   int
	budgets []int
	systems []string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Complete(_ context.Context, system, _ string, maxTokens int) (string, error) {
	f.calls++
	f.budgets = append(f.budgets, maxTokens)
	f.systems = append(f.systems, system)
	return f.text, f.err
}

var testRequest = Request{System: "Respond with JSON.", Prompt: "Fix a leaking tap"}

func TestFallbackGenerator_PrimarySucceeds(t *testing.T) {
	primary := &fakeProvider{name: "primary", text: `{"ok":true}`}
	secondary := &fakeProvider{name: "secondary", text: "unused"}

	text, err := NewFallbackGenerator(primary, secondary, logger.NewTestLogger(t)).Generate(context.Background(), testRequest)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, text)
	assert.Equal(t, []int{DefaultPrimaryBudget}, primary.budgets)
	assert.Equal(t, []string{"Respond with JSON."}, primary.systems)
	assert.Zero(t, secondary.calls)
}

func TestFallbackGenerator_Reroutes(t *testing.T) {
	tests := []struct {
		name       string
		primaryErr error
	}{
		{name: "http 429", primaryErr: &ProviderError{Provider: "primary", StatusCode: 429, Message: "quota"}},
		{name: "too many requests text", primaryErr: stderrors.New("Too Many Requests")},
		{name: "missing parts", primaryErr: &ProviderError{Provider: "primary", Message: "no parts", MissingParts: true}},
		{name: "max tokens", primaryErr: &ProviderError{Provider: "primary", Message: "cut", FinishReason: "MAX_TOKENS"}},
		{name: "invalid json response", primaryErr: stderrors.New("Invalid JSON response from provider")},
		{name: "type validation failed", primaryErr: stderrors.New("Type validation failed: candidates[0].content.parts")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := &fakeProvider{name: "primary", err: tt.primaryErr}
			secondary := &fakeProvider{name: "secondary", text: "from secondary"}

			text, err := NewFallbackGenerator(primary, secondary, logger.NewNoOpLogger()).Generate(context.Background(), testRequest)
			require.NoError(t, err)
			assert.Equal(t, "from secondary", text)
			assert.Equal(t, 1, primary.calls)
			assert.Equal(t, []int{DefaultSecondaryBudget}, secondary.budgets)
		})
	}
}

func TestFallbackGenerator_NonFallbackErrorIsReturned(t *testing.T) {
	primary := &fakeProvider{name: "primary", err: &ProviderError{Provider: "primary", StatusCode: 500, Message: "internal"}}
	secondary := &fakeProvider{name: "secondary", text: "unused"}

	_, err := NewFallbackGenerator(primary, secondary, logger.NewNoOpLogger()).Generate(context.Background(), testRequest)
	require.Error(t, err)
	assert.Zero(t, secondary.calls)
	assert.ErrorIs(t, err, errors.Sentinel(errors.ErrCodeGenerationFailed, ""))

	var pe *ProviderError
	require.True(t, stderrors.As(err, &pe))
	assert.Equal(t, 500, pe.StatusCode)
}

func TestFallbackGenerator_EmptyPrimaryDoesNotReroute(t *testing.T) {
	primary := &fakeProvider{name: "primary", text: "  \n "}
	secondary := &fakeProvider{name: "secondary", text: "unused"}

	_, err := NewFallbackGenerator(primary, secondary, logger.NewNoOpLogger()).Generate(context.Background(), testRequest)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyResponse)
	assert.Contains(t, err.Error(), "Primary model returned an empty response")
	assert.Zero(t, secondary.calls)
}

func TestFallbackGenerator_BothFail(t *testing.T) {
	primary := &fakeProvider{name: "primary", err: &ProviderError{Provider: "primary", StatusCode: 429}}
	secondary := &fakeProvider{name: "secondary", err: fmt.Errorf("secondary down")}

	_, err := NewFallbackGenerator(primary, secondary, logger.NewNoOpLogger()).Generate(context.Background(), testRequest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secondary down")
}

func TestFallbackGenerator_SkipPrimary(t *testing.T) {
	primary := &fakeProvider{name: "primary", text: "unused"}
	secondary := &fakeProvider{name: "secondary", text: "skipped ahead"}

	req := testRequest
	req.SkipPrimary = true
	text, err := NewFallbackGenerator(primary, secondary, logger.NewNoOpLogger()).Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "skipped ahead", text)
	assert.Zero(t, primary.calls)

	_, err = NewFallbackGenerator(primary, nil, logger.NewNoOpLogger()).Generate(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFallbackNotConfigured)
	assert.Contains(t, err.Error(), "Fallback model not configured")
}

func TestFallbackGenerator_SecondaryEmptyResponse(t *testing.T) {
	secondary := &fakeProvider{name: "secondary", text: ""}

	_, err := NewFallbackGenerator(nil, secondary, logger.NewNoOpLogger()).Generate(context.Background(), Request{Prompt: "p", SkipPrimary: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Fallback model returned an empty response")
}

func TestFallbackGenerator_NoPrimaryUsesSecondary(t *testing.T) {
	secondary := &fakeProvider{name: "secondary", text: "only one"}

	text, err := NewFallbackGenerator(nil, secondary, nil).Generate(context.Background(), testRequest)
	require.NoError(t, err)
	assert.Equal(t, "only one", text)

	_, err = NewFallbackGenerator(nil, nil, nil).Generate(context.Background(), testRequest)
	assert.ErrorIs(t, err, errors.Sentinel(errors.ErrCodeProviderNotConfigured, ""))
}

func TestFallbackGenerator_Budgets(t *testing.T) {
	primary := &fakeProvider{name: "primary", text: "ok"}
	g := NewFallbackGenerator(primary, nil, nil, WithBudgets(1024, 0))

	_, err := g.Generate(context.Background(), testRequest)
	require.NoError(t, err)

	req := testRequest
	req.MaxTokens = 64
	_, err = g.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []int{1024, 64}, primary.budgets)
	assert.Equal(t, DefaultSecondaryBudget, g.secondaryBudget)
}

func TestFallbackGenerator_Timeout(t *testing.T) {
	primary := &fakeProvider{name: "primary", err: fmt.Errorf("call: %w", context.DeadlineExceeded)}

	_, err := NewFallbackGenerator(primary, nil, nil).Generate(context.Background(), testRequest)
	assert.ErrorIs(t, err, errors.Sentinel(errors.ErrCodeGenerationTimeout, ""))
}

func TestShouldFallback(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil", err: nil, expected: false},
		{name: "rate limited standard error", err: errors.NewRateLimitedError("p", stderrors.New("quota")), expected: true},
		{name: "resource exhausted", err: stderrors.New("RESOURCE_EXHAUSTED: quota"), expected: true},
		{name: "plain 429 in text", err: stderrors.New("status 429"), expected: true},
		{name: "max tokens in body", err: stderrors.New(`{"finishReason": "MAX_TOKENS"}`), expected: true},
		{name: "unauthorized", err: &ProviderError{Provider: "p", StatusCode: 401, Message: "bad key"}, expected: false},
		{name: "generic", err: stderrors.New("connection reset by peer"), expected: false},
		{name: "empty response", err: errors.NewEmptyResponseError("Primary", nil), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShouldFallback(tt.err))
		})
	}
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", excerpt("short", 10))
	assert.Equal(t, "abc", excerpt("abcdef", 3))
	// "é" is two bytes; cutting inside it drops the partial rune.
	assert.Equal(t, "ab", excerpt("abé", 3))
	assert.Equal(t, "abé", excerpt("abé!", 4))
}
