package camunda

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolbox-ai/internal/common/errors"
)

func fastRetryClient(maxRetries int) *Client {
	return &Client{config: &ClientConfig{
		ConnectionTimeout: time.Second,
		RetryConfig: &RetryConfig{
			MaxRetries: maxRetries,
			BaseDelay:  time.Millisecond,
			MaxDelay:   2 * time.Millisecond,
		},
	}}
}

func TestExecuteWithRetry_RecoversFromTransientErrors(t *testing.T) {
	calls := 0
	result, err := fastRetryClient(3).ExecuteWithRetry(context.Background(), func(context.Context) (interface{}, error) {
		calls++
		if calls < 3 {
			return nil, stderrors.New("rpc error: code = Unavailable desc = connection refused")
		}
		return "ok", nil
	}, "topology")

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
}

func TestExecuteWithRetry_GivesUp(t *testing.T) {
	calls := 0
	_, err := fastRetryClient(2).ExecuteWithRetry(context.Background(), func(context.Context) (interface{}, error) {
		calls++
		return nil, stderrors.New("context deadline exceeded")
	}, "topology")

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, errors.Sentinel(errors.ErrCodeBrokerUnavailable, ""))
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestExecuteWithRetry_DoesNotRetryPermanentErrors(t *testing.T) {
	calls := 0
	_, err := fastRetryClient(5).ExecuteWithRetry(context.Background(), func(context.Context) (interface{}, error) {
		calls++
		return nil, stderrors.New("permission denied")
	}, "complete job")

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestExecuteWithRetry_ContextCancelled(t *testing.T) {
	c := fastRetryClient(5)
	c.config.RetryConfig.BaseDelay = time.Hour
	c.config.RetryConfig.MaxDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ExecuteWithRetry(ctx, func(context.Context) (interface{}, error) {
		return nil, stderrors.New("unavailable")
	}, "topology")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRetryableZeebeError(t *testing.T) {
	tests := []struct {
		msg      string
		expected bool
	}{
		{msg: "connection refused", expected: true},
		{msg: "rpc error: code = DeadlineExceeded desc = context deadline exceeded", expected: true},
		{msg: "broken pipe", expected: true},
		{msg: "NOT_FOUND: job not found", expected: false},
		{msg: "permission denied", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.expected, isRetryableZeebeError(stderrors.New(tt.msg)))
		})
	}
}
