package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapAdapter_CarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).
		With(map[string]interface{}{"flow": "diy-fix-guide"}).
		With(map[string]interface{}{"error": errors.New("rate limited")})

	log.Warn("primary model output unusable", map[string]interface{}{
		"stage": "normalized",
		"cause": errors.New("schema mismatch"),
	})

	entries := logs.All()
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "primary model output unusable", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "diy-fix-guide", fields["flow"])
	assert.Equal(t, "normalized", fields["stage"])
	assert.Equal(t, "rate limited", fields["error"])
	assert.Equal(t, "schema mismatch", fields["cause"])
}

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level    string
		expected zapcore.Level
	}{
		{level: "debug", expected: zapcore.DebugLevel},
		{level: "warn", expected: zapcore.WarnLevel},
		{level: "error", expected: zapcore.ErrorLevel},
		{level: "verbose", expected: zapcore.InfoLevel},
		{level: "", expected: zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l := New(tt.level, "json")
			assert.True(t, l.Core().Enabled(tt.expected))
			if tt.expected > zapcore.DebugLevel {
				assert.False(t, l.Core().Enabled(tt.expected-1))
			}
		})
	}
}

func TestNoOpLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNoOpLogger().With(nil).Info("ignored", nil)
	})
}
