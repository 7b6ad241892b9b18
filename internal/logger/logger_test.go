package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"studymart-checkout/internal/config"
)

func TestNew(t *testing.T) {
	log, err := New(config.Log{Level: "warn", Format: "json"}, "production")
	require.NoError(t, err)

	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}

func TestNew_Development(t *testing.T) {
	log, err := New(config.Log{Level: "debug", Format: "console"}, "development")
	require.NoError(t, err)

	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_InvalidSettings(t *testing.T) {
	_, err := New(config.Log{Level: "loud", Format: "json"}, "development")
	assert.ErrorContains(t, err, "parse log level")

	_, err = New(config.Log{Level: "info", Format: "xml"}, "development")
	assert.ErrorContains(t, err, "unknown log format")
}
