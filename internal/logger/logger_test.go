package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"

	"quotecrm/internal/config"
	"quotecrm/internal/logger"
)

func TestNew_Levels(t *testing.T) {
	log := logger.New(config.LogConfig{Level: "warn", Format: "json"})
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))

	log = logger.New(config.LogConfig{Level: "not-a-level", Format: "console"})
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}
