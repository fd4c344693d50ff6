package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/danielpatrickdp/endochain/go-core/internal/config"
)

func TestNewLoggerLevels(t *testing.T) {
	logger, err := NewLogger(config.LoggingConfig{Level: "warn"}, false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger, err = NewLogger(config.LoggingConfig{Level: "warn", Development: true}, true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := NewLogger(config.LoggingConfig{Level: "loud"}, false)
	assert.Error(t, err)
}
