package logger

import (
	"testing"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

func TestNew(t *testing.T) {
	t.Run("json logger at info level", func(t *testing.T) {
		l, err := New(config.LogConfig{Level: "info", Format: "json", Output: "stdout"})
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("unknown level defaults to info", func(t *testing.T) {
		l, err := New(config.LogConfig{Level: "verbose", Format: "console"})
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("debug level enables everything", func(t *testing.T) {
		l, err := New(config.LogConfig{Level: "debug", Format: "json"})
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("WARNING"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
}

func TestMapGormLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, mapGormLevel("silent"))
	assert.Equal(t, gormlogger.Info, mapGormLevel("debug"))
	assert.Equal(t, gormlogger.Warn, mapGormLevel(""))
}
