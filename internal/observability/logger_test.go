package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Levels(t *testing.T) {
	for _, lvl := range []string{"", "info", "WARN", "error", "debug"} {
		logger, err := NewLogger(lvl)
		require.NoError(t, err, "level %q", lvl)
		assert.NotNil(t, logger)
	}
}

func TestNewLogger_WarnDisablesInfo(t *testing.T) {
	logger, err := NewLogger("warn")
	require.NoError(t, err)

	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestNewLogger_BadLevel(t *testing.T) {
	_, err := NewLogger("loud")
	assert.Error(t, err)
}

func TestNewBreaker_TripsAfterFailures(t *testing.T) {
	cb := NewBreaker("test", nil)

	for i := 0; i < 3; i++ {
		_, _ = cb.Execute(func() (interface{}, error) { return nil, assert.AnError })
	}

	assert.Equal(t, "open", cb.State().String())
}
