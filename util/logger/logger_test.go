package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLogger(t *testing.T) {
	log := New(true)
	require.True(t, log.Desugar().Core().Enabled(zapcore.DebugLevel))
	log.Debugf("debug %d", 1)

	log = New(false)
	require.False(t, log.Desugar().Core().Enabled(zapcore.DebugLevel))
	require.True(t, log.Desugar().Core().Enabled(zapcore.InfoLevel))

	nop := OrNop(nil)
	require.NotNil(t, nop)
	require.False(t, nop.Desugar().Core().Enabled(zapcore.ErrorLevel))
	require.True(t, OrNop(log) == log)
}
