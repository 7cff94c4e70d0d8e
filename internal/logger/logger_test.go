package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit(t *testing.T) {
	defer Set(zap.NewNop())

	l, err := Init(true)
	require.NoError(t, err)
	assert.Same(t, l, L())
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = Init(false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestSet(t *testing.T) {
	defer Set(zap.NewNop())

	core, logs := observer.New(zapcore.DebugLevel)
	Set(zap.New(core))

	L().Info("inserted", zap.String("collection", "userdetail"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "inserted", entry.Message)
	assert.Equal(t, "userdetail", entry.ContextMap()["collection"])
}
