package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGet(t *testing.T) {
	first := Get()
	require.NotNil(t, first)
	assert.Same(t, first, Get())
}

func TestFromCtx(t *testing.T) {
	t.Run("falls back to process logger", func(t *testing.T) {
		assert.Same(t, Get(), FromCtx(context.Background()))
	})

	t.Run("returns stored logger", func(t *testing.T) {
		custom := zap.NewNop().Sugar()
		ctx := WithCtx(context.Background(), custom)
		assert.Same(t, custom, FromCtx(ctx))
	})

	t.Run("extra fields produce a child logger", func(t *testing.T) {
		custom := zap.NewNop().Sugar()
		ctx := WithCtx(context.Background(), custom)
		child := FromCtx(ctx, "release id", 4)
		assert.NotSame(t, custom, child)
	})
}

func TestWithCtx(t *testing.T) {
	l := Get()
	ctx := WithCtx(context.Background(), l)
	assert.Same(t, l, FromCtx(ctx))

	t.Run("same logger keeps context", func(t *testing.T) {
		assert.Equal(t, ctx, WithCtx(ctx, l))
	})
}

func TestNewCore(t *testing.T) {
	t.Run("invalid level defaults to info", func(t *testing.T) {
		core := newCore("loud", false)
		assert.True(t, core.Enabled(zap.InfoLevel))
		assert.False(t, core.Enabled(zap.DebugLevel))
	})

	t.Run("debug level", func(t *testing.T) {
		core := newCore("debug", true)
		assert.True(t, core.Enabled(zap.DebugLevel))
	})
}
