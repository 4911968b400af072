package logger

import (
	"bytes"
	"context"
	"testing"

	charmlog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Run("returns stored logger", func(t *testing.T) {
		want := NewForTests()
		ctx := ContextWithLogger(context.Background(), want)
		assert.Equal(t, want, FromContext(ctx))
	})

	t.Run("falls back when missing", func(t *testing.T) {
		require.NotNil(t, FromContext(context.Background()))
	})

	t.Run("falls back on wrong type", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), ctxKey{}, "not a logger")
		require.NotNil(t, FromContext(ctx))
	})
}

func TestLogLevelMapping(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  charmlog.Level
	}{
		{DebugLevel, charmlog.DebugLevel},
		{InfoLevel, charmlog.InfoLevel},
		{WarnLevel, charmlog.WarnLevel},
		{ErrorLevel, charmlog.ErrorLevel},
		{LogLevel("bogus"), charmlog.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.level.ToCharmlogLevel(), "level %q", tt.level)
	}
}

func TestNewLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&Config{Level: DebugLevel, Output: &buf, JSON: true})
	l.With("run", "r1").Info("pipeline done", "tokens", 3)

	out := buf.String()
	assert.Contains(t, out, `"msg":"pipeline done"`)
	assert.Contains(t, out, `"run":"r1"`)
	assert.Contains(t, out, `"tokens":3`)
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&Config{Level: WarnLevel, Output: &buf})
	l.Info("hidden")
	assert.Empty(t, buf.String())
	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}
