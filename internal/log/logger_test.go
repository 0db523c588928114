package log

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"":        LevelInfo,
		" warn ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestLoggerFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := (&Logger{zapLogger: zap.New(core)}).With(String("planner", "static-line"))

	l.Info("plan ready",
		Float64("height", 12.5),
		Int("units", 3),
		Bool("partial", false),
		Duration("took", time.Millisecond),
		Error(errors.New("boom")),
		Any("slots", []float64{1, 2}),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "plan ready", entry.Message)
	ctx := entry.ContextMap()
	assert.Equal(t, "static-line", ctx["planner"])
	assert.Equal(t, 12.5, ctx["height"])
	assert.Equal(t, int64(3), ctx["units"])
	assert.Equal(t, false, ctx["partial"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestNopLogger(t *testing.T) {
	l := NewNop()
	l.Debug("ignored")
	l.With(Int("n", 1)).Error("ignored")
	assert.NoError(t, l.Sync())
}
