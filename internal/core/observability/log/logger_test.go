package log

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type slot struct{}

func (slot) String() string { return "3#1" }

func TestLoggerFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core))

	l.With(String("component", "registry")).Info("entity created",
		Stringer("entity", slot{}),
		Uint64("type_id", 42),
		Uint32("slot", 3),
		Int("live", 1),
		Bool("cascade", true),
		Duration("tick", time.Millisecond),
		Error(errors.New("boom")),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "entity created", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "registry", fields["component"])
	assert.Equal(t, "3#1", fields["entity"])
	assert.Equal(t, uint64(42), fields["type_id"])
	assert.Equal(t, uint32(3), fields["slot"])
	assert.Equal(t, int64(1), fields["live"])
	assert.Equal(t, true, fields["cascade"])
	assert.Equal(t, "boom", fields["error"])
}

func TestLoggerLevel(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core))

	l.SetLevel(LevelWarn)
	assert.Equal(t, LevelWarn, l.GetLevel())

	l.Debug("dropped")
	l.Info("dropped")
	l.Warn("kept")
	l.Error("kept")

	assert.Equal(t, 2, logs.Len())
}

func TestNew(t *testing.T) {
	l, err := New(Config{Level: "debug", Encoding: "console"})
	require.NoError(t, err)
	assert.Equal(t, LevelDebug, l.GetLevel())

	_, err = New(Config{Level: "loud"})
	assert.Error(t, err)

	_, err = New(Config{Level: "info", Encoding: "xml"})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Level
		ok   bool
	}{
		{"debug", LevelDebug, true},
		{"", LevelInfo, true},
		{"warning", LevelWarn, true},
		{"error", LevelError, true},
		{"trace", LevelInfo, false},
	} {
		got, ok := ParseLevel(tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
	}
}

func TestLoggerNilError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core))

	assert.NotPanics(t, func() {
		l.Warn("handler finished", Error(nil), ErrorWithKey("cause", nil))
	})
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.NotContains(t, fields, "error")
	assert.NotContains(t, fields, "cause")
}
