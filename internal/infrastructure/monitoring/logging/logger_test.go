package logging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	apperrors "github.com/turtacn/AutoCompare-Intelligence/pkg/errors"
)

func newObservedLogger(t *testing.T) (Logger, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return NewLoggerFromCore(core), logs
}

func TestNewLogger_Formats(t *testing.T) {
	for _, format := range []string{"json", "console", ""} {
		l, err := NewLogger(LogConfig{Level: "debug", Format: format, OutputPaths: []string{"stdout"}})
		require.NoError(t, err, format)
		assert.NotNil(t, l)
	}
}

func TestNewLogger_InvalidOutputPath(t *testing.T) {
	l, err := NewLogger(LogConfig{OutputPaths: []string{"/nonexistent-dir/sub/autocompare.log"}})
	assert.Error(t, err)
	assert.Nil(t, l)
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"INFO":  zapcore.InfoLevel,
		"":      zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"Error": zapcore.ErrorLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	got, err := ParseLevel("verbose")
	assert.Error(t, err)
	assert.Equal(t, zapcore.InfoLevel, got)
}

func TestNopLogger_AllMethodsNoOp(t *testing.T) {
	l := NewNopLogger()
	l.Debug("msg")
	l.Info("msg")
	l.Warn("msg")
	l.Error("msg")
	assert.Equal(t, l, l.With(String("k", "v")))
	assert.Equal(t, l, l.Named("x"))
	assert.Equal(t, l, l.WithContext(context.Background()))
	assert.Equal(t, l, l.WithError(errors.New("err")))
	assert.NoError(t, l.Sync())
}

func TestZapLogger_Levels(t *testing.T) {
	l, logs := newObservedLogger(t)
	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestZapLogger_TypedFields(t *testing.T) {
	l, logs := newObservedLogger(t)
	l.Info("recompute finished",
		RunID("run-1"),
		VehicleKey("TOYOTA|COROLLA|LE|2024"),
		Int("competitors", 3),
		Float64("residual", -27337.28),
		Bool("regression", false),
	)

	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "run-1", ctx[FieldRunID])
	assert.Equal(t, "TOYOTA|COROLLA|LE|2024", ctx[FieldVehicleKey])
	assert.Equal(t, int64(3), ctx["competitors"])
	assert.Equal(t, -27337.28, ctx["residual"])
	assert.Equal(t, false, ctx["regression"])
}

func TestZapLogger_WithContext_ExtractsRequestID(t *testing.T) {
	l, logs := newObservedLogger(t)
	ctx := WithRequestID(context.Background(), "req-123")
	l.WithContext(ctx).Info("msg")
	l.WithContext(context.Background()).Info("plain")

	all := logs.All()
	assert.Equal(t, "req-123", all[0].ContextMap()[FieldRequestID])
	_, ok := all[1].ContextMap()[FieldRequestID]
	assert.False(t, ok)
}

func TestZapLogger_WithError(t *testing.T) {
	l, logs := newObservedLogger(t)

	l.WithError(apperrors.New(apperrors.ErrCodeNoCompetitors, "nothing left")).Error("app")
	l.WithError(errors.New("std error")).Error("std")
	l.WithError(nil).Info("nil")

	all := logs.All()
	require.Len(t, all, 3)
	assert.Equal(t, "CMP_002", all[0].ContextMap()[FieldErrorCode])
	assert.Equal(t, "[CMP_002] nothing left", all[0].ContextMap()["error"])
	assert.Equal(t, "std error", all[1].ContextMap()["error"])
	_, hasCode := all[1].ContextMap()[FieldErrorCode]
	assert.False(t, hasCode)
	assert.Empty(t, all[2].ContextMap())
}

func TestZapLogger_Named(t *testing.T) {
	l, logs := newObservedLogger(t)
	l.Named("compare").Named("decompose").Info("msg")
	assert.Equal(t, "compare.decompose", logs.All()[0].LoggerName)
}

func TestSetDefault(t *testing.T) {
	prev := Default()
	defer SetDefault(prev)

	l, _ := newObservedLogger(t)
	SetDefault(l)
	assert.Equal(t, l, Default())

	SetDefault(nil)
	assert.Equal(t, l, Default())
}

func TestErrField_Nil(t *testing.T) {
	assert.Equal(t, Field{Key: "error", Value: "<nil>"}, Err(nil))
}
