package logger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/docrepo/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.FromZap(zap.New(core)), logs
}

func TestErrorxAddsErrorFields(t *testing.T) {
	l, logs := observed()

	l.Errorx(errx.New("boom", errx.WithCode("SOME_CODE"), errx.WithType(errx.T_Conflict)))
	l.Warnx(errors.New("plain"))

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "SOME_CODE", entries[0].ContextMap()["error_code"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "plain", entries[1].Message)
	assert.NotContains(t, entries[1].ContextMap(), "error_code")
}

func TestWithContextAddsTrace(t *testing.T) {
	l, logs := observed()

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{1, 2, 3},
		SpanID:     trace.SpanID{4, 5, 6},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	l.WithContext(ctx).Named("store").Info("traced")
	l.WithContext(context.Background()).Info("untraced")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, sc.TraceID().String(), entries[0].ContextMap()["trace_id"])
	assert.Equal(t, sc.SpanID().String(), entries[0].ContextMap()["span_id"])
	assert.Equal(t, "store", entries[0].LoggerName)
	assert.Empty(t, entries[1].ContextMap())
}

func TestNewValidatesLevel(t *testing.T) {
	_, err := logger.New(logger.Config{Level: "loud", Encoding: logger.EncodingJSON})
	require.Error(t, err)

	l, err := logger.New(logger.Config{Level: "debug", Encoding: logger.EncodingConsole})
	require.NoError(t, err)
	l.With("collection", "items").Debugf("console %d", 1)

	nop, err := logger.New(logger.Config{Disable: true})
	require.NoError(t, err)
	nop.Info("dropped")
}

func TestGlobal(t *testing.T) {
	l, logs := observed()
	logger.SetGlobal(l)

	logger.Named("global").Info("hello")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "global", logs.All()[0].LoggerName)
}
