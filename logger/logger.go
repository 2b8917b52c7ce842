// Package logger provides the structured logger used by stores, decorators and the
// change feed.
//
// It wraps zap's SugaredLogger. Loggers derived with WithContext carry the trace and
// span identifiers of the active OpenTelemetry span, so log lines and traces of one
// repository call can be joined.
package logger

import (
	"context"
	"errors"
	"os"

	"github.com/code19m/errx"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger defines the logging interface used across the module.
type Logger interface {
	// Debug logs a message at debug level.
	Debug(args ...any)
	// Info logs a message at info level.
	Info(args ...any)
	// Warn logs a message at warn level.
	Warn(args ...any)
	// Error logs a message at error level.
	Error(args ...any)
	// Fatal logs a message at fatal level and then calls os.Exit(1).
	Fatal(args ...any)

	// Debugf logs a formatted message at debug level.
	Debugf(format string, args ...any)
	// Infof logs a formatted message at info level.
	Infof(format string, args ...any)
	// Warnf logs a formatted message at warn level.
	Warnf(format string, args ...any)
	// Errorf logs a formatted message at error level.
	Errorf(format string, args ...any)
	// Fatalf logs a formatted message at fatal level and then calls os.Exit(1).
	Fatalf(format string, args ...any)

	// Warnx logs err at warn level together with its errx code, type and details.
	Warnx(err error)
	// Errorx logs err at error level together with its errx code, type and details.
	Errorx(err error)

	// With creates a child logger that adds the key-value pairs to every entry.
	With(keysAndValues ...any) Logger
	// WithContext creates a child logger carrying the trace of the span in ctx.
	WithContext(ctx context.Context) Logger
	// Named adds a sub-scope to the logger's name.
	Named(name string) Logger

	// Sync flushes any buffered log entries.
	Sync() error
}

type logger struct {
	*zap.SugaredLogger
}

// New creates a Logger with the provided configuration.
func New(cfg Config) (Logger, error) {
	if cfg.Disable {
		return Nop(), nil
	}

	zapConfig, err := cfg.getZapConfig()
	if err != nil {
		return nil, errx.Wrap(err)
	}

	if cfg.Encoding != EncodingConsole {
		zapLogger, buildErr := zapConfig.Build()
		if buildErr != nil {
			return nil, errx.Wrap(buildErr)
		}
		return FromZap(zapLogger), nil
	}

	core := zapcore.NewCore(newDevEncoder(zapConfig.EncoderConfig), zapcore.AddSync(os.Stdout), zapConfig.Level)
	return FromZap(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))), nil
}

// FromZap wraps an existing zap logger.
func FromZap(z *zap.Logger) Logger {
	return &logger{SugaredLogger: z.Sugar()}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return FromZap(zap.NewNop())
}

func (l *logger) Warnx(err error) {
	l.withErr(err).Warn(err.Error())
}

func (l *logger) Errorx(err error) {
	l.withErr(err).Error(err.Error())
}

func (l *logger) withErr(err error) *zap.SugaredLogger {
	var e errx.ErrorX
	if !errors.As(err, &e) {
		return l.SugaredLogger
	}
	return l.SugaredLogger.With(
		"error_code", e.Code(),
		"error_type", e.Type().String(),
		"error_details", e.Details(),
	)
}

func (l *logger) With(keysAndValues ...any) Logger {
	return &logger{SugaredLogger: l.SugaredLogger.With(keysAndValues...)}
}

func (l *logger) WithContext(ctx context.Context) Logger {
	if ctx == nil {
		return l
	}

	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l
	}
	return l.With("trace_id", sc.TraceID().String(), "span_id", sc.SpanID().String())
}

func (l *logger) Named(name string) Logger {
	return &logger{SugaredLogger: l.SugaredLogger.Named(name)}
}
