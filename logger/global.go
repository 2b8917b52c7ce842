package logger

import (
	"context"
	"sync/atomic"
)

//nolint:gochecknoglobals // process wide default logger
var global atomic.Pointer[Logger]

// SetGlobal replaces the process wide logger used by the package level functions.
func SetGlobal(l Logger) {
	global.Store(&l)
}

// Global returns the process wide logger. Until SetGlobal is called it is a JSON
// logger at info level.
func Global() Logger {
	if l := global.Load(); l != nil {
		return *l
	}

	l, err := New(Config{Level: "info", Encoding: EncodingJSON})
	if err != nil {
		panic("[logger]: failed to initialize default logger: " + err.Error())
	}
	global.CompareAndSwap(nil, &l)
	return *global.Load()
}

// Named adds a sub-scope to the global logger's name.
func Named(name string) Logger {
	return Global().Named(name)
}

// WithContext returns the global logger enriched with the trace in ctx.
func WithContext(ctx context.Context) Logger {
	return Global().WithContext(ctx)
}

// Sync flushes the global logger.
func Sync() error {
	return Global().Sync()
}
