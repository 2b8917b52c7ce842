package changefeed

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/rise-and-shine/docrepo/logger"
)

var _ watermill.LoggerAdapter = (*loggerAdapter)(nil)

// loggerAdapter reports watermill logs through logger.Logger.
type loggerAdapter struct {
	base logger.Logger
}

// NewLoggerAdapter returns a watermill.LoggerAdapter writing to l.
func NewLoggerAdapter(l logger.Logger) watermill.LoggerAdapter {
	return &loggerAdapter{base: l}
}

func (l *loggerAdapter) Error(msg string, err error, fields watermill.LogFields) {
	l.with(fields).With("error", err).Error(msg)
}

func (l *loggerAdapter) Info(msg string, fields watermill.LogFields) {
	l.with(fields).Info(msg)
}

func (l *loggerAdapter) Debug(msg string, fields watermill.LogFields) {
	l.with(fields).Debug(msg)
}

// Trace has no zap level of its own.
func (l *loggerAdapter) Trace(msg string, fields watermill.LogFields) {
	l.with(fields).Debug(msg)
}

func (l *loggerAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &loggerAdapter{base: l.with(fields)}
}

func (l *loggerAdapter) with(fields watermill.LogFields) logger.Logger {
	if len(fields) == 0 {
		return l.base
	}
	kv := make([]any, 0, 2*len(fields))
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	return l.base.With(kv...)
}
