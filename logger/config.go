package logger

import (
	"github.com/code19m/errx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	messageKey = "msg"
	levelKey   = "level"
	nameKey    = "logger"
	callerKey  = "file"
	timeKey    = "time"

	EncodingConsole = "console"
	EncodingJSON    = "json"
)

// Config defines configuration options for the logger.
type Config struct {
	// Level is the minimum level emitted: debug, info, warn or error.
	Level string `yaml:"level" validate:"oneof=debug info warn error" default:"info"`

	// Encoding is either "json" for log processing systems or "console" for a
	// colored, human readable format with indented fields.
	Encoding string `yaml:"encoding" validate:"oneof=json console" default:"json"`

	// Disable turns the logger into a no-op.
	Disable bool `yaml:"disable" default:"false"`
}

func (c Config) getZapConfig() (*zap.Config, error) {
	zapLevel := zap.NewAtomicLevel()

	err := zapLevel.UnmarshalText([]byte(c.Level))
	if err != nil {
		return nil, errx.Wrap(err)
	}

	encoderConfig := zapcore.EncoderConfig{
		MessageKey:     messageKey,
		LevelKey:       levelKey,
		NameKey:        nameKey,
		CallerKey:      callerKey,
		TimeKey:        timeKey,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}

	return &zap.Config{
		Level:            zapLevel,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		Encoding:         c.Encoding,
		EncoderConfig:    encoderConfig,
	}, nil
}
