package logger

import (
	"encoding/json"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

//nolint:gochecknoglobals // static lookup shared by all encoders
var levelColors = map[zapcore.Level]*color.Color{
	zapcore.DebugLevel:  color.New(color.FgCyan),
	zapcore.InfoLevel:   color.New(color.FgGreen),
	zapcore.WarnLevel:   color.New(color.FgYellow),
	zapcore.ErrorLevel:  color.New(color.FgRed, color.Bold),
	zapcore.DPanicLevel: color.New(color.FgRed, color.Bold),
	zapcore.PanicLevel:  color.New(color.FgRed, color.Bold),
	zapcore.FatalLevel:  color.New(color.FgMagenta, color.Bold),
}

// devEncoder prints the console header of an entry with a colored level and the
// entry fields below it as indented JSON. Fields added with With stay in the header.
type devEncoder struct {
	zapcore.Encoder
	fields zapcore.Encoder
	pool   buffer.Pool
}

func newDevEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	fieldsCfg := cfg
	fieldsCfg.MessageKey = zapcore.OmitKey
	fieldsCfg.LevelKey = zapcore.OmitKey
	fieldsCfg.TimeKey = zapcore.OmitKey
	fieldsCfg.NameKey = zapcore.OmitKey
	fieldsCfg.CallerKey = zapcore.OmitKey
	fieldsCfg.StacktraceKey = zapcore.OmitKey

	return &devEncoder{
		Encoder: zapcore.NewConsoleEncoder(cfg),
		fields:  zapcore.NewJSONEncoder(fieldsCfg),
		pool:    buffer.NewPool(),
	}
}

func (e *devEncoder) Clone() zapcore.Encoder {
	return &devEncoder{
		Encoder: e.Encoder.Clone(),
		fields:  e.fields.Clone(),
		pool:    e.pool,
	}
}

func (e *devEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	header, err := e.Encoder.EncodeEntry(entry, nil)
	if err != nil {
		return nil, err
	}
	line := strings.TrimRight(header.String(), "\n")
	header.Free()

	if c, ok := levelColors[entry.Level]; ok {
		lvl := entry.Level.CapitalString()
		line = strings.Replace(line, lvl, c.Sprint(lvl), 1)
	}

	out := e.pool.Get()
	out.AppendString(line)

	body, err := e.fields.EncodeEntry(entry, fields)
	if err != nil {
		return nil, err
	}
	defer body.Free()

	var payload map[string]any
	if json.Unmarshal(body.Bytes(), &payload) == nil && len(payload) > 0 {
		if pretty, mErr := json.MarshalIndent(payload, "", "  "); mErr == nil {
			out.AppendByte('\n')
			out.AppendString(string(pretty))
		}
	}

	out.AppendByte('\n')
	return out, nil
}
