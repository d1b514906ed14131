package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger adapts a zap logger to Logger for non-interactive runs. Lines
// starting with "Warning:" or "Error:" are logged at that level.
type ZapLogger struct {
	z *zap.Logger
}

// NewZapLogger builds a stderr logger. format is "json" or "console".
func NewZapLogger(format string, verbose bool) (*ZapLogger, error) {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	if format == "json" {
		encoderConfig = zap.NewProductionEncoderConfig()
	} else {
		format = "console"
	}
	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         format,
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	z, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	return &ZapLogger{z: z}, nil
}

// NewZapLoggerFrom wraps an existing zap logger
func NewZapLoggerFrom(z *zap.Logger) *ZapLogger {
	return &ZapLogger{z: z}
}

func (l *ZapLogger) Logf(format string, args ...interface{}) {
	l.Log(fmt.Sprintf(format, args...))
}

func (l *ZapLogger) Log(msg string) {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return
	}
	switch {
	case strings.HasPrefix(msg, "Error:"):
		l.z.Error(strings.TrimSpace(strings.TrimPrefix(msg, "Error:")))
	case strings.HasPrefix(msg, "Warning:"):
		l.z.Warn(strings.TrimSpace(strings.TrimPrefix(msg, "Warning:")))
	default:
		l.z.Info(msg)
	}
}

func (l *ZapLogger) Sync() error { return l.z.Sync() }
