package bundler

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrorLog appends compiler failures to a JSON-lines file for postmortem
type ErrorLog struct {
	z *zap.Logger
}

// OpenErrorLog opens (or creates) the log file at path in append mode
func OpenErrorLog(path string) (*ErrorLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create error log dir: %w", err)
	}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapcore.ErrorLevel),
		Encoding:         "json",
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{path},
		ErrorOutputPaths: []string{"stderr"},
	}
	z, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("open error log %s: %w", path, err)
	}
	return &ErrorLog{z: z}, nil
}

// Record appends one failure. A nil log drops it.
func (l *ErrorLog) Record(bundlerName, bundleFile, diagnostics string) {
	if l == nil {
		return
	}
	l.z.Error("bundle compilation failed",
		zap.String("bundler", bundlerName),
		zap.String("bundle", bundleFile),
		zap.String("diagnostics", diagnostics),
	)
	_ = l.z.Sync()
}

func (l *ErrorLog) Close() error {
	if l == nil {
		return nil
	}
	return l.z.Sync()
}
