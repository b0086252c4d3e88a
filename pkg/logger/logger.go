package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Log struct {
	LogLevel zapcore.Level `yaml:"level" envconfig:"LOG_LEVEL"`
	// Sink is a file path, stdout is used when empty.
	Sink string `yaml:"sink" envconfig:"LOG_SINK"`
}

// errorOutput receives zap's internal errors and sink failures.
var errorOutput zapcore.WriteSyncer = zapcore.Lock(os.Stderr)

// NewLogger falls back to stdout when the sink cannot be opened and reports why on stderr.
func NewLogger(cfg Log, service string) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.TimeKey = "time"

	sink := zapcore.AddSync(os.Stdout)
	if cfg.Sink != "" {
		f, err := os.OpenFile(cfg.Sink, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(errorOutput, "logger: open sink %q, writing to stdout: %v\n", cfg.Sink, err)
			_ = errorOutput.Sync()
		} else {
			sink = zapcore.AddSync(f)
		}
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.Lock(sink), zap.NewAtomicLevelAt(cfg.LogLevel))
	return zap.New(core, zap.AddCaller(), zap.ErrorOutput(errorOutput)).Named(service)
}
