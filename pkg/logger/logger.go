// Package logger builds the zap loggers used by rotlog: a console logger for
// diagnostics and a JSON logger that writes into any zapcore.WriteSyncer,
// such as a rotating log stream.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New constructs a console logger for the given service. Falls back to a
// no-op logger if zap cannot be built, diagnostics must never stop the caller.
func New(service string) *zap.SugaredLogger {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.InitialFields = map[string]any{"service": service}
	config.DisableStacktrace = true

	log, err := config.Build(zap.AddCaller())
	if err != nil {
		return zap.NewNop().Sugar()
	}

	return log.Sugar()
}

// NewConsole constructs a plain zap logger writing human readable lines to
// stderr at the given minimum level.
func NewConsole(service string, level zapcore.Level) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.Lock(os.Stderr),
		level,
	)
	return zap.New(core).Named(service)
}

// NewFileLogger constructs a JSON logger writing to ws. Every entry is one
// Write call, so a rotating stream never splits an entry across files.
func NewFileLogger(service string, ws zapcore.WriteSyncer, level zapcore.Level) *zap.Logger {
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), ws, level)
	return zap.New(core, zap.AddCaller()).With(zap.String("service", service))
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}
