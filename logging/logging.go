// Package logging builds the loggers used by rotour.
package logging

import (
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how verbosely a logger writes.
type Options struct {
	Debug bool
	// File, if set, additionally receives JSON logs and is rotated by size.
	File string
	// MaxSizeMB is the size a log file may reach before rotation. Zero means 10.
	MaxSizeMB int
	// MaxBackups is how many rotated files are kept. Zero means 3.
	MaxBackups int
}

// NewLoggerConfig returns a new default logger config. Logs go to stderr so
// that stdout carries only command output such as plan tables.
func NewLoggerConfig() zap.Config {
	// from https://github.com/uber-go/zap/blob/2314926ec34c23ee21f3dd4399438469668f8097/config.go#L135
	// but disable stacktraces, use same keys as prod, and color levels.
	return zap.Config{
		Level:    zap.NewAtomicLevelAt(zap.InfoLevel),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		DisableStacktrace: true,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
	}
}

// NewLogger returns a named logger writing to stderr and, optionally, a
// rotated log file.
func NewLogger(name string, opts Options) (golog.Logger, error) {
	cfg := NewLoggerConfig()
	if opts.Debug {
		cfg.Level.SetLevel(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "cannot build logger")
	}
	if opts.File != "" {
		fileCore := newFileCore(opts, cfg.Level)
		logger = logger.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
			return zapcore.NewTee(c, fileCore)
		}))
	}
	return logger.Sugar().Named(name), nil
}

func newFileCore(opts Options, level zapcore.LevelEnabler) zapcore.Core {
	maxSize := opts.MaxSizeMB
	if maxSize == 0 {
		maxSize = 10
	}
	maxBackups := opts.MaxBackups
	if maxBackups == 0 {
		maxBackups = 3
	}
	encCfg := NewLoggerConfig().EncoderConfig
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
	})
	return zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), sink, level)
}
