package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// sugared zap logger shared by the commands
type Logger struct {
	*zap.SugaredLogger
}

// console logger on stderr; debug level when verbose
func NewLogger(verbose bool) *Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = true
	cfg.DisableCaller = !verbose
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")

	base, err := cfg.Build()
	if err != nil {
		base = zap.NewNop()
	}
	return &Logger{SugaredLogger: base.Sugar()}
}

// discards everything, for tests
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}
