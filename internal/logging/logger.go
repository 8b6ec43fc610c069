package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LoggerService interface {
	Log(value string)
	LogError(value string, err error)
	LogWarning(value string)
	LogSuccess(value string)
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

func NewLogger() LoggerService {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		fmt.Printf("[WARNING]: zap init failed, logging disabled: %v\n", err)
		return &zapLogger{sugar: zap.NewNop().Sugar()}
	}
	return &zapLogger{sugar: logger.Sugar()}
}

// NewNopLogger is for tests.
func NewNopLogger() LoggerService {
	return &zapLogger{sugar: zap.NewNop().Sugar()}
}

func (l *zapLogger) Log(value string) {
	l.sugar.Info(value)
}

func (l *zapLogger) LogError(value string, err error) {
	if err != nil {
		l.sugar.Errorw(value, "error", err.Error())
		return
	}
	l.sugar.Error(value)
}

func (l *zapLogger) LogWarning(value string) {
	l.sugar.Warn(value)
}

func (l *zapLogger) LogSuccess(value string) {
	l.sugar.Infow(value, "status", "success")
}
