package logger

import "go.uber.org/zap"

// ZapLogger adapts a sugared zap logger to the Logger surface. Callers go
// through the package-level helpers, so the caller-skip accounts for that
// extra frame.
type ZapLogger struct {
	log *zap.SugaredLogger
}

var zapLogger *ZapLogger

func NewLogger(config zap.Config) (*ZapLogger, error) {
	logger, err := config.Build(zap.AddCallerSkip(2))
	if err != nil {
		return nil, err
	}
	defer logger.Sync() //nolint
	zapLogger = &ZapLogger{log: logger.Sugar()}
	return zapLogger, nil
}

func GetLogger() *ZapLogger {
	if zapLogger == nil {
		panic("logger not initialized")
	}
	return zapLogger
}

func (l *ZapLogger) Panic(message string, values ...any) {
	l.log.Panicw(message, values...)
}

func (l *ZapLogger) Fatal(error error, values ...any) {
	l.log.Fatalw(error.Error(), values...)
}

func (l *ZapLogger) Info(message string, values ...any) {
	l.log.Infow(message, values...)
}

func (l *ZapLogger) Warn(message string, values ...any) {
	l.log.Warnw(message, values...)
}

func (l *ZapLogger) Error(message string, values ...any) {
	l.log.Errorw(message, values...)
}

func (l *ZapLogger) Printf(format string, args ...interface{}) {
	l.log.Infof(format, args...)
}
