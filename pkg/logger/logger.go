package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging surface used across the service. The zap-backed
// implementation is the only one in production; the interface exists so
// transports (fasthttp wants a Printf-style logger) can share it.
type Logger interface {
	Info(msg string, values ...any)
	Warn(msg string, values ...any)
	Error(msg string, values ...any)
	Panic(message string, values ...any)
	Fatal(error error, values ...any)
	Printf(format string, args ...interface{})
}

// The logger self-initializes from APP_ENV because config loading itself
// logs; everything else reads configuration through internal/config only.
func init() {
	config := zap.NewDevelopmentConfig()
	if os.Getenv("APP_ENV") == "production" {
		config = zap.NewProductionConfig()
		config.DisableStacktrace = true
	}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	_, err := NewLogger(config)
	if err != nil {
		panic(err)
	}
}

func Info(msg string, values ...any) {
	GetLogger().Info(msg, values...)
}

func Warn(msg string, values ...any) {
	GetLogger().Warn(msg, values...)
}

func Error(msg string, values ...any) {
	GetLogger().Error(msg, values...)
}

func Panic(msg string, values ...any) {
	GetLogger().Panic(msg, values...)
}

func Fatal(error error, values ...any) {
	GetLogger().Fatal(error, values...)
}
