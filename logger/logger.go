package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const LogLevelEnvVar = "LOG_LEVEL"

func NewProductionLogger() (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(levelFromEnv())
	return config.Build()
}

func Suggar(logger *zap.Logger) *zap.SugaredLogger {
	return logger.Sugar()
}

func levelFromEnv() zapcore.Level {
	level := zap.DebugLevel
	if value, ok := os.LookupEnv(LogLevelEnvVar); ok && value != "" {
		if err := level.UnmarshalText([]byte(value)); err != nil {
			return zap.DebugLevel
		}
	}
	return level
}
