package app

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const EnvProduction = "production"

// NewLogger собирает zap логгер: JSON в production, цветной консольный вывод иначе
func NewLogger(env string) *zap.Logger {
	var config zap.Config

	if env == EnvProduction {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "ts"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.OutputPaths = []string{"stdout"}

	logger, err := config.Build()
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}

	return logger.With(zap.String("app", "slot_scheduler"), zap.String("env", env))
}
