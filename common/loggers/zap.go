package loggers

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gildlab/go-pins"
	"github.com/gildlab/go-pins/models"
)

// NewLogger builds a production logger writing to stderr, leaving stdout for pin output.
func NewLogger() (models.Logger, error) {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)

	logLevel := os.Getenv(pins.Env_LogLevel)
	if len(logLevel) > 0 {
		if parsedLevel, err := zap.ParseAtomicLevel(logLevel); err != nil {
			return nil, fmt.Errorf("%w: error parsing log level %s: %v", models.ErrConfig, logLevel, err)
		} else {
			level = parsedLevel
		}
	}

	var cfg zap.Config = zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = level
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.InitialFields = map[string]interface{}{"service": pins.ServiceName}
	baseLogger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return baseLogger.Sugar(), nil
}

func NewTestLogger() models.Logger {
	var cfg zap.Config = zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.TimeKey = "timestamp"
	baseLogger := zap.Must(cfg.Build())
	logger := baseLogger.Sugar()

	return logger
}
