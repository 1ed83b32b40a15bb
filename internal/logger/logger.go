package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Init builds the process-wide logger for the given environment and installs
// it as zap's global so packages can log through zap.L().
func Init(environment string) error {
	var conf zap.Config
	switch environment {
	case "development", "test":
		conf = zap.NewDevelopmentConfig()
		conf.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case "production", "staging":
		conf = zap.NewProductionConfig()
	default:
		return fmt.Errorf("unknown environment %q", environment)
	}

	l, err := conf.Build()
	if err != nil {
		return fmt.Errorf("conf.Build -> %w", err)
	}

	zap.ReplaceGlobals(l)

	return nil
}
