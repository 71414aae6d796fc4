package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/limaJavier/classtimetable/pkg/config"
)

const (
	encodingJSON    = "json"
	encodingConsole = "console"

	// Name attached to every entry so timetable runs can be filtered out of shared sinks
	Name = "classtimetable"
)

// New builds the logger of a timetable run from the loaded configuration.
func New(cfg *config.Config) (*zap.Logger, error) {
	logger, err := zapConfig(cfg).Build()
	if err != nil {
		return nil, err
	}
	return logger.Named(Name), nil
}

func zapConfig(cfg *config.Config) zap.Config {
	zapCfg := zap.NewDevelopmentConfig()
	if cfg.Env == config.EnvProduction {
		zapCfg = zap.NewProductionConfig()
	}

	zapCfg.Encoding = encodingJSON
	if cfg.Log.Format == encodingConsole {
		zapCfg.Encoding = encodingConsole
	}

	// Unknown levels fall back to info instead of failing the run
	if cfg.Log.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Log.Level)
		if err != nil {
			level = zapcore.InfoLevel
		}
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}

	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.InitialFields = map[string]any{"env": cfg.Env}

	return zapCfg
}
