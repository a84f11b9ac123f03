package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/thereayou/classroom-chat/internal/config"
)

// New builds the process logger. Production mode logs JSON, anything else a
// colored console encoder.
func New(cfg config.LoggerConfig, production bool) (*zap.Logger, error) {
	var zc zap.Config
	if production {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if cfg.Encoding != "" {
		zc.Encoding = strings.ToLower(cfg.Encoding)
	}

	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		zc.Level = zap.NewAtomicLevelAt(level)
	}

	return zc.Build()
}
