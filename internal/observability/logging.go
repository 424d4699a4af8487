// Package observability builds the zap loggers shared by every binary.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/angler/internal/config"
)

// ServiceName is attached to every log entry.
const ServiceName = "angler"

var formats = map[string]func() zap.Config{
	"json":    zap.NewProductionConfig,
	"console": zap.NewDevelopmentConfig,
}

// NewLogger builds a logger for cfg: production encoding for "json",
// development encoding for "console", ISO8601 timestamps for both.
//
// Precondition: cfg.Level is a zap level name.
// Postcondition: every entry carries the service field.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}
	base, ok := formats[cfg.Format]
	if !ok {
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zapCfg := base()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.InitialFields = map[string]any{"service": ServiceName}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// PlayerLogger scopes logger to a single player id.
func PlayerLogger(logger *zap.Logger, uid string) *zap.Logger {
	return logger.With(zap.String("uid", uid))
}
