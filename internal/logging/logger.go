// Package logging builds the zap logger every component receives through its
// constructor.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"geoarcs/internal/config"
)

// New builds a logger writing to cfg.File, or to fallback ("stderr",
// "stdout") when no file is configured. An empty fallback with no file yields
// a no-op logger.
func New(cfg config.LogConfig, fallback string) (*zap.Logger, error) {
	out := cfg.File
	if out == "" {
		out = fallback
	}
	if out == "" {
		return zap.NewNop(), nil
	}

	level, err := zapcore.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	var zc zap.Config
	if strings.EqualFold(cfg.Format, "json") {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.EncoderConfig.TimeKey = "ts"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.OutputPaths = []string{out}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.DisableStacktrace = true

	l, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build logger: %w", err)
	}
	return l.Named("geoarcs"), nil
}
