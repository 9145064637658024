// Package logging builds the zap loggers used by the CLI, TUI and HTTP service.
// A *zap.SugaredLogger satisfies calculation.Logger, so the same instance can
// be handed to the engine.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config carries logger construction parameters.
type Config struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string `mapstructure:"level" yaml:"level" json:"level"`

	// Format is "json" or "console". Empty means json, or console when
	// Development is set.
	Format string `mapstructure:"format" yaml:"format" json:"format"`

	// Development enables caller info, stack traces on warnings and
	// human-friendly timestamps.
	Development bool `mapstructure:"development" yaml:"development" json:"development"`

	// OutputPaths defaults to stderr so command output on stdout stays clean.
	OutputPaths []string `mapstructure:"output_paths" yaml:"output_paths" json:"outputPaths"`
}

// ParseLevel converts a level name to a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// New builds a *zap.Logger from cfg.
func New(cfg Config) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	switch strings.ToLower(cfg.Format) {
	case "":
		// keep the preset's encoding
	case "json", "console":
		zc.Encoding = strings.ToLower(cfg.Format)
	default:
		return nil, fmt.Errorf("unknown log format %q (expected json or console)", cfg.Format)
	}

	zc.OutputPaths = []string{"stderr"}
	if len(cfg.OutputPaths) > 0 {
		zc.OutputPaths = cfg.OutputPaths
	}
	zc.ErrorOutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// NewSugared builds a sugared logger, the form the calculation engine accepts.
func NewSugared(cfg Config) (*zap.SugaredLogger, error) {
	logger, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// NewCLI returns the logger used by command-line tools: console output at
// debug level when debug is set, otherwise warnings and above only.
func NewCLI(debug bool) *zap.SugaredLogger {
	cfg := Config{Level: "warn", Format: "console"}
	if debug {
		cfg = Config{Level: "debug", Format: "console", Development: true}
	}
	logger, err := NewSugared(cfg)
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger
}
