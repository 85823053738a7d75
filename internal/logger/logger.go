// Package logger builds the application's zerolog logger from configuration.
package logger

import (
	"github.com/rs/zerolog"

	"github.com/aleister1102/livewatch/internal/config"
)

// Logger represents the main logger with configuration
type Logger struct {
	zerolog zerolog.Logger
	config  LoggerConfig
}

// GetZerolog returns the underlying zerolog instance
func (l *Logger) GetZerolog() *zerolog.Logger {
	return &l.zerolog
}

// Config returns the resolved configuration.
func (l *Logger) Config() LoggerConfig {
	return l.config
}

// New creates a logger from the log section of the configuration.
func New(cfg config.LogConfig) (zerolog.Logger, error) {
	logger, err := NewLoggerBuilder().WithConfig(cfg).Build()
	if err != nil {
		return zerolog.Logger{}, err
	}
	return *logger.GetZerolog(), nil
}
