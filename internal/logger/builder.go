package logger

import (
	"io"
	stdlog "log"

	"github.com/rs/zerolog"

	"github.com/aleister1102/livewatch/internal/common"
	"github.com/aleister1102/livewatch/internal/config"
)

// LoggerBuilder provides fluent interface for building loggers
type LoggerBuilder struct {
	config    LoggerConfig
	factory   *WriterFactory
	converter *ConfigConverter
}

// NewLoggerBuilder creates a new logger builder
func NewLoggerBuilder() *LoggerBuilder {
	return &LoggerBuilder{
		config:    DefaultLoggerConfig(),
		factory:   NewWriterFactory(),
		converter: NewConfigConverter(),
	}
}

// WithConfig sets the logger configuration
func (lb *LoggerBuilder) WithConfig(cfg config.LogConfig) *LoggerBuilder {
	lb.config = lb.converter.ConvertConfig(cfg)
	return lb
}

// WithLevel overrides the level from the configuration.
func (lb *LoggerBuilder) WithLevel(level zerolog.Level) *LoggerBuilder {
	lb.config.Level = level
	return lb
}

// WithConsoleOutput redirects console output, which defaults to stderr.
func (lb *LoggerBuilder) WithConsoleOutput(w io.Writer) *LoggerBuilder {
	lb.factory.console = w
	return lb
}

// Build creates the logger instance
func (lb *LoggerBuilder) Build() (*Logger, error) {
	if err := lb.validateConfig(); err != nil {
		return nil, err
	}

	writers, err := lb.createWriters()
	if err != nil {
		return nil, err
	}
	if len(writers) == 0 {
		return nil, common.NewError("no output writers configured")
	}

	zerologInstance := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lb.config.Level).
		With().
		Timestamp().
		Logger()

	zerolog.SetGlobalLevel(lb.config.Level)
	lb.configureStandardLog(zerologInstance)

	return &Logger{zerolog: zerologInstance, config: lb.config}, nil
}

func (lb *LoggerBuilder) validateConfig() error {
	if lb.config.EnableFile && lb.config.FilePath == "" {
		return common.NewValidationError("file_path", lb.config.FilePath, "file path required when file logging enabled")
	}
	if lb.config.MaxSizeMB <= 0 {
		return common.NewValidationError("max_size_mb", lb.config.MaxSizeMB, "max size must be positive")
	}
	return nil
}

func (lb *LoggerBuilder) createWriters() ([]io.Writer, error) {
	var writers []io.Writer
	if lb.config.EnableConsole {
		writers = append(writers, lb.factory.CreateConsoleWriter(lb.config.Format))
	}
	if lb.config.EnableFile {
		fileWriter, err := lb.factory.CreateFileWriter(lb.config)
		if err != nil {
			return nil, err
		}
		writers = append(writers, fileWriter)
	}
	return writers, nil
}

// configureStandardLog routes the standard library logger, used by some
// dependencies, through zerolog.
func (lb *LoggerBuilder) configureStandardLog(logger zerolog.Logger) {
	stdlog.SetOutput(logger)
	stdlog.SetFlags(0)
}
