package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/aleister1102/livewatch/internal/common"
)

// WriterStrategy wraps a destination in a format-specific writer.
type WriterStrategy interface {
	CreateWriter(out io.Writer) io.Writer
}

// JSONWriterStrategy writes raw zerolog JSON lines.
type JSONWriterStrategy struct{}

func (JSONWriterStrategy) CreateWriter(out io.Writer) io.Writer { return out }

// ConsoleWriterStrategy writes human-readable lines.
type ConsoleWriterStrategy struct {
	NoColor bool
}

func (s ConsoleWriterStrategy) CreateWriter(out io.Writer) io.Writer {
	return zerolog.ConsoleWriter{Out: out, NoColor: s.NoColor, TimeFormat: time.RFC3339}
}

// TextWriterStrategy is the console layout without colors.
type TextWriterStrategy struct{}

func (TextWriterStrategy) CreateWriter(out io.Writer) io.Writer {
	return zerolog.ConsoleWriter{Out: out, NoColor: true, TimeFormat: time.RFC3339}
}

// WriterFactory creates writers based on format
type WriterFactory struct {
	strategies map[LogFormat]WriterStrategy
	console    io.Writer
}

// NewWriterFactory creates a new writer factory writing console output to
// stderr.
func NewWriterFactory() *WriterFactory {
	return &WriterFactory{
		strategies: map[LogFormat]WriterStrategy{
			FormatJSON:    JSONWriterStrategy{},
			FormatConsole: ConsoleWriterStrategy{},
			FormatText:    TextWriterStrategy{},
		},
		console: os.Stderr,
	}
}

// CreateConsoleWriter creates a console writer
func (wf *WriterFactory) CreateConsoleWriter(format LogFormat) io.Writer {
	strategy, exists := wf.strategies[format]
	if !exists {
		strategy = ConsoleWriterStrategy{}
	}
	return strategy.CreateWriter(wf.console)
}

// CreateFileWriter creates a rotating file writer and its directory.
// Console format is written without colors.
func (wf *WriterFactory) CreateFileWriter(config LoggerConfig) (io.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0o755); err != nil {
		return nil, common.WrapError(err, "failed to create log directory")
	}

	rotating := &lumberjack.Logger{
		Filename:   config.FilePath,
		MaxSize:    config.MaxSizeMB,
		MaxBackups: config.MaxBackups,
		LocalTime:  true,
	}

	if config.Format == FormatConsole {
		return ConsoleWriterStrategy{NoColor: true}.CreateWriter(rotating), nil
	}
	strategy, exists := wf.strategies[config.Format]
	if !exists {
		strategy = JSONWriterStrategy{}
	}
	return strategy.CreateWriter(rotating), nil
}
