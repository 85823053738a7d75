package logger

import (
	"github.com/rs/zerolog"

	"github.com/aleister1102/livewatch/internal/config"
)

// ConfigConverter converts config.LogConfig to LoggerConfig
type ConfigConverter struct {
	levelParser  *LogLevelParser
	formatParser *LogFormatParser
}

// NewConfigConverter creates a new config converter
func NewConfigConverter() *ConfigConverter {
	return &ConfigConverter{
		levelParser:  NewLogLevelParser(),
		formatParser: NewLogFormatParser(),
	}
}

// ConvertConfig converts application config to logger config. An
// unparseable level falls back to info.
func (cc *ConfigConverter) ConvertConfig(cfg config.LogConfig) LoggerConfig {
	level, err := cc.levelParser.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	return LoggerConfig{
		Level:         level,
		Format:        cc.formatParser.ParseFormat(cfg.LogFormat),
		EnableConsole: true,
		EnableFile:    cfg.LogFile != "",
		FilePath:      cfg.LogFile,
		MaxSizeMB:     orDefault(cfg.MaxLogSizeMB, config.DefaultMaxLogSizeMB),
		MaxBackups:    orDefault(cfg.MaxLogBackups, config.DefaultMaxLogBackups),
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
