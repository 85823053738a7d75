package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleister1102/livewatch/internal/common"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *GlobalConfig)
		wantErr string
	}{
		{
			name:   "defaults",
			mutate: func(cfg *GlobalConfig) {},
		},
		{
			name:   "chromedp backend is case insensitive",
			mutate: func(cfg *GlobalConfig) { cfg.BrowserConfig.Backend = "ChromeDP" },
		},
		{
			name:    "no listing urls",
			mutate:  func(cfg *GlobalConfig) { cfg.CrawlerConfig.ListingURLs = nil },
			wantErr: "CrawlerConfig.ListingURLs",
		},
		{
			name:    "malformed listing url",
			mutate:  func(cfg *GlobalConfig) { cfg.CrawlerConfig.ListingURLs = []string{"not a url"} },
			wantErr: "CrawlerConfig.ListingURLs[0]': rule 'url'",
		},
		{
			name:    "unknown backend",
			mutate:  func(cfg *GlobalConfig) { cfg.BrowserConfig.Backend = "selenium" },
			wantErr: "rule 'browserbackend'",
		},
		{
			name:    "unknown timezone",
			mutate:  func(cfg *GlobalConfig) { cfg.EPGConfig.Timezone = "Mars/Olympus" },
			wantErr: "rule 'timezone'",
		},
		{
			name:    "bad log level",
			mutate:  func(cfg *GlobalConfig) { cfg.LogConfig.LogLevel = "verbose" },
			wantErr: "rule 'loglevel'",
		},
		{
			name:    "bad log format",
			mutate:  func(cfg *GlobalConfig) { cfg.LogConfig.LogFormat = "xml" },
			wantErr: "rule 'logformat'",
		},
		{
			name:    "zero interval",
			mutate:  func(cfg *GlobalConfig) { cfg.SchedulerConfig.IntervalSecs = 0 },
			wantErr: "SchedulerConfig.IntervalSecs",
		},
		{
			name:    "missing chrome binary",
			mutate:  func(cfg *GlobalConfig) { cfg.BrowserConfig.ChromePath = "/nonexistent/chrome" },
			wantErr: "rule 'fileexists'",
		},
		{
			name:   "ephemeral port",
			mutate: func(cfg *GlobalConfig) { cfg.ServerConfig.ListenAddr = "127.0.0.1:0" },
		},
		{
			name:    "bad listen address",
			mutate:  func(cfg *GlobalConfig) { cfg.ServerConfig.ListenAddr = "nowhere" },
			wantErr: "rule 'listenaddr'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultGlobalConfig()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrInvalidConfiguration)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateConfig_Nil(t *testing.T) {
	assert.Error(t, ValidateConfig(nil))
}
