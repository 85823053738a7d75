package config

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/aleister1102/livewatch/internal/common"
)

// GlobalConfig contains all configuration sections for the application
type GlobalConfig struct {
	CrawlerConfig   CrawlerConfig   `json:"crawler,omitempty" yaml:"crawler,omitempty"`
	BrowserConfig   BrowserConfig   `json:"browser,omitempty" yaml:"browser,omitempty"`
	EvidenceConfig  EvidenceConfig  `json:"evidence,omitempty" yaml:"evidence,omitempty"`
	SchedulerConfig SchedulerConfig `json:"scheduler,omitempty" yaml:"scheduler,omitempty"`
	ServerConfig    ServerConfig    `json:"server,omitempty" yaml:"server,omitempty"`
	EPGConfig       EPGConfig       `json:"epg,omitempty" yaml:"epg,omitempty"`
	ResourceConfig  ResourceConfig  `json:"resources,omitempty" yaml:"resources,omitempty"`
	LogConfig       LogConfig       `json:"log_config,omitempty" yaml:"log_config,omitempty"`
	// HotReload re-reads the file when it changes and applies the listing
	// URLs to the next cycle.
	HotReload bool `json:"hot_reload" yaml:"hot_reload"`
}

// NewDefaultGlobalConfig creates a new GlobalConfig with default values
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		CrawlerConfig:   NewDefaultCrawlerConfig(),
		BrowserConfig:   NewDefaultBrowserConfig(),
		EvidenceConfig:  NewDefaultEvidenceConfig(),
		SchedulerConfig: NewDefaultSchedulerConfig(),
		ServerConfig:    NewDefaultServerConfig(),
		EPGConfig:       NewDefaultEPGConfig(),
		ResourceConfig:  NewDefaultResourceConfig(),
		LogConfig:       NewDefaultLogConfig(),
	}
}

// Clone returns a deep copy.
func (c *GlobalConfig) Clone() *GlobalConfig {
	if c == nil {
		return NewDefaultGlobalConfig()
	}
	dst := *c
	dst.CrawlerConfig.ListingURLs = slices.Clone(c.CrawlerConfig.ListingURLs)
	dst.CrawlerConfig.CustomHeaders = maps.Clone(c.CrawlerConfig.CustomHeaders)
	dst.BrowserConfig.ClickSelectors = slices.Clone(c.BrowserConfig.ClickSelectors)
	return &dst
}

// LoadGlobalConfig loads the configuration from a file or default locations.
// It determines the config file path using GetConfigPath, supports both JSON and YAML formats.
// YAML is used if the file extension is .yaml or .yml.
// Fields missing from the file keep their defaults.
func LoadGlobalConfig(providedPath string) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()

	filePath := GetConfigPath(providedPath)
	if filePath == "" {
		return cfg, nil
	}
	if !fileExists(filePath) {
		return nil, common.NewValidationError("config_file", filePath, "config file does not exist")
	}

	data, err := loadConfigFileContent(filePath)
	if err != nil {
		return nil, common.WrapError(err, "failed to load config file content")
	}

	if err := parseConfigContent(data, filePath, cfg); err != nil {
		return nil, common.WrapError(err, "failed to parse config content")
	}

	return cfg, nil
}

// loadConfigFileContent reads the config file, refusing oversized files
func loadConfigFileContent(filePath string) ([]byte, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxConfigFileSize {
		return nil, common.NewValidationError("config_file", filePath, fmt.Sprintf("file exceeds %d bytes", maxConfigFileSize))
	}
	return os.ReadFile(filePath)
}

// parseConfigContent parses the config content based on file extension
func parseConfigContent(data []byte, filePath string, cfg *GlobalConfig) error {
	ext := filepath.Ext(filePath)
	if isYAMLFile(ext) {
		return parseYAMLConfig(data, filePath, cfg)
	}
	return parseJSONConfig(data, filePath, cfg)
}

// isYAMLFile checks if the file extension indicates a YAML file
func isYAMLFile(ext string) bool {
	return ext == ".yaml" || ext == ".yml"
}

func parseYAMLConfig(data []byte, filePath string, cfg *GlobalConfig) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return common.NewError("failed to unmarshal YAML from '%s': %w", filePath, err)
	}
	return nil
}

func parseJSONConfig(data []byte, filePath string, cfg *GlobalConfig) error {
	if err := json.Unmarshal(data, cfg); err != nil {
		return common.NewError("failed to unmarshal JSON from '%s': %w", filePath, err)
	}
	return nil
}
