package config

import "time"

// EvidenceConfig controls the HEAD probe of revealed resources.
type EvidenceConfig struct {
	ProbeTimeoutSecs int `json:"probe_timeout_secs,omitempty" yaml:"probe_timeout_secs,omitempty" validate:"omitempty,min=1"`
}

func NewDefaultEvidenceConfig() EvidenceConfig {
	return EvidenceConfig{ProbeTimeoutSecs: DefaultEvidenceProbeTimeoutSecs}
}

func (c EvidenceConfig) ProbeTimeout() time.Duration { return secs(c.ProbeTimeoutSecs) }

// ServerConfig defines the HTTP query surface.
type ServerConfig struct {
	ListenAddr       string `json:"listen_addr,omitempty" yaml:"listen_addr,omitempty" validate:"required,listenaddr"`
	ReadTimeoutSecs  int    `json:"read_timeout_secs,omitempty" yaml:"read_timeout_secs,omitempty" validate:"omitempty,min=1"`
	WriteTimeoutSecs int    `json:"write_timeout_secs,omitempty" yaml:"write_timeout_secs,omitempty" validate:"omitempty,min=1"`
	TemplatePath     string `json:"template_path,omitempty" yaml:"template_path,omitempty" validate:"omitempty,fileexists"`
	DashboardTitle   string `json:"dashboard_title,omitempty" yaml:"dashboard_title,omitempty"`
}

func NewDefaultServerConfig() ServerConfig {
	return ServerConfig{
		ListenAddr:       DefaultServerListenAddr,
		ReadTimeoutSecs:  DefaultServerReadTimeoutSecs,
		WriteTimeoutSecs: DefaultServerWriteTimeoutSecs,
	}
}

func (c ServerConfig) ReadTimeout() time.Duration  { return secs(c.ReadTimeoutSecs) }
func (c ServerConfig) WriteTimeout() time.Duration { return secs(c.WriteTimeoutSecs) }

// EPGConfig defines the XMLTV projection.
type EPGConfig struct {
	Timezone      string `json:"timezone,omitempty" yaml:"timezone,omitempty" validate:"omitempty,timezone"`
	GeneratorName string `json:"generator_name,omitempty" yaml:"generator_name,omitempty"`
}

func NewDefaultEPGConfig() EPGConfig {
	return EPGConfig{
		Timezone:      DefaultEPGTimezone,
		GeneratorName: DefaultEPGGeneratorName,
	}
}

// ResourceConfig defines the thresholds of the resource watcher behind
// the health endpoint.
type ResourceConfig struct {
	CheckIntervalSecs  int     `json:"check_interval_secs,omitempty" yaml:"check_interval_secs,omitempty" validate:"omitempty,min=1"`
	MaxMemoryMB        int64   `json:"max_memory_mb,omitempty" yaml:"max_memory_mb,omitempty" validate:"omitempty,min=1"`
	MaxGoroutines      int     `json:"max_goroutines,omitempty" yaml:"max_goroutines,omitempty" validate:"omitempty,min=1"`
	SystemMemThreshold float64 `json:"system_mem_threshold,omitempty" yaml:"system_mem_threshold,omitempty" validate:"omitempty,gt=0,lte=1"`
}

func NewDefaultResourceConfig() ResourceConfig {
	return ResourceConfig{
		CheckIntervalSecs:  DefaultResourceCheckIntervalSecs,
		MaxMemoryMB:        DefaultResourceMaxMemoryMB,
		MaxGoroutines:      DefaultResourceMaxGoroutines,
		SystemMemThreshold: DefaultResourceSystemMemThreshold,
	}
}

func (c ResourceConfig) CheckInterval() time.Duration { return secs(c.CheckIntervalSecs) }
