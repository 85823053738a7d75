package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// ReloadFunc receives a copy of the configuration after a successful reload.
type ReloadFunc func(cfg *GlobalConfig)

// ConfigManager holds the active configuration and optionally reloads it
// when the file changes on disk.
type ConfigManager struct {
	mu         sync.RWMutex
	config     *GlobalConfig
	configPath string
	logger     zerolog.Logger
	watcher    *fsnotify.Watcher
	stopChan   chan struct{}
	stopOnce   sync.Once
	listeners  []ReloadFunc

	hotReloadEnabled bool
	reloadDelay      time.Duration
}

// ConfigManagerOptions holds options for creating a ConfigManager
type ConfigManagerOptions struct {
	Logger zerolog.Logger
	// HotReloadEnabled forces hot-reload on. The file's hot_reload setting
	// can also turn it on.
	HotReloadEnabled bool
	ReloadDelay      time.Duration
}

// DefaultConfigManagerOptions returns default options for ConfigManager
func DefaultConfigManagerOptions() ConfigManagerOptions {
	return ConfigManagerOptions{
		Logger:      zerolog.Nop(),
		ReloadDelay: 2 * time.Second,
	}
}

// NewConfigManager loads and validates the configuration at configPath,
// falling back to the default lookup when configPath is empty.
func NewConfigManager(configPath string, opts ConfigManagerOptions) (*ConfigManager, error) {
	if opts.ReloadDelay <= 0 {
		opts.ReloadDelay = DefaultConfigManagerOptions().ReloadDelay
	}
	cm := &ConfigManager{
		configPath:       GetConfigPath(configPath),
		logger:           opts.Logger.With().Str("component", "ConfigManager").Logger(),
		stopChan:         make(chan struct{}),
		hotReloadEnabled: opts.HotReloadEnabled,
		reloadDelay:      opts.ReloadDelay,
	}
	if cm.configPath != "" {
		if abs, err := filepath.Abs(cm.configPath); err == nil {
			cm.configPath = abs
		}
	}

	if err := cm.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load initial configuration: %w", err)
	}

	cm.hotReloadEnabled = cm.hotReloadEnabled || cm.config.HotReload
	if cm.hotReloadEnabled {
		if cm.configPath == "" {
			cm.logger.Warn().Msg("No config file to watch, hot-reload disabled")
			cm.hotReloadEnabled = false
		} else if err := cm.setupFileWatcher(); err != nil {
			cm.logger.Warn().Err(err).Msg("Failed to setup file watcher, hot-reload disabled")
			cm.hotReloadEnabled = false
		}
	}

	return cm, nil
}

// GetConfig returns a copy of the current configuration.
func (cm *ConfigManager) GetConfig() *GlobalConfig {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config.Clone()
}

// GetConfigPath returns the resolved configuration file path, or "" when
// defaults are in use.
func (cm *ConfigManager) GetConfigPath() string {
	return cm.configPath
}

// IsHotReloadEnabled returns whether hot-reload is enabled
func (cm *ConfigManager) IsHotReloadEnabled() bool {
	return cm.hotReloadEnabled
}

// SetLogger replaces the logger given at construction. Call it before
// StartHotReload.
func (cm *ConfigManager) SetLogger(logger zerolog.Logger) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.logger = logger.With().Str("component", "ConfigManager").Logger()
}

// OnReload registers fn to run after each successful reload.
func (cm *ConfigManager) OnReload(fn ReloadFunc) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.listeners = append(cm.listeners, fn)
}

// ReloadConfig re-reads the file. On failure the previous configuration
// stays active.
func (cm *ConfigManager) ReloadConfig() error {
	cm.mu.Lock()
	if err := cm.loadConfig(); err != nil {
		cm.logger.Error().Err(err).Str("path", cm.configPath).Msg("Failed to reload configuration, keeping previous one")
		cm.mu.Unlock()
		return err
	}
	listeners := append([]ReloadFunc(nil), cm.listeners...)
	cfg := cm.config.Clone()
	cm.mu.Unlock()

	for _, fn := range listeners {
		fn(cfg.Clone())
	}
	return nil
}

// StartHotReload starts the hot-reload goroutine (non-blocking)
func (cm *ConfigManager) StartHotReload(ctx context.Context) {
	if !cm.hotReloadEnabled {
		return
	}
	go cm.hotReloadLoop(ctx)
}

// Close stops the hot-reload loop and the file watcher.
func (cm *ConfigManager) Close() error {
	var err error
	cm.stopOnce.Do(func() {
		close(cm.stopChan)
		if cm.watcher != nil {
			err = cm.watcher.Close()
		}
	})
	return err
}

// loadConfig assumes the write lock is held or the manager is not yet shared.
func (cm *ConfigManager) loadConfig() error {
	cfg, err := LoadGlobalConfig(cm.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := ValidateConfig(cfg); err != nil {
		return err
	}
	cm.config = cfg
	cm.logger.Info().Str("path", cm.configPath).Msg("Configuration loaded successfully")
	return nil
}

func (cm *ConfigManager) setupFileWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory so editors that replace the file are still seen.
	configDir := filepath.Dir(cm.configPath)
	if err := watcher.Add(configDir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch config directory '%s': %w", configDir, err)
	}

	cm.watcher = watcher
	cm.logger.Info().Str("directory", configDir).Msg("File watcher setup for hot-reload")
	return nil
}

func (cm *ConfigManager) hotReloadLoop(ctx context.Context) {
	cm.mu.RLock()
	logger := cm.logger
	cm.mu.RUnlock()

	reloadTimer := time.NewTimer(cm.reloadDelay)
	reloadTimer.Stop()
	defer reloadTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Hot-reload loop stopped due to context cancellation")
			return

		case <-cm.stopChan:
			logger.Info().Msg("Hot-reload loop stopped")
			return

		case event, ok := <-cm.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != cm.configPath {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("Config file change detected")
				// Debounce bursts of writes from a single save.
				reloadTimer.Reset(cm.reloadDelay)
			}

		case err, ok := <-cm.watcher.Errors:
			if !ok {
				return
			}
			logger.Error().Err(err).Msg("File watcher error")

		case <-reloadTimer.C:
			logger.Info().Msg("Reloading configuration due to file change")
			if err := cm.ReloadConfig(); err == nil {
				logger.Info().Msg("Configuration reloaded successfully")
			}
		}
	}
}
