// Package health reports liveness and resource usage of the service.
package health

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// WatcherConfig holds the thresholds the watcher warns about.
type WatcherConfig struct {
	CheckInterval      time.Duration
	MaxMemoryMB        int64
	MaxGoroutines      int
	SystemMemThreshold float64 // fraction of system memory, 0.9 = 90%
}

// DefaultWatcherConfig returns default configuration
func DefaultWatcherConfig() WatcherConfig {
	return WatcherConfig{
		CheckInterval:      30 * time.Second,
		MaxMemoryMB:        1024,
		MaxGoroutines:      10000,
		SystemMemThreshold: 0.9,
	}
}

// ResourceWatcher samples resource usage periodically and logs when a
// threshold is crossed. Headless browsers are the usual culprit.
type ResourceWatcher struct {
	config WatcherConfig
	logger zerolog.Logger

	mu        sync.RWMutex
	latest    ResourceUsage
	sampledAt time.Time
	isRunning bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewResourceWatcher creates a watcher. Zero fields take defaults.
func NewResourceWatcher(config WatcherConfig, logger zerolog.Logger) *ResourceWatcher {
	d := DefaultWatcherConfig()
	if config.CheckInterval <= 0 {
		config.CheckInterval = d.CheckInterval
	}
	if config.MaxMemoryMB <= 0 {
		config.MaxMemoryMB = d.MaxMemoryMB
	}
	if config.MaxGoroutines <= 0 {
		config.MaxGoroutines = d.MaxGoroutines
	}
	if config.SystemMemThreshold <= 0 {
		config.SystemMemThreshold = d.SystemMemThreshold
	}
	return &ResourceWatcher{
		config: config,
		logger: logger.With().Str("component", "ResourceWatcher").Logger(),
	}
}

// Start begins sampling in the background.
func (w *ResourceWatcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.isRunning {
		w.mu.Unlock()
		return
	}
	w.isRunning = true
	ctx, w.cancel = context.WithCancel(ctx)
	w.mu.Unlock()

	w.Sample(ctx)

	w.wg.Add(1)
	go w.loop(ctx)

	w.logger.Info().
		Int64("max_memory_mb", w.config.MaxMemoryMB).
		Int("max_goroutines", w.config.MaxGoroutines).
		Dur("check_interval", w.config.CheckInterval).
		Msg("Resource watcher started")
}

// Stop stops the background sampling.
func (w *ResourceWatcher) Stop() {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return
	}
	w.isRunning = false
	cancel := w.cancel
	w.mu.Unlock()

	cancel()
	w.wg.Wait()
	w.logger.Info().Msg("Resource watcher stopped")
}

func (w *ResourceWatcher) loop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Sample(ctx)
		}
	}
}

// Sample takes a fresh reading, stores it and logs threshold warnings.
func (w *ResourceWatcher) Sample(ctx context.Context) ResourceUsage {
	usage := GetResourceUsage(ctx)

	w.mu.Lock()
	w.latest = usage
	w.sampledAt = time.Now()
	w.mu.Unlock()

	w.logWarnings(usage)
	w.logger.Debug().
		Int64("alloc_mb", usage.AllocMB).
		Int("goroutines", usage.Goroutines).
		Float64("system_mem_percent", usage.SystemMemUsedPercent).
		Float64("cpu_percent", usage.CPUUsagePercent).
		Msg("Current resource usage")
	return usage
}

// Latest returns the most recent reading. If none was taken yet, it
// samples synchronously.
func (w *ResourceWatcher) Latest(ctx context.Context) ResourceUsage {
	w.mu.RLock()
	latest, at := w.latest, w.sampledAt
	w.mu.RUnlock()

	if at.IsZero() {
		return w.Sample(ctx)
	}
	return latest
}

func (w *ResourceWatcher) logWarnings(usage ResourceUsage) {
	if usage.AllocMB > w.config.MaxMemoryMB {
		w.logger.Warn().
			Int64("current_mb", usage.AllocMB).
			Int64("limit_mb", w.config.MaxMemoryMB).
			Msg("Memory usage above limit")
	}
	if usage.Goroutines > w.config.MaxGoroutines {
		w.logger.Warn().
			Int("current", usage.Goroutines).
			Int("limit", w.config.MaxGoroutines).
			Msg("Goroutine count above limit")
	}
	if usage.SystemMemUsedPercent/100.0 > w.config.SystemMemThreshold {
		w.logger.Warn().
			Float64("used_percent", usage.SystemMemUsedPercent).
			Float64("threshold_percent", w.config.SystemMemThreshold*100).
			Int64("used_mb", usage.SystemMemUsedMB).
			Int64("total_mb", usage.SystemMemTotalMB).
			Msg("System memory usage exceeded threshold")
	}
}
