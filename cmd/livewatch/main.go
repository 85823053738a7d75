package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/aleister1102/livewatch/internal/config"
	"github.com/aleister1102/livewatch/internal/logger"
)

func main() {
	flags, err := ParseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, flags, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, flags AppFlags, stdout io.Writer) error {
	manager, err := config.NewConfigManager(flags.ConfigFile, config.DefaultConfigManagerOptions())
	if err != nil {
		return err
	}
	defer manager.Close()

	gCfg := manager.GetConfig()
	applyFlagOverrides(gCfg, flags)
	if err := config.ValidateConfig(gCfg); err != nil {
		return err
	}

	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		return fmt.Errorf("could not initialize logger: %w", err)
	}
	manager.SetLogger(zLogger)
	zLogger.Info().
		Str("config_path", manager.GetConfigPath()).
		Strs("listing_urls", gCfg.CrawlerConfig.ListingURLs).
		Str("browser_backend", gCfg.BrowserConfig.Backend).
		Msg("livewatch starting")

	app, err := newApplication(gCfg, zLogger)
	if err != nil {
		return fmt.Errorf("could not initialize components: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			zLogger.Warn().Err(err).Msg("Failed to close browser")
		}
	}()

	if flags.Once {
		return app.runOnce(ctx, stdout)
	}

	manager.OnReload(app.applyReload)
	manager.StartHotReload(ctx)

	err = app.run(ctx)
	zLogger.Info().Msg("livewatch stopped")
	return err
}

// applyFlagOverrides lets non-empty flags take precedence over the file.
func applyFlagOverrides(cfg *config.GlobalConfig, flags AppFlags) {
	if flags.ListenAddr != "" {
		cfg.ServerConfig.ListenAddr = flags.ListenAddr
	}
	if flags.LogLevel != "" {
		cfg.LogConfig.LogLevel = flags.LogLevel
	}
}
