package main

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/aleister1102/livewatch/internal/config"
	"github.com/aleister1102/livewatch/internal/evidence"
	"github.com/aleister1102/livewatch/internal/health"
	"github.com/aleister1102/livewatch/internal/httpclient"
	"github.com/aleister1102/livewatch/internal/listing"
	"github.com/aleister1102/livewatch/internal/monitor"
	"github.com/aleister1102/livewatch/internal/reporter"
	"github.com/aleister1102/livewatch/internal/reveal"
	"github.com/aleister1102/livewatch/internal/server"
)

const shutdownTimeout = 15 * time.Second

// application owns every long-lived component.
type application struct {
	cfg       *config.GlobalConfig
	logger    zerolog.Logger
	driver    reveal.Driver
	publisher *monitor.Publisher
	scheduler *monitor.Scheduler
	watcher   *health.ResourceWatcher
	server    *server.Server
}

func newApplication(cfg *config.GlobalConfig, logger zerolog.Logger) (*application, error) {
	crawlerCfg := cfg.CrawlerConfig

	clientBuilder := httpclient.NewHTTPClientBuilder(logger).
		WithTimeout(crawlerCfg.RequestTimeout()).
		WithMaxRedirects(crawlerCfg.MaxRedirects).
		WithUserAgent(crawlerCfg.UserAgent)
	for k, v := range crawlerCfg.CustomHeaders {
		clientBuilder.WithHeader(k, v)
	}
	client, err := clientBuilder.Build()
	if err != nil {
		return nil, err
	}

	fetcher := listing.NewFetcher(listing.FetcherConfig{
		UserAgent:        client.Config().UserAgent,
		RequestTimeout:   crawlerCfg.RequestTimeout(),
		Headers:          crawlerCfg.CustomHeaders,
		RespectRobotsTxt: crawlerCfg.RespectRobotsTxt,
		MaxBodySize:      crawlerCfg.MaxBodySizeMB << 20,
	}, client.Transport(), logger)

	classifier := listing.NewClassifier(selectorsFromConfig(crawlerCfg.Selectors), logger)

	browserCfg := cfg.BrowserConfig
	driver, err := reveal.NewDriver(reveal.DriverConfig{
		Backend:      browserCfg.Backend,
		ChromePath:   browserCfg.ChromePath,
		Headless:     browserCfg.Headless,
		WindowWidth:  browserCfg.WindowWidth,
		WindowHeight: browserCfg.WindowHeight,
		UserAgent:    client.Config().UserAgent,
	}, logger)
	if err != nil {
		return nil, err
	}
	actuator := reveal.NewActuator(driver, revealOptionsFromConfig(browserCfg), logger)

	prober := evidence.NewHeadProber(client, cfg.EvidenceConfig.ProbeTimeout(), logger)

	publisher := monitor.NewPublisher(monitor.PublisherConfig{
		ListingURLs:          crawlerCfg.ListingURLs,
		MaxConcurrentReveals: browserCfg.MaxConcurrentReveals,
	}, fetcher, classifier, actuator, prober, monitor.NewSnapshotStore(), logger)

	scheduler := monitor.NewScheduler(publisher, cfg.SchedulerConfig.Interval(), logger)

	resCfg := cfg.ResourceConfig
	watcher := health.NewResourceWatcher(health.WatcherConfig{
		CheckInterval:      resCfg.CheckInterval(),
		MaxMemoryMB:        resCfg.MaxMemoryMB,
		MaxGoroutines:      resCfg.MaxGoroutines,
		SystemMemThreshold: resCfg.SystemMemThreshold,
	}, logger)

	dashboard, err := reporter.NewHtmlReporter(reporter.HTMLReporterConfig{
		Title:        cfg.ServerConfig.DashboardTitle,
		TemplatePath: cfg.ServerConfig.TemplatePath,
	}, logger)
	if err != nil {
		_ = driver.Close()
		return nil, err
	}
	epg, err := reporter.NewEPGReporter(reporter.EPGConfig{
		Timezone:      cfg.EPGConfig.Timezone,
		GeneratorName: cfg.EPGConfig.GeneratorName,
	})
	if err != nil {
		_ = driver.Close()
		return nil, err
	}

	srv := server.NewServer(server.Config{
		ListenAddr:   cfg.ServerConfig.ListenAddr,
		ReadTimeout:  cfg.ServerConfig.ReadTimeout(),
		WriteTimeout: cfg.ServerConfig.WriteTimeout(),
	}, server.Dependencies{
		Snapshots: publisher.Store(),
		Scanner:   publisher,
		Scheduler: scheduler,
		Resources: watcher,
		Dashboard: dashboard,
		EPG:       epg,
	}, logger)

	return &application{
		cfg:       cfg,
		logger:    logger,
		driver:    driver,
		publisher: publisher,
		scheduler: scheduler,
		watcher:   watcher,
		server:    srv,
	}, nil
}

func selectorsFromConfig(s config.SelectorConfig) listing.Selectors {
	return listing.Selectors{
		Container:     s.Container,
		Category:      s.Category,
		League:        s.League,
		Card:          s.Card,
		TitleLink:     s.TitleLink,
		LiveBadge:     s.LiveBadge,
		UpcomingBadge: s.UpcomingBadge,
		StartTimeAttr: s.StartTimeAttr,
	}
}

func revealOptionsFromConfig(c config.BrowserConfig) reveal.Options {
	return reveal.Options{
		EmbedSelector:   c.EmbedSelector,
		ClickSelectors:  c.ClickSelectors,
		PageLoadTimeout: c.PageLoadTimeout(),
		ReadyWait:       c.ReadyWait(),
		ClickWait:       c.ClickWait(),
		KeyWait:         c.KeyWait(),
		RevealTimeout:   c.RevealTimeout(),
	}
}

// applyReload carries the reloadable settings into the running components.
func (a *application) applyReload(cfg *config.GlobalConfig) {
	a.publisher.SetListingURLs(cfg.CrawlerConfig.ListingURLs)
	a.logger.Info().Strs("listing_urls", cfg.CrawlerConfig.ListingURLs).Msg("Listing URLs updated from configuration")
}

// runOnce runs a single cycle and writes the report JSON to w.
func (a *application) runOnce(ctx context.Context, w io.Writer) error {
	if err := a.publisher.RunCycle(ctx); err != nil {
		return err
	}
	return reporter.WriteJSONReport(w, a.publisher.Store().Current())
}

// run serves HTTP and runs the scheduler until ctx ends or the server
// fails.
func (a *application) run(ctx context.Context) error {
	a.watcher.Start(ctx)
	defer a.watcher.Stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.server.Start()
	})

	g.Go(func() error {
		err := a.scheduler.Start(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info().Msg("Shutting down")
		a.scheduler.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close releases the browser.
func (a *application) Close() error {
	return a.driver.Close()
}
