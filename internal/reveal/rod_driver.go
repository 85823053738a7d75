package reveal

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"

	"github.com/aleister1102/livewatch/internal/common"
)

// RodDriver launches one shared browser on first use and gives every
// session its own incognito context.
type RodDriver struct {
	config   DriverConfig
	logger   zerolog.Logger
	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// NewRodDriver creates a rod-backed driver. No browser is started until the
// first session is requested.
func NewRodDriver(config DriverConfig, logger zerolog.Logger) *RodDriver {
	return &RodDriver{
		config: config,
		logger: logger.With().Str("component", "RodDriver").Logger(),
	}
}

func (d *RodDriver) ensureBrowser() (*rod.Browser, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.browser != nil {
		return d.browser, nil
	}

	l := launcher.New().Headless(d.config.Headless)
	if d.config.ChromePath != "" {
		l = l.Bin(d.config.ChromePath)
	}
	l = l.
		Set("no-sandbox").
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("disable-extensions").
		Set("autoplay-policy", "no-user-gesture-required").
		Set("window-size", fmt.Sprintf("%d,%d", d.config.WindowWidth, d.config.WindowHeight))
	if d.config.UserAgent != "" {
		l = l.Set("user-agent", d.config.UserAgent)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, common.WrapError(err, "failed to launch browser")
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, common.WrapError(err, "failed to connect browser")
	}

	d.launcher = l
	d.browser = browser
	d.logger.Info().Bool("headless", d.config.Headless).Msg("Browser launched")
	return browser, nil
}

// NewSession opens an incognito page.
func (d *RodDriver) NewSession(ctx context.Context) (Session, error) {
	browser, err := d.ensureBrowser()
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	incognito, err := browser.Incognito()
	if err != nil {
		return nil, common.WrapError(err, "failed to create incognito context")
	}
	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = incognito.Close()
		return nil, common.WrapError(err, "failed to open page")
	}

	return &rodSession{browser: incognito, page: page}, nil
}

// Close shuts the shared browser down.
func (d *RodDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.browser == nil {
		return nil
	}
	err := d.browser.Close()
	if d.launcher != nil {
		d.launcher.Cleanup()
	}
	d.browser = nil
	d.launcher = nil
	d.logger.Info().Msg("Browser closed")
	return err
}

type rodSession struct {
	browser *rod.Browser
	page    *rod.Page
}

func (s *rodSession) Navigate(ctx context.Context, url string) error {
	return s.page.Context(ctx).Navigate(url)
}

func (s *rodSession) ReadyState(ctx context.Context) (string, error) {
	res, err := s.page.Context(ctx).Eval(readyStateJS)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

func (s *rodSession) first(ctx context.Context, selector string) (*rod.Element, error) {
	els, err := s.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, err
	}
	return els.First(), nil
}

func (s *rodSession) FirstAttr(ctx context.Context, selector, attr string) (string, bool, error) {
	el, err := s.first(ctx, selector)
	if err != nil || el == nil {
		return "", false, err
	}
	value, err := el.Attribute(attr)
	if err != nil {
		return "", true, err
	}
	if value == nil {
		return "", true, nil
	}
	return *value, true, nil
}

func (s *rodSession) HasMatch(ctx context.Context, selector string) (bool, error) {
	el, err := s.first(ctx, selector)
	return el != nil, err
}

func (s *rodSession) withElement(ctx context.Context, selector string, fn func(*rod.Element) error) error {
	el, err := s.first(ctx, selector)
	if err != nil {
		return err
	}
	if el == nil {
		return fmt.Errorf("selector %q matched nothing: %w", selector, common.ErrNotFound)
	}
	return fn(el)
}

func (s *rodSession) ScrollIntoView(ctx context.Context, selector string) error {
	return s.withElement(ctx, selector, func(el *rod.Element) error {
		_, err := el.Eval(scrollIntoViewJS)
		return err
	})
}

func (s *rodSession) Click(ctx context.Context, selector string) error {
	return s.withElement(ctx, selector, func(el *rod.Element) error {
		return el.Click(proto.InputMouseButtonLeft, 1)
	})
}

func (s *rodSession) ScriptClick(ctx context.Context, selector string) error {
	return s.withElement(ctx, selector, func(el *rod.Element) error {
		_, err := el.Eval(scriptClickJS)
		return err
	})
}

func (s *rodSession) PressSpace(ctx context.Context) error {
	_, err := s.page.Context(ctx).Eval(pressSpaceJS)
	return err
}

func (s *rodSession) Close() error {
	pageErr := s.page.Close()
	if err := s.browser.Close(); err != nil {
		return err
	}
	return pageErr
}
