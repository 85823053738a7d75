package reveal

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"

	"github.com/aleister1102/livewatch/internal/common"
)

// ChromedpDriver starts a separate browser process for every session.
type ChromedpDriver struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	logger      zerolog.Logger
}

// NewChromedpDriver prepares an exec allocator. Nothing is started until a
// session is requested.
func NewChromedpDriver(config DriverConfig, logger zerolog.Logger) *ChromedpDriver {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", config.Headless),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("autoplay-policy", "no-user-gesture-required"),
		chromedp.WindowSize(config.WindowWidth, config.WindowHeight),
	)
	if config.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(config.UserAgent))
	}
	if config.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(config.ChromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &ChromedpDriver{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		logger:      logger.With().Str("component", "ChromedpDriver").Logger(),
	}
}

// NewSession starts a browser and waits for its first tab.
func (d *ChromedpDriver) NewSession(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browserCtx, cancel := chromedp.NewContext(d.allocCtx)
	// The first Run allocates the browser. It must happen on browserCtx
	// itself: cancelling a derived context would close the browser.
	started := make(chan error, 1)
	go func() { started <- chromedp.Run(browserCtx) }()

	select {
	case err := <-started:
		if err != nil {
			cancel()
			return nil, common.WrapError(err, "failed to start browser")
		}
	case <-ctx.Done():
		cancel()
		return nil, ctx.Err()
	}

	return &chromedpSession{ctx: browserCtx, cancel: cancel}, nil
}

// Close stops the allocator and any browser still running.
func (d *ChromedpDriver) Close() error {
	d.allocCancel()
	return nil
}

type chromedpSession struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// run executes actions on the session's tab, stopping early if ctx ends.
func (s *chromedpSession) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}

func (s *chromedpSession) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, chromedp.Navigate(url))
}

func (s *chromedpSession) ReadyState(ctx context.Context) (string, error) {
	var state string
	err := s.run(ctx, chromedp.Evaluate(`document.readyState`, &state))
	return state, err
}

func (s *chromedpSession) firstNode(ctx context.Context, selector string) (*cdp.Node, error) {
	var nodes []*cdp.Node
	if err := s.run(ctx, chromedp.Nodes(selector, &nodes, chromedp.ByQuery, chromedp.AtLeast(0))); err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, nil
	}
	return nodes[0], nil
}

func (s *chromedpSession) FirstAttr(ctx context.Context, selector, attr string) (string, bool, error) {
	node, err := s.firstNode(ctx, selector)
	if err != nil || node == nil {
		return "", false, err
	}
	return node.AttributeValue(attr), true, nil
}

func (s *chromedpSession) HasMatch(ctx context.Context, selector string) (bool, error) {
	node, err := s.firstNode(ctx, selector)
	return node != nil, err
}

func (s *chromedpSession) ScrollIntoView(ctx context.Context, selector string) error {
	return s.evalOnElement(ctx, selector, "scrollIntoView({block: 'center'})")
}

func (s *chromedpSession) Click(ctx context.Context, selector string) error {
	return s.run(ctx, chromedp.Click(selector, chromedp.ByQuery))
}

func (s *chromedpSession) ScriptClick(ctx context.Context, selector string) error {
	return s.evalOnElement(ctx, selector, "click()")
}

func (s *chromedpSession) PressSpace(ctx context.Context) error {
	return s.run(ctx, chromedp.Evaluate("("+pressSpaceJS+")()", nil))
}

// evalOnElement calls method on the first element matching selector.
func (s *chromedpSession) evalOnElement(ctx context.Context, selector, method string) error {
	quoted, err := json.Marshal(selector)
	if err != nil {
		return err
	}
	var found bool
	expr := fmt.Sprintf(`(() => { const el = document.querySelector(%s); if (!el) return false; el.%s; return true; })()`, quoted, method)
	if err := s.run(ctx, chromedp.Evaluate(expr, &found)); err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("selector %q matched nothing: %w", selector, common.ErrNotFound)
	}
	return nil
}

func (s *chromedpSession) Close() error {
	s.cancel()
	return nil
}
