package reveal

import (
	"context"
	"time"
)

// Strategy is one step of the reveal chain. Attempt reports the raw embed
// src when the step surfaced one. Failures inside a step are not errors;
// they simply yield ok == false.
type Strategy interface {
	Name() string
	// Budget bounds a single Attempt.
	Budget() time.Duration
	Attempt(ctx context.Context, session Session) (src string, ok bool)
}

// BuildStrategies returns the standard chain: an already present embed,
// then one click attempt per control selector, then the space key.
func BuildStrategies(opts Options) []Strategy {
	opts = opts.withDefaults()
	probe := embedProbe{selector: opts.EmbedSelector, interval: opts.PollInterval}

	strategies := make([]Strategy, 0, len(opts.ClickSelectors)+2)
	strategies = append(strategies, existingEmbed{probe: probe, budget: opts.ActionTimeout})
	for _, selector := range opts.ClickSelectors {
		strategies = append(strategies, clickControl{
			selector:      selector,
			probe:         probe,
			wait:          opts.ClickWait,
			actionTimeout: opts.ActionTimeout,
		})
	}
	strategies = append(strategies, activateKey{
		probe:         probe,
		wait:          opts.KeyWait,
		actionTimeout: opts.ActionTimeout,
	})
	return strategies
}

// embedProbe looks for the embed element and its src.
type embedProbe struct {
	selector string
	interval time.Duration
}

func (p embedProbe) check(ctx context.Context, session Session) (string, bool) {
	src, present, err := session.FirstAttr(ctx, p.selector, "src")
	if err != nil || !present || src == "" {
		return "", false
	}
	return src, true
}

// waitFor polls until the embed shows a src, wait elapses or ctx ends.
func (p embedProbe) waitFor(ctx context.Context, session Session, wait time.Duration) (string, bool) {
	waitCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if src, ok := p.check(waitCtx, session); ok {
			return src, true
		}
		select {
		case <-waitCtx.Done():
			// final look once the wait has expired
			return p.check(ctx, session)
		case <-ticker.C:
		}
	}
}

type existingEmbed struct {
	probe  embedProbe
	budget time.Duration
}

func (s existingEmbed) Name() string          { return "existing-embed" }
func (s existingEmbed) Budget() time.Duration { return s.budget }

func (s existingEmbed) Attempt(ctx context.Context, session Session) (string, bool) {
	return s.probe.check(ctx, session)
}

type clickControl struct {
	selector      string
	probe         embedProbe
	wait          time.Duration
	actionTimeout time.Duration
}

func (s clickControl) Name() string { return "click:" + s.selector }

func (s clickControl) Budget() time.Duration {
	return s.wait + 3*s.actionTimeout
}

func (s clickControl) Attempt(ctx context.Context, session Session) (string, bool) {
	matched, err := session.HasMatch(ctx, s.selector)
	if err != nil || !matched {
		return "", false
	}

	actionCtx, cancel := context.WithTimeout(ctx, s.actionTimeout)
	_ = session.ScrollIntoView(actionCtx, s.selector)
	cancel()

	actionCtx, cancel = context.WithTimeout(ctx, s.actionTimeout)
	err = session.Click(actionCtx, s.selector)
	cancel()
	if err != nil {
		actionCtx, cancel = context.WithTimeout(ctx, s.actionTimeout)
		_ = session.ScriptClick(actionCtx, s.selector)
		cancel()
	}

	return s.probe.waitFor(ctx, session, s.wait)
}

type activateKey struct {
	probe         embedProbe
	wait          time.Duration
	actionTimeout time.Duration
}

func (s activateKey) Name() string { return "activate-key" }

func (s activateKey) Budget() time.Duration {
	return s.wait + s.actionTimeout
}

func (s activateKey) Attempt(ctx context.Context, session Session) (string, bool) {
	actionCtx, cancel := context.WithTimeout(ctx, s.actionTimeout)
	err := session.PressSpace(actionCtx)
	cancel()
	if err != nil {
		return "", false
	}
	return s.probe.waitFor(ctx, session, s.wait)
}
