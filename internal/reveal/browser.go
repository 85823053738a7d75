// Package reveal drives a headless browser through ordinary user gestures
// to surface the source URL of an embedded player.
package reveal

import (
	"context"
	"time"
)

// Driver hands out isolated browser sessions.
type Driver interface {
	NewSession(ctx context.Context) (Session, error)
	Close() error
}

// Session is one browser tab. Lookups never wait for elements to appear;
// callers poll. Every call is bounded by the ctx it receives.
type Session interface {
	Navigate(ctx context.Context, url string) error
	ReadyState(ctx context.Context) (string, error)
	// FirstAttr reads attr from the first element matching selector.
	// present is false when nothing matches.
	FirstAttr(ctx context.Context, selector, attr string) (value string, present bool, err error)
	HasMatch(ctx context.Context, selector string) (bool, error)
	ScrollIntoView(ctx context.Context, selector string) error
	Click(ctx context.Context, selector string) error
	ScriptClick(ctx context.Context, selector string) error
	PressSpace(ctx context.Context) error
	Close() error
}

// DefaultEmbedSelector matches the player iframe.
const DefaultEmbedSelector = "iframe#iframe, iframe[src]"

// DefaultClickSelectors are generic play controls, most specific first.
var DefaultClickSelectors = []string{
	`button[aria-label*="play" i]`,
	`.vjs-big-play-button`,
	`.jw-icon-playback`,
	`button.play`,
	`[role="button"][aria-label*="play" i]`,
	`.plyr__control--overlaid`,
	`.start-button, .start, .btn-play`,
	`div[class*="play"]`,
}

const (
	scrollIntoViewJS = `() => this.scrollIntoView({block: 'center'})`
	scriptClickJS    = `() => this.click()`
	readyStateJS     = `() => document.readyState`
	pressSpaceJS     = `() => {
  const e = new KeyboardEvent('keydown', {key: ' ', code: 'Space', keyCode: 32, which: 32, bubbles: true});
  (document.activeElement || document.body).dispatchEvent(e);
}`
)

// Options tune the reveal procedure.
type Options struct {
	EmbedSelector   string
	ClickSelectors  []string
	PageLoadTimeout time.Duration
	ReadyWait       time.Duration
	ClickWait       time.Duration
	KeyWait         time.Duration
	ActionTimeout   time.Duration
	RevealTimeout   time.Duration
	PollInterval    time.Duration
}

// DefaultOptions returns the standard waits: 30s page load, 10s for
// document readiness, 6s after a click and 4s after the key gesture.
func DefaultOptions() Options {
	return Options{
		EmbedSelector:   DefaultEmbedSelector,
		ClickSelectors:  append([]string(nil), DefaultClickSelectors...),
		PageLoadTimeout: 30 * time.Second,
		ReadyWait:       10 * time.Second,
		ClickWait:       6 * time.Second,
		KeyWait:         4 * time.Second,
		ActionTimeout:   3 * time.Second,
		RevealTimeout:   150 * time.Second,
		PollInterval:    250 * time.Millisecond,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.EmbedSelector == "" {
		o.EmbedSelector = d.EmbedSelector
	}
	if len(o.ClickSelectors) == 0 {
		o.ClickSelectors = d.ClickSelectors
	}
	if o.PageLoadTimeout <= 0 {
		o.PageLoadTimeout = d.PageLoadTimeout
	}
	if o.ReadyWait <= 0 {
		o.ReadyWait = d.ReadyWait
	}
	if o.ClickWait <= 0 {
		o.ClickWait = d.ClickWait
	}
	if o.KeyWait <= 0 {
		o.KeyWait = d.KeyWait
	}
	if o.ActionTimeout <= 0 {
		o.ActionTimeout = d.ActionTimeout
	}
	if o.RevealTimeout <= 0 {
		o.RevealTimeout = d.RevealTimeout
	}
	if o.PollInterval <= 0 {
		o.PollInterval = d.PollInterval
	}
	return o
}
