package config

import "time"

// BrowserConfig defines the headless browser used to reveal embedded
// players on live event pages.
type BrowserConfig struct {
	Backend              string   `json:"backend,omitempty" yaml:"backend,omitempty" validate:"omitempty,browserbackend"`
	ChromePath           string   `json:"chrome_path,omitempty" yaml:"chrome_path,omitempty" validate:"omitempty,fileexists"`
	Headless             bool     `json:"headless" yaml:"headless"`
	WindowWidth          int      `json:"window_width,omitempty" yaml:"window_width,omitempty" validate:"omitempty,min=100"`
	WindowHeight         int      `json:"window_height,omitempty" yaml:"window_height,omitempty" validate:"omitempty,min=100"`
	PageLoadTimeoutSecs  int      `json:"page_load_timeout_secs,omitempty" yaml:"page_load_timeout_secs,omitempty" validate:"omitempty,min=1"`
	ReadyWaitSecs        int      `json:"ready_wait_secs,omitempty" yaml:"ready_wait_secs,omitempty" validate:"omitempty,min=1"`
	ClickWaitSecs        int      `json:"click_wait_secs,omitempty" yaml:"click_wait_secs,omitempty" validate:"omitempty,min=1"`
	KeyWaitSecs          int      `json:"key_wait_secs,omitempty" yaml:"key_wait_secs,omitempty" validate:"omitempty,min=1"`
	RevealTimeoutSecs    int      `json:"reveal_timeout_secs,omitempty" yaml:"reveal_timeout_secs,omitempty" validate:"omitempty,min=1"`
	MaxConcurrentReveals int      `json:"max_concurrent_reveals,omitempty" yaml:"max_concurrent_reveals,omitempty" validate:"omitempty,min=1,max=16"`
	EmbedSelector        string   `json:"embed_selector,omitempty" yaml:"embed_selector,omitempty"`
	ClickSelectors       []string `json:"click_selectors,omitempty" yaml:"click_selectors,omitempty" validate:"omitempty,dive,required"`
}

// NewDefaultBrowserConfig creates default browser configuration
func NewDefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		Backend:              DefaultBrowserBackend,
		Headless:             true,
		WindowWidth:          DefaultBrowserWindowWidth,
		WindowHeight:         DefaultBrowserWindowHeight,
		PageLoadTimeoutSecs:  DefaultBrowserPageLoadTimeoutSecs,
		ReadyWaitSecs:        DefaultBrowserReadyWaitSecs,
		ClickWaitSecs:        DefaultBrowserClickWaitSecs,
		KeyWaitSecs:          DefaultBrowserKeyWaitSecs,
		RevealTimeoutSecs:    DefaultBrowserRevealTimeoutSecs,
		MaxConcurrentReveals: DefaultBrowserMaxConcurrentReveals,
	}
}

func secs(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func (c BrowserConfig) PageLoadTimeout() time.Duration { return secs(c.PageLoadTimeoutSecs) }
func (c BrowserConfig) ReadyWait() time.Duration       { return secs(c.ReadyWaitSecs) }
func (c BrowserConfig) ClickWait() time.Duration       { return secs(c.ClickWaitSecs) }
func (c BrowserConfig) KeyWait() time.Duration         { return secs(c.KeyWaitSecs) }
func (c BrowserConfig) RevealTimeout() time.Duration   { return secs(c.RevealTimeoutSecs) }
