package config

import "time"

// SelectorConfig overrides the CSS selectors used to read listing pages.
// Empty fields keep the built-in selectors.
type SelectorConfig struct {
	Container     string `json:"container,omitempty" yaml:"container,omitempty"`
	Category      string `json:"category,omitempty" yaml:"category,omitempty"`
	League        string `json:"league,omitempty" yaml:"league,omitempty"`
	Card          string `json:"card,omitempty" yaml:"card,omitempty"`
	TitleLink     string `json:"title_link,omitempty" yaml:"title_link,omitempty"`
	LiveBadge     string `json:"live_badge,omitempty" yaml:"live_badge,omitempty"`
	UpcomingBadge string `json:"upcoming_badge,omitempty" yaml:"upcoming_badge,omitempty"`
	StartTimeAttr string `json:"start_time_attr,omitempty" yaml:"start_time_attr,omitempty"`
}

// CrawlerConfig defines how listing pages are fetched
type CrawlerConfig struct {
	ListingURLs        []string          `json:"listing_urls,omitempty" yaml:"listing_urls,omitempty" validate:"required,min=1,dive,url"`
	UserAgent          string            `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	RequestTimeoutSecs int               `json:"request_timeout_secs,omitempty" yaml:"request_timeout_secs,omitempty" validate:"omitempty,min=1"`
	RespectRobotsTxt   bool              `json:"respect_robots_txt" yaml:"respect_robots_txt"`
	MaxRedirects       int               `json:"max_redirects,omitempty" yaml:"max_redirects,omitempty" validate:"omitempty,min=0"`
	MaxBodySizeMB      int               `json:"max_body_size_mb,omitempty" yaml:"max_body_size_mb,omitempty" validate:"omitempty,min=1"`
	CustomHeaders      map[string]string `json:"custom_headers,omitempty" yaml:"custom_headers,omitempty"`
	Selectors          SelectorConfig    `json:"selectors,omitempty" yaml:"selectors,omitempty"`
}

// NewDefaultCrawlerConfig creates default crawler configuration
func NewDefaultCrawlerConfig() CrawlerConfig {
	return CrawlerConfig{
		ListingURLs:        []string{DefaultListingURL},
		RequestTimeoutSecs: DefaultCrawlerRequestTimeoutSecs,
		RespectRobotsTxt:   DefaultCrawlerRespectRobotsTxt,
		MaxRedirects:       DefaultCrawlerMaxRedirects,
		MaxBodySizeMB:      DefaultCrawlerMaxBodySizeMB,
		CustomHeaders:      map[string]string{},
	}
}

// RequestTimeout returns the per-request timeout.
func (c CrawlerConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSecs) * time.Second
}
