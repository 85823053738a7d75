package listing

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/rs/zerolog"

	"github.com/aleister1102/livewatch/internal/common"
	"github.com/aleister1102/livewatch/internal/httpclient"
)

// FetcherConfig controls how listing pages are retrieved.
type FetcherConfig struct {
	UserAgent        string
	RequestTimeout   time.Duration
	Headers          map[string]string
	RespectRobotsTxt bool
	MaxBodySize      int
}

// FetchResult is a retrieved listing page. Body is valid UTF-8; invalid
// byte sequences have been replaced.
type FetchResult struct {
	URL        string
	StatusCode int
	Headers    map[string]string
	Body       string
	FetchedAt  time.Time
}

// Fetcher issues a single GET per listing page through a colly collector.
// Non-2xx responses are returned as results, not errors.
type Fetcher struct {
	config    FetcherConfig
	transport http.RoundTripper
	logger    zerolog.Logger
	now       func() time.Time
}

// NewFetcher creates a fetcher. A nil transport falls back to colly's own.
func NewFetcher(config FetcherConfig, transport http.RoundTripper, logger zerolog.Logger) *Fetcher {
	if config.UserAgent == "" {
		config.UserAgent = httpclient.DefaultUserAgent
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 20 * time.Second
	}
	return &Fetcher{
		config:    config,
		transport: transport,
		logger:    logger.With().Str("component", "ListingFetcher").Logger(),
		now:       time.Now,
	}
}

// createCollector builds a single-use collector whose requests carry ctx.
func (f *Fetcher) createCollector(ctx context.Context) *colly.Collector {
	collectorOptions := []colly.CollectorOption{
		colly.UserAgent(f.config.UserAgent),
		colly.ParseHTTPErrorResponse(),
		colly.AllowURLRevisit(),
		colly.StdlibContext(ctx),
	}
	if len(f.config.Headers) > 0 {
		collectorOptions = append(collectorOptions, colly.Headers(f.config.Headers))
	}
	if f.config.MaxBodySize > 0 {
		collectorOptions = append(collectorOptions, colly.MaxBodySize(f.config.MaxBodySize))
	}

	collector := colly.NewCollector(collectorOptions...)
	collector.IgnoreRobotsTxt = !f.config.RespectRobotsTxt
	collector.SetRequestTimeout(f.config.RequestTimeout)
	if f.transport != nil {
		collector.WithTransport(f.transport)
	}
	return collector
}

// Fetch retrieves rawURL once. Failures are returned as *common.FetchError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		if err == nil {
			err = common.ErrInvalidInput
		}
		return nil, common.NewFetchError(rawURL, common.FetchErrorInvalidURL, err)
	}

	collector := f.createCollector(ctx)

	var result *FetchResult
	collector.OnResponse(func(r *colly.Response) {
		var headers map[string]string
		if r.Headers != nil {
			headers = httpclient.FlattenHeaders(*r.Headers)
		}
		result = &FetchResult{
			URL:        rawURL,
			StatusCode: r.StatusCode,
			Headers:    headers,
			Body:       strings.ToValidUTF8(string(r.Body), "\uFFFD"),
			FetchedAt:  f.now(),
		}
	})

	f.logger.Debug().Str("url", rawURL).Msg("Fetching listing page")
	if err := collector.Visit(rawURL); err != nil {
		fetchErr := f.classifyVisitError(rawURL, err)
		f.logger.Warn().Err(err).Str("url", rawURL).Str("kind", string(fetchErr.Kind)).Msg("Listing fetch failed")
		return nil, fetchErr
	}
	if result == nil {
		return nil, common.NewFetchError(rawURL, common.FetchErrorDecode, errors.New("no response body received"))
	}

	f.logger.Debug().
		Str("url", rawURL).
		Int("status", result.StatusCode).
		Int("bytes", len(result.Body)).
		Msg("Listing page fetched")
	return result, nil
}

func (f *Fetcher) classifyVisitError(rawURL string, err error) *common.FetchError {
	switch {
	case errors.Is(err, colly.ErrRobotsTxtBlocked):
		return common.NewFetchError(rawURL, common.FetchErrorBlocked, err)
	case errors.Is(err, colly.ErrMissingURL):
		return common.NewFetchError(rawURL, common.FetchErrorInvalidURL, err)
	}

	kind := common.ClassifyNetworkError(err)
	if kind == common.FetchErrorConnection && isCharsetError(err) {
		kind = common.FetchErrorDecode
	}
	return common.NewFetchError(rawURL, kind, err)
}

// isCharsetError reports whether err came from body charset conversion
// rather than the transport.
func isCharsetError(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return false
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "charset") || strings.Contains(msg, "encoding")
}
