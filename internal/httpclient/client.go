package httpclient

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptrace"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/net/http2"

	"github.com/aleister1102/livewatch/internal/common"
)

// HTTPClient wraps net/http.Client with the service's transport policy.
type HTTPClient struct {
	client    *http.Client
	transport *http.Transport
	config    HTTPClientConfig
	logger    zerolog.Logger
}

// HeadResponse is the outcome of a HEAD request.
type HeadResponse struct {
	FinalURL   string
	StatusCode int
	Headers    map[string]string
	ServerIP   string
}

// NewHTTPClient creates a new HTTP client with the given configuration using net/http
func NewHTTPClient(config HTTPClientConfig, logger zerolog.Logger) (*HTTPClient, error) {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          config.MaxIdleConns,
		MaxIdleConnsPerHost:   config.MaxIdleConnsPerHost,
		IdleConnTimeout:       config.IdleConnTimeout,
		TLSHandshakeTimeout:   config.TLSHandshakeTimeout,
		ExpectContinueTimeout: config.ExpectContinueTimeout,
		DialContext: (&net.Dialer{
			Timeout:   config.DialTimeout,
			KeepAlive: config.KeepAlive,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: config.InsecureSkipVerify,
		},
	}

	if config.EnableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			logger.Warn().Err(err).Msg("Failed to configure HTTP/2, falling back to HTTP/1.1")
		} else {
			logger.Debug().Msg("HTTP/2 support enabled")
		}
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   config.Timeout,
	}

	if !config.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	} else if config.MaxRedirects > 0 {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= config.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", config.MaxRedirects)
			}
			return nil
		}
	}

	logger.Debug().
		Dur("timeout", config.Timeout).
		Bool("insecure_skip_verify", config.InsecureSkipVerify).
		Bool("follow_redirects", config.FollowRedirects).
		Int("max_redirects", config.MaxRedirects).
		Bool("http2_enabled", config.EnableHTTP2).
		Msg("HTTP client created")

	return &HTTPClient{
		client:    client,
		transport: transport,
		config:    config,
		logger:    logger,
	}, nil
}

// Transport exposes the configured round tripper so other collectors can
// share the connection pool.
func (c *HTTPClient) Transport() http.RoundTripper {
	return c.transport
}

// Config returns the configuration the client was built with.
func (c *HTTPClient) Config() HTTPClientConfig {
	return c.config
}

// Head issues a single HEAD request, following redirects per the client
// policy. ServerIP is the remote address of the last connection used.
func (c *HTTPClient) Head(ctx context.Context, rawURL string) (*HeadResponse, error) {
	var (
		mu       sync.Mutex
		serverIP string
	)
	trace := &httptrace.ClientTrace{
		GotConn: func(info httptrace.GotConnInfo) {
			if info.Conn == nil {
				return
			}
			ip := remoteIP(info.Conn.RemoteAddr())
			mu.Lock()
			serverIP = ip
			mu.Unlock()
		},
	}

	req, err := http.NewRequestWithContext(httptrace.WithClientTrace(ctx, trace), http.MethodHead, rawURL, nil)
	if err != nil {
		return nil, common.NewFetchError(rawURL, common.FetchErrorInvalidURL, err)
	}
	c.applyHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, common.NewFetchErrorFromCause(rawURL, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	mu.Lock()
	defer mu.Unlock()
	return &HeadResponse{
		FinalURL:   resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Headers:    FlattenHeaders(resp.Header),
		ServerIP:   serverIP,
	}, nil
}

func (c *HTTPClient) applyHeaders(req *http.Request) {
	for key, value := range c.config.CustomHeaders {
		req.Header.Set(key, value)
	}
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
}

// FlattenHeaders collapses multi-valued headers; the last value wins.
func FlattenHeaders(h http.Header) map[string]string {
	if h == nil {
		return nil
	}
	flat := make(map[string]string, len(h))
	for key, values := range h {
		if len(values) == 0 {
			continue
		}
		flat[key] = values[len(values)-1]
	}
	return flat
}

func remoteIP(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	if tcp, ok := addr.(*net.TCPAddr); ok {
		return tcp.IP.String()
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
