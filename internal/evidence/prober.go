// Package evidence records observational facts about listing fetches and
// revealed resources.
package evidence

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aleister1102/livewatch/internal/httpclient"
	"github.com/aleister1102/livewatch/internal/models"
)

// HeadRequester issues HEAD requests.
type HeadRequester interface {
	Head(ctx context.Context, rawURL string) (*httpclient.HeadResponse, error)
}

// HeadProber captures a HeadSnapshot for a resource URL.
type HeadProber struct {
	client  HeadRequester
	timeout time.Duration
	logger  zerolog.Logger
}

// NewHeadProber creates a prober. A non-positive timeout leaves the
// client's own timeout in charge.
func NewHeadProber(client HeadRequester, timeout time.Duration, logger zerolog.Logger) *HeadProber {
	return &HeadProber{
		client:  client,
		timeout: timeout,
		logger:  logger.With().Str("component", "HeadProber").Logger(),
	}
}

// Probe never fails. When the request cannot complete the returned snapshot
// carries only the requested URL.
func (p *HeadProber) Probe(ctx context.Context, rawURL string) models.HeadSnapshot {
	snapshot := models.HeadSnapshot{URL: rawURL}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	resp, err := p.client.Head(ctx, rawURL)
	if err != nil {
		p.logger.Debug().Err(err).Str("url", rawURL).Msg("HEAD probe failed")
		return snapshot
	}

	status := resp.StatusCode
	snapshot.Status = &status
	snapshot.ServerIP = resp.ServerIP
	snapshot.Headers = resp.Headers

	p.logger.Debug().
		Str("url", rawURL).
		Int("status", status).
		Str("server_ip", resp.ServerIP).
		Msg("HEAD probe completed")
	return snapshot
}
