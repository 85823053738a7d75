// Package monitor runs crawl cycles and publishes their results as
// immutable snapshots.
package monitor

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/aleister1102/livewatch/internal/common"
	"github.com/aleister1102/livewatch/internal/evidence"
	"github.com/aleister1102/livewatch/internal/listing"
	"github.com/aleister1102/livewatch/internal/models"
	"github.com/aleister1102/livewatch/internal/reveal"
)

// PageFetcher retrieves a listing page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*listing.FetchResult, error)
}

// PageClassifier turns listing HTML into events.
type PageClassifier interface {
	Classify(html, baseURL string) ([]models.Event, error)
}

// ResourceProber captures HEAD evidence for a revealed resource.
type ResourceProber interface {
	Probe(ctx context.Context, url string) models.HeadSnapshot
}

// PublisherConfig lists the sources crawled each cycle.
type PublisherConfig struct {
	ListingURLs          []string
	MaxConcurrentReveals int
}

// Publisher runs one crawl cycle at a time and publishes the result.
type Publisher struct {
	mu         sync.RWMutex
	config     PublisherConfig
	fetcher    PageFetcher
	classifier PageClassifier
	revealer   reveal.Revealer
	prober     ResourceProber
	store      *SnapshotStore
	tracker    *CycleTracker
	logger     zerolog.Logger
	now        func() time.Time
}

// NewPublisher wires a publisher. All collaborators are required.
func NewPublisher(
	config PublisherConfig,
	fetcher PageFetcher,
	classifier PageClassifier,
	revealer reveal.Revealer,
	prober ResourceProber,
	store *SnapshotStore,
	logger zerolog.Logger,
) *Publisher {
	if config.MaxConcurrentReveals <= 0 {
		config.MaxConcurrentReveals = 1
	}
	return &Publisher{
		config:     config,
		fetcher:    fetcher,
		classifier: classifier,
		revealer:   revealer,
		prober:     prober,
		store:      store,
		tracker:    NewCycleTracker(),
		logger:     logger.With().Str("component", "Publisher").Logger(),
		now:        time.Now,
	}
}

// Store returns the snapshot store the publisher writes to.
func (p *Publisher) Store() *SnapshotStore {
	return p.store
}

// SetListingURLs replaces the source list. A cycle already running keeps
// the list it started with.
func (p *Publisher) SetListingURLs(urls []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.config.ListingURLs = slices.Clone(urls)
}

// ListingURLs returns a copy of the current source list.
func (p *Publisher) ListingURLs() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.config.ListingURLs)
}

// Stats returns cycle counters.
func (p *Publisher) Stats() CycleStats {
	return p.tracker.Stats()
}

// RunCycle crawls every source in order and publishes one snapshot. A
// failing source contributes a single marker event and does not stop the
// others. When ctx ends before the cycle completes nothing is published
// and ctx.Err() is returned.
func (p *Publisher) RunCycle(ctx context.Context) error {
	cycleID := p.tracker.StartCycle()
	logger := p.logger.With().Str("cycle_id", cycleID).Logger()
	sources := p.ListingURLs()
	logger.Info().Int("sources", len(sources)).Msg("Crawl cycle started")

	events := make([]models.Event, 0)
	for _, sourceURL := range sources {
		if ctx.Err() != nil {
			break
		}
		events = append(events, p.scanSource(ctx, logger, sourceURL)...)
	}

	if err := ctx.Err(); err != nil {
		p.tracker.EndCycle(err)
		logger.Warn().Err(err).Msg("Crawl cycle abandoned, snapshot not published")
		return err
	}

	snap := models.NewSnapshot(p.now(), events)
	p.store.Publish(snap)

	elapsed := p.tracker.EndCycle(nil)
	cyclesTotal.Inc()
	cycleDuration.Observe(elapsed.Seconds())
	recordSnapshot(snap)

	logger.Info().
		Int("events", len(snap.Events)).
		Str("last_run_utc", snap.LastRunUTC).
		Dur("duration", elapsed).
		Msg("Snapshot published")
	return nil
}

// ScanSource runs the per-source pipeline for url without publishing.
func (p *Publisher) ScanSource(ctx context.Context, url string) []models.Event {
	return p.scanSource(ctx, p.logger.With().Str("mode", "debug-scan").Logger(), url)
}

func (p *Publisher) scanSource(ctx context.Context, logger zerolog.Logger, sourceURL string) []models.Event {
	logger = logger.With().Str("source", sourceURL).Logger()

	fetch, err := p.fetcher.Fetch(ctx, sourceURL)
	var parsed []models.Event
	if err == nil {
		parsed, err = p.classifier.Classify(fetch.Body, fetch.URL)
	}
	if err != nil {
		kind := common.FetchErrorKindOf(err)
		fetchFailuresTotal.WithLabelValues(string(kind)).Inc()
		logger.Error().Err(err).Str("kind", string(kind)).Msg("Listing source failed")
		return []models.Event{p.failureEvent(sourceURL, kind)}
	}

	pageEvidence := evidence.NewListingEvidence(evidence.ListingFetch{
		URL:        fetch.URL,
		StatusCode: fetch.StatusCode,
		Headers:    fetch.Headers,
		Body:       fetch.Body,
		FetchedAt:  fetch.FetchedAt,
	})
	logger.Info().Int("events", len(parsed)).Int("status", fetch.StatusCode).Msg("Listing classified")

	out := make([]models.Event, len(parsed))
	var g errgroup.Group
	g.SetLimit(p.config.MaxConcurrentReveals)
	for i := range parsed {
		g.Go(func() error {
			out[i] = p.completeEvent(ctx, logger, parsed[i], pageEvidence)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// completeEvent assigns identity and evidence, and for live events with a
// link, reveals and probes the embedded resource.
func (p *Publisher) completeEvent(ctx context.Context, logger zerolog.Logger, event models.Event, pageEvidence models.Evidence) models.Event {
	event.ID = evidence.EventID(event.League, event.Title, event.LinkURL())
	event.Evidence = pageEvidence

	if !event.Status.IsLive() || event.EventURL == "" || ctx.Err() != nil {
		return event
	}

	res := p.revealer.Reveal(ctx, event.EventURL)
	if !res.Found {
		revealsTotal.WithLabelValues("not_found").Inc()
		logger.Debug().Str("event_url", event.EventURL).Msg("No embed revealed")
		return event
	}
	revealsTotal.WithLabelValues("found").Inc()

	event.IframeSrc = res.URL
	head := p.prober.Probe(ctx, res.URL)
	event.IframeHead = &head
	observables := evidence.BuildRequestObservables(res.URL, event.EventURL)
	event.RequestObservables = &observables
	return event
}

func (p *Publisher) failureEvent(sourceURL string, kind common.FetchErrorKind) models.Event {
	title := fmt.Sprintf("Fetch error for %s: %s", sourceURL, kind)
	return models.Event{
		ID:       evidence.EventID("", title, sourceURL),
		Title:    title,
		Status:   models.StatusUnknown,
		PageURL:  sourceURL,
		Evidence: evidence.FailureEvidence(sourceURL, p.now()),
	}
}
