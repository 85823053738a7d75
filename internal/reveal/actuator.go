package reveal

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aleister1102/livewatch/internal/urlhandler"
)

// Result is the outcome of a reveal. Found is false when every strategy
// came up empty; that is a normal outcome, not an error.
type Result struct {
	URL      string
	Found    bool
	Strategy string
}

// Revealer reveals the embedded resource URL of an event page.
type Revealer interface {
	Reveal(ctx context.Context, eventURL string) Result
}

// Actuator runs the strategy chain against a fresh browser session per
// event.
type Actuator struct {
	driver     Driver
	strategies []Strategy
	options    Options
	logger     zerolog.Logger
}

// NewActuator creates an actuator. Without explicit strategies the
// standard chain from BuildStrategies is used.
func NewActuator(driver Driver, options Options, logger zerolog.Logger, strategies ...Strategy) *Actuator {
	options = options.withDefaults()
	if len(strategies) == 0 {
		strategies = BuildStrategies(options)
	}
	return &Actuator{
		driver:     driver,
		strategies: strategies,
		options:    options,
		logger:     logger.With().Str("component", "RevealActuator").Logger(),
	}
}

// Reveal runs the chain on its own goroutine so that a browser which stops
// responding cannot hold the caller past RevealTimeout or ctx.
func (a *Actuator) Reveal(ctx context.Context, eventURL string) Result {
	if eventURL == "" {
		return Result{}
	}

	ctx, cancel := context.WithTimeout(ctx, a.options.RevealTimeout)
	defer cancel()

	done := make(chan Result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				a.logger.Error().Str("event_url", eventURL).Str("panic", fmt.Sprint(r)).Msg("Reveal session panicked")
				done <- Result{}
			}
		}()
		done <- a.run(ctx, eventURL)
	}()

	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		a.logger.Warn().Err(ctx.Err()).Str("event_url", eventURL).Msg("Reveal abandoned")
		return Result{}
	}
}

func (a *Actuator) run(ctx context.Context, eventURL string) Result {
	logger := a.logger.With().Str("event_url", eventURL).Logger()

	session, err := a.driver.NewSession(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to open browser session")
		return Result{}
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			logger.Debug().Err(closeErr).Msg("Failed to close browser session")
		}
	}()

	navCtx, cancel := context.WithTimeout(ctx, a.options.PageLoadTimeout)
	err = session.Navigate(navCtx, eventURL)
	cancel()
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to load event page")
		return Result{}
	}

	a.waitReady(ctx, session)

	for _, strategy := range a.strategies {
		if ctx.Err() != nil {
			break
		}
		attemptCtx, cancel := context.WithTimeout(ctx, strategy.Budget())
		src, ok := strategy.Attempt(attemptCtx, session)
		cancel()
		if !ok {
			logger.Debug().Str("strategy", strategy.Name()).Msg("Strategy found no embed")
			continue
		}

		resolved := urlhandler.ResolveAgainst(src, eventURL)
		logger.Info().Str("strategy", strategy.Name()).Str("iframe_src", resolved).Msg("Embed revealed")
		return Result{URL: resolved, Found: true, Strategy: strategy.Name()}
	}

	logger.Info().Msg("Reveal chain exhausted")
	return Result{}
}

// waitReady polls document.readyState. Reaching the wait limit is not an
// error; the page may already be usable.
func (a *Actuator) waitReady(ctx context.Context, session Session) {
	readyCtx, cancel := context.WithTimeout(ctx, a.options.ReadyWait)
	defer cancel()

	ticker := time.NewTicker(a.options.PollInterval)
	defer ticker.Stop()

	for {
		state, err := session.ReadyState(readyCtx)
		if err == nil && (state == "interactive" || state == "complete") {
			return
		}
		select {
		case <-readyCtx.Done():
			a.logger.Debug().Str("last_state", state).Msg("Document not ready, continuing")
			return
		case <-ticker.C:
		}
	}
}
