package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aleister1102/livewatch/internal/common"
)

// State is the scheduler's activity.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
)

// DefaultInterval is the sleep between cycles.
const DefaultInterval = 90 * time.Second

// CycleRunner runs a single crawl cycle.
type CycleRunner interface {
	RunCycle(ctx context.Context) error
}

// Scheduler runs cycles back to back with a fixed sleep in between.
type Scheduler struct {
	runner   CycleRunner
	interval time.Duration
	logger   zerolog.Logger

	mu          sync.Mutex
	active      bool
	stopped     bool
	state       State
	stopChan    chan struct{}
	cancelCycle context.CancelFunc
}

// NewScheduler creates a new scheduler.
func NewScheduler(runner CycleRunner, interval time.Duration, logger zerolog.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		runner:   runner,
		interval: interval,
		logger:   logger.With().Str("component", "Scheduler").Logger(),
		state:    StateIdle,
	}
}

// Start runs the loop until ctx ends or Stop is called. Only one loop may
// run at a time.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return common.ErrAlreadyRunning
	}
	s.active = true
	s.stopped = false
	s.stopChan = make(chan struct{})
	stopChan := s.stopChan
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.active = false
		s.state = StateIdle
		s.mu.Unlock()
	}()

	s.logger.Info().Dur("interval", s.interval).Msg("Scheduler started")

	for {
		if !s.runOnce(ctx) {
			return nil
		}

		timer := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info().Msg("Scheduler context done, exiting")
			return nil
		case <-stopChan:
			timer.Stop()
			s.logger.Info().Msg("Scheduler stopped")
			return nil
		case <-timer.C:
		}
	}
}

// runOnce runs one cycle and reports whether the loop should continue.
func (s *Scheduler) runOnce(ctx context.Context) bool {
	cycleCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return false
	}
	s.cancelCycle = cancel
	s.state = StateRunning
	s.mu.Unlock()

	err := s.runner.RunCycle(cycleCtx)

	s.mu.Lock()
	s.cancelCycle = nil
	s.state = StateIdle
	stopped := s.stopped
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn().Err(err).Msg("Cycle did not complete")
	}
	return !stopped && ctx.Err() == nil
}

// Stop ends the loop. A cycle in flight is cancelled and not published.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active || s.stopped {
		return
	}
	s.stopped = true
	close(s.stopChan)
	if s.cancelCycle != nil {
		s.cancelCycle()
	}
}

// State reports whether a cycle is currently running.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
