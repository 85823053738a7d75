package monitor

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// CycleStats summarises the cycles run so far.
type CycleStats struct {
	CurrentCycleID string        `json:"current_cycle_id,omitempty"`
	Completed      int           `json:"completed"`
	Abandoned      int           `json:"abandoned"`
	LastDuration   time.Duration `json:"last_duration_ns"`
	LastError      string        `json:"last_error,omitempty"`
}

// CycleTracker tracks the identity and outcome of crawl cycles.
type CycleTracker struct {
	mutex          sync.RWMutex
	currentCycleID string
	startedAt      time.Time
	completed      int
	abandoned      int
	lastDuration   time.Duration
	lastErr        error
	now            func() time.Time
}

// NewCycleTracker creates a new CycleTracker
func NewCycleTracker() *CycleTracker {
	return &CycleTracker{now: time.Now}
}

// StartCycle begins a new cycle and returns its ID.
func (ct *CycleTracker) StartCycle() string {
	ct.mutex.Lock()
	defer ct.mutex.Unlock()

	ct.currentCycleID = uuid.NewString()
	ct.startedAt = ct.now()
	return ct.currentCycleID
}

// EndCycle records the outcome of the current cycle. A non-nil err marks
// the cycle as abandoned. It returns the cycle's duration.
func (ct *CycleTracker) EndCycle(err error) time.Duration {
	ct.mutex.Lock()
	defer ct.mutex.Unlock()

	ct.lastDuration = ct.now().Sub(ct.startedAt)
	ct.lastErr = err
	if err != nil {
		ct.abandoned++
	} else {
		ct.completed++
	}
	return ct.lastDuration
}

// GetCurrentCycleID returns the ID of the most recently started cycle.
func (ct *CycleTracker) GetCurrentCycleID() string {
	ct.mutex.RLock()
	defer ct.mutex.RUnlock()
	return ct.currentCycleID
}

// Stats returns a copy of the tracked counters.
func (ct *CycleTracker) Stats() CycleStats {
	ct.mutex.RLock()
	defer ct.mutex.RUnlock()

	stats := CycleStats{
		CurrentCycleID: ct.currentCycleID,
		Completed:      ct.completed,
		Abandoned:      ct.abandoned,
		LastDuration:   ct.lastDuration,
	}
	if ct.lastErr != nil {
		stats.LastError = ct.lastErr.Error()
	}
	return stats
}
