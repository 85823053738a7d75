package models

import "time"

// TimestampLayout is the UTC layout used for every timestamp the service emits.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Snapshot is the complete result of one crawl cycle.
type Snapshot struct {
	LastRunUTC string  `json:"last_run_utc,omitempty"`
	Events     []Event `json:"events"`
}

// NewSnapshot builds a snapshot stamped with the given completion time.
func NewSnapshot(completedAt time.Time, events []Event) Snapshot {
	if events == nil {
		events = []Event{}
	}
	return Snapshot{
		LastRunUTC: FormatUTC(completedAt),
		Events:     events,
	}
}

// IsEmpty reports whether no cycle has been published yet.
func (s Snapshot) IsEmpty() bool {
	return s.LastRunUTC == ""
}

// CountByStatus tallies events per status.
func (s Snapshot) CountByStatus() map[EventStatus]int {
	counts := map[EventStatus]int{
		StatusLive:     0,
		StatusUpcoming: 0,
		StatusUnknown:  0,
	}
	for _, ev := range s.Events {
		counts[ev.Status]++
	}
	return counts
}

// FormatUTC renders t in TimestampLayout.
func FormatUTC(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
