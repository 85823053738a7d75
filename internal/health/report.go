package health

import "github.com/aleister1102/livewatch/internal/models"

// Report is the body served at /healthz.
type Report struct {
	OK         bool          `json:"ok"`
	LastRunUTC *string       `json:"last_run_utc"`
	Tracked    int           `json:"tracked"`
	State      string        `json:"state"`
	Resources  ResourceUsage `json:"resources"`
}

// NewReport summarises snap. LastRunUTC is null until the first cycle has
// been published.
func NewReport(snap models.Snapshot, state string, usage ResourceUsage) Report {
	report := Report{
		OK:        true,
		Tracked:   len(snap.Events),
		State:     state,
		Resources: usage,
	}
	if !snap.IsEmpty() {
		last := snap.LastRunUTC
		report.LastRunUTC = &last
	}
	return report
}
