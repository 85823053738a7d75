package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/aleister1102/livewatch/internal/models"
)

var (
	cyclesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "livewatch_cycles_total",
			Help: "Total number of published crawl cycles",
		},
	)

	fetchFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "livewatch_fetch_failures_total",
			Help: "Total number of listing sources that could not be fetched or parsed",
		},
		[]string{"kind"},
	)

	revealsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "livewatch_reveals_total",
			Help: "Total number of reveal attempts by outcome",
		},
		[]string{"result"},
	)

	cycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "livewatch_cycle_duration_seconds",
			Help:    "Duration of crawl cycles in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		},
	)

	trackedEvents = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "livewatch_tracked_events",
			Help: "Number of events in the published snapshot by status",
		},
		[]string{"status"},
	)
)

func recordSnapshot(snap models.Snapshot) {
	for status, count := range snap.CountByStatus() {
		trackedEvents.WithLabelValues(string(status)).Set(float64(count))
	}
}
