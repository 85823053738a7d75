package health

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleister1102/livewatch/internal/models"
)

func TestGetResourceUsage(t *testing.T) {
	usage := GetResourceUsage(context.Background())
	assert.Positive(t, usage.Goroutines)
	assert.GreaterOrEqual(t, usage.SysMB, usage.AllocMB)
}

func TestResourceWatcher_Defaults(t *testing.T) {
	w := NewResourceWatcher(WatcherConfig{}, zerolog.Nop())
	assert.Equal(t, DefaultWatcherConfig(), w.config)
}

func TestResourceWatcher_StartAndStop(t *testing.T) {
	w := NewResourceWatcher(WatcherConfig{CheckInterval: 5 * time.Millisecond}, zerolog.Nop())

	w.Start(context.Background())
	w.Start(context.Background())
	assert.True(t, w.isRunning)

	latest := w.Latest(context.Background())
	assert.Positive(t, latest.Goroutines)

	w.Stop()
	w.Stop()
	assert.False(t, w.isRunning)
}

func TestResourceWatcher_LatestSamplesWhenEmpty(t *testing.T) {
	w := NewResourceWatcher(WatcherConfig{}, zerolog.Nop())
	usage := w.Latest(context.Background())
	assert.Positive(t, usage.Goroutines)
}

func TestNewReport(t *testing.T) {
	empty := NewReport(models.Snapshot{Events: []models.Event{}}, "idle", ResourceUsage{Goroutines: 3})
	body, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"last_run_utc":null`)
	assert.Contains(t, string(body), `"ok":true`)

	snap := models.NewSnapshot(time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC), []models.Event{{ID: "a"}, {ID: "b"}})
	report := NewReport(snap, "running", ResourceUsage{})
	require.NotNil(t, report.LastRunUTC)
	assert.Equal(t, "2025-03-01T18:00:00Z", *report.LastRunUTC)
	assert.Equal(t, 2, report.Tracked)
	assert.Equal(t, "running", report.State)
}
