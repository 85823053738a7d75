package server

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleister1102/livewatch/internal/health"
	"github.com/aleister1102/livewatch/internal/models"
	"github.com/aleister1102/livewatch/internal/monitor"
	"github.com/aleister1102/livewatch/internal/reporter"
)

type stubScanner struct {
	calls []string
}

func (s *stubScanner) ScanSource(ctx context.Context, url string) []models.Event {
	s.calls = append(s.calls, url)
	return []models.Event{{ID: "x1", Title: "Debug Game", Status: models.StatusUpcoming, PageURL: url}}
}

type stubState struct{ state monitor.State }

func (s stubState) State() monitor.State { return s.state }

type stubResources struct{}

func (stubResources) Latest(ctx context.Context) health.ResourceUsage {
	return health.ResourceUsage{Goroutines: 42, AllocMB: 7}
}

func newTestServer(t *testing.T, store *monitor.SnapshotStore, scanner *stubScanner) *Server {
	t.Helper()

	dashboard, err := reporter.NewHtmlReporter(reporter.HTMLReporterConfig{}, zerolog.Nop())
	require.NoError(t, err)
	epg, err := reporter.NewEPGReporter(reporter.EPGConfig{Timezone: "UTC"})
	require.NoError(t, err)

	return NewServer(Config{ListenAddr: "127.0.0.1:0"}, Dependencies{
		Snapshots: store,
		Scanner:   scanner,
		Scheduler: stubState{state: monitor.StateRunning},
		Resources: stubResources{},
		Dashboard: dashboard,
		EPG:       epg,
	}, zerolog.Nop())
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func publishedStore() *monitor.SnapshotStore {
	store := monitor.NewSnapshotStore()
	start := int64(1700000000)
	store.Publish(models.NewSnapshot(time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC), []models.Event{
		{ID: "e1", League: "NBA", Title: "Lakers vs Celtics", Status: models.StatusLive, PageURL: "https://site.example/", EventURL: "https://site.example/e/1", IframeSrc: "https://player.example/1"},
		{ID: "e2", League: "NBA", Title: "Knicks vs Nets", Status: models.StatusUpcoming, StartTime: &start, PageURL: "https://site.example/"},
	}))
	return store
}

func TestServer_Dashboard(t *testing.T) {
	s := newTestServer(t, publishedStore(), &stubScanner{})

	rec := do(t, s.Handler(), http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, reporter.ContentTypeHTML, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Lakers vs Celtics")
}

func TestServer_ReportJSON(t *testing.T) {
	s := newTestServer(t, publishedStore(), &stubScanner{})

	rec := do(t, s.Handler(), http.MethodGet, "/report.json", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap models.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, "2025-03-01T18:00:00Z", snap.LastRunUTC)
	require.Len(t, snap.Events, 2)
	assert.Equal(t, "https://player.example/1", snap.Events[0].IframeSrc)
}

func TestServer_ReportJSONBeforeFirstCycle(t *testing.T) {
	s := newTestServer(t, monitor.NewSnapshotStore(), &stubScanner{})

	rec := do(t, s.Handler(), http.MethodGet, "/report.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"events": []`)
	assert.NotContains(t, rec.Body.String(), "last_run_utc")
}

func TestServer_EPG(t *testing.T) {
	s := newTestServer(t, publishedStore(), &stubScanner{})

	rec := do(t, s.Handler(), http.MethodGet, "/epg.xml", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, reporter.ContentTypeXML, rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, `<channel id="NBA">`)
	assert.Contains(t, body, `start="20231114221320 +0000"`)
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t, publishedStore(), &stubScanner{})

	rec := do(t, s.Handler(), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var report health.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.True(t, report.OK)
	require.NotNil(t, report.LastRunUTC)
	assert.Equal(t, "2025-03-01T18:00:00Z", *report.LastRunUTC)
	assert.Equal(t, 2, report.Tracked)
	assert.Equal(t, "running", report.State)
	assert.Equal(t, 42, report.Resources.Goroutines)
}

func TestServer_DebugScan(t *testing.T) {
	scanner := &stubScanner{}
	store := monitor.NewSnapshotStore()
	s := newTestServer(t, store, scanner)

	rec := do(t, s.Handler(), http.MethodGet, "/debug-scan?url=https://other.example/%23streams", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp debugScanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Found)
	assert.Equal(t, "Debug Game", resp.Items[0].Title)
	assert.Equal(t, []string{"https://other.example/#streams"}, scanner.calls)
	assert.True(t, store.Current().IsEmpty())
}

func TestServer_DebugScanRejectsBadInput(t *testing.T) {
	scanner := &stubScanner{}
	s := newTestServer(t, monitor.NewSnapshotStore(), scanner)

	rec := do(t, s.Handler(), http.MethodGet, "/debug-scan", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s.Handler(), http.MethodGet, "/debug-scan?url=ftp://files.example/", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, scanner.calls)
}

func TestServer_ParseManifest(t *testing.T) {
	s := newTestServer(t, monitor.NewSnapshotStore(), &stubScanner{})

	body := `{"m3u8_text":"#EXTM3U\n#EXT-X-TARGETDURATION:6\n#EXT-X-MEDIA-SEQUENCE:120\nhttps://cdn.example/seg120.ts\n"}`
	rec := do(t, s.Handler(), http.MethodPost, "/parse-m3u8", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var result models.ManifestParseResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.NotNil(t, result.TargetDuration)
	assert.Equal(t, 6.0, *result.TargetDuration)
	require.NotNil(t, result.MediaSequence)
	assert.Equal(t, 120, *result.MediaSequence)
	assert.Equal(t, []string{"https://cdn.example/seg120.ts"}, result.SegmentURLs)
	assert.Equal(t, []string{"cdn.example"}, result.SegmentHosts)
}

func TestServer_ParseManifestInvalidJSON(t *testing.T) {
	s := newTestServer(t, monitor.NewSnapshotStore(), &stubScanner{})

	rec := do(t, s.Handler(), http.MethodPost, "/parse-m3u8", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid JSON")
}

func TestServer_ParseManifestNonFiniteDuration(t *testing.T) {
	s := newTestServer(t, monitor.NewSnapshotStore(), &stubScanner{})

	body := `{"m3u8_text":"#EXT-X-TARGETDURATION:Inf\nseg.ts\n"}`
	rec := do(t, s.Handler(), http.MethodPost, "/parse-m3u8", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var result models.ManifestParseResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Nil(t, result.TargetDuration)
	assert.Equal(t, []string{"seg.ts"}, result.SegmentURLs)
}

func TestServer_WriteJSONEncodingFailure(t *testing.T) {
	s := newTestServer(t, monitor.NewSnapshotStore(), &stubScanner{})

	rec := httptest.NewRecorder()
	s.writeJSON(rec, http.StatusOK, map[string]float64{"duration": math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "failed to encode response")
}

func TestServer_Metrics(t *testing.T) {
	s := newTestServer(t, monitor.NewSnapshotStore(), &stubScanner{})

	rec := do(t, s.Handler(), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestServer_StartAndShutdown(t *testing.T) {
	s := newTestServer(t, monitor.NewSnapshotStore(), &stubScanner{})

	done := make(chan error, 1)
	go func() { done <- s.Start() }()
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
	assert.NoError(t, <-done)
}
