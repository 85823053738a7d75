package reporter

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleister1102/livewatch/internal/models"
)

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

func sampleSnapshot() models.Snapshot {
	return models.NewSnapshot(time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC), []models.Event{
		{
			ID:        "a1",
			League:    "Premier League",
			Title:     "Arsenal vs Chelsea",
			Status:    models.StatusLive,
			PageURL:   "https://site.example/#streams",
			EventURL:  "https://site.example/event/1?a=1&b=2",
			IframeSrc: "https://player.example/embed/1",
			IframeHead: &models.HeadSnapshot{
				URL:      "https://player.example/embed/1",
				Status:   intPtr(403),
				ServerIP: "198.51.100.4",
			},
			RequestObservables: &models.RequestObservables{
				Scheme:    "https",
				Authority: "player.example",
				Path:      "/embed/1",
				Origin:    "https://player.example",
				Referrer:  "https://site.example/event/1?a=1&b=2",
			},
		},
		{
			ID:        "b2",
			League:    "NBA",
			Title:     "Lakers <vs> Celtics",
			Status:    models.StatusUpcoming,
			StartTime: int64Ptr(1700000000),
			PageURL:   "https://site.example/#streams",
			EventURL:  "https://site.example/event/2",
		},
		{
			ID:      "c3",
			Title:   "Fetch error for https://other.example/: Timeout",
			Status:  models.StatusUnknown,
			PageURL: "https://other.example/",
		},
	})
}

func TestHtmlReporter_Render(t *testing.T) {
	r, err := NewHtmlReporter(HTMLReporterConfig{}, zerolog.Nop())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, sampleSnapshot()))
	page := buf.String()

	assert.Contains(t, page, "<title>livewatch</title>")
	assert.Contains(t, page, "Observational evidence only")
	assert.Contains(t, page, "Last run (UTC): 2025-03-01T18:00:00Z")
	assert.Contains(t, page, `<tr class="live">`)
	assert.Contains(t, page, `<tr class="upcoming">`)
	assert.Contains(t, page, "Lakers &lt;vs&gt; Celtics")
	assert.Contains(t, page, "<td>403</td>")
	assert.Contains(t, page, "<td>198.51.100.4</td>")
	assert.Contains(t, page, "<td>1700000000</td>")
	assert.NotContains(t, page, "No events yet")
}

func TestHtmlReporter_EmptySnapshot(t *testing.T) {
	r, err := NewHtmlReporter(HTMLReporterConfig{Title: "Monitor"}, zerolog.Nop())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, models.Snapshot{Events: []models.Event{}}))
	assert.Contains(t, buf.String(), "No events yet")
	assert.Contains(t, buf.String(), "Last run (UTC): -")
}

func TestHtmlReporter_CustomTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.html.tmpl")
	require.NoError(t, os.WriteFile(path, []byte(`{{ .Title }}:{{ len .Events }}`), 0o644))

	r, err := NewHtmlReporter(HTMLReporterConfig{Title: "custom", TemplatePath: path}, zerolog.Nop())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, sampleSnapshot()))
	assert.Equal(t, "custom:3", buf.String())

	_, err = NewHtmlReporter(HTMLReporterConfig{TemplatePath: filepath.Join(t.TempDir(), "missing.tmpl")}, zerolog.Nop())
	assert.Error(t, err)
}

func TestEPGReporter_Render(t *testing.T) {
	r, err := NewEPGReporter(EPGConfig{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, sampleSnapshot()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, xml.Header))
	assert.Contains(t, out, `<tv generator-info-name="livewatch">`)

	var doc xmltvDocument
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))

	require.Len(t, doc.Channels, 2)
	assert.Equal(t, xmltvChannel{ID: "NBA", DisplayName: "NBA"}, doc.Channels[0])
	assert.Equal(t, xmltvChannel{ID: "Premier_League", DisplayName: "Premier League"}, doc.Channels[1])

	require.Len(t, doc.Programmes, 2)
	live := doc.Programmes[0]
	assert.Equal(t, "Premier_League", live.Channel)
	assert.Empty(t, live.Start)
	assert.Equal(t, "Status: LIVE. Link: https://site.example/event/1?a=1&b=2 | Iframe src: https://player.example/embed/1", live.Desc)

	upcoming := doc.Programmes[1]
	assert.Equal(t, "20231114141320 -0800", upcoming.Start)
	assert.Equal(t, "Lakers <vs> Celtics", upcoming.Title)
	assert.Equal(t, "Status: UPCOMING. Link: https://site.example/event/2", upcoming.Desc)
}

func TestEPGReporter_Timezone(t *testing.T) {
	r, err := NewEPGReporter(EPGConfig{Timezone: "UTC", GeneratorName: "guide"})
	require.NoError(t, err)
	doc := r.build(sampleSnapshot())
	assert.Equal(t, "guide", doc.Generator)
	assert.Equal(t, "20231114221320 +0000", doc.Programmes[1].Start)

	_, err = NewEPGReporter(EPGConfig{Timezone: "Mars/Olympus"})
	assert.Error(t, err)
}

func TestChannelID(t *testing.T) {
	assert.Equal(t, "UEFA_Champions_League", ChannelID("UEFA Champions-League"))
	assert.Equal(t, "UNKNOWN", ChannelID(""))
}

func TestWriteJSONReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONReport(&buf, sampleSnapshot()))
	assert.Contains(t, buf.String(), "\n  \"last_run_utc\": \"2025-03-01T18:00:00Z\"")
	assert.Contains(t, buf.String(), "a=1&b=2")

	var decoded models.Snapshot
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded.Events, 3)
}
