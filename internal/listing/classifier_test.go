package listing

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleister1102/livewatch/internal/models"
)

const fixtureBaseURL = "https://listing.example/sports/#streams"

func loadFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("testdata/listing.html")
	require.NoError(t, err)
	return string(data)
}

func TestClassifier_Classify(t *testing.T) {
	classifier := NewClassifier(Selectors{}, zerolog.Nop())

	events, err := classifier.Classify(loadFixture(t), fixtureBaseURL)
	require.NoError(t, err)
	require.Len(t, events, 6, "card without a title link is skipped")

	lakers := events[0]
	assert.Equal(t, "NBA Basketball", lakers.League)
	assert.Equal(t, "Lakers vs Celtics", lakers.Title)
	assert.Equal(t, models.StatusLive, lakers.Status)
	assert.Nil(t, lakers.StartTime)
	assert.Equal(t, "https://listing.example/event/lakers-celtics", lakers.EventURL)
	assert.Equal(t, fixtureBaseURL, lakers.PageURL)

	heat := events[1]
	assert.Equal(t, models.StatusUpcoming, heat.Status)
	require.NotNil(t, heat.StartTime)
	assert.Equal(t, int64(1735689600), *heat.StartTime)
	assert.Equal(t, "https://other.example/event/heat-bulls", heat.EventURL)

	suns := events[2]
	assert.Equal(t, models.StatusUpcoming, suns.Status)
	assert.Nil(t, suns.StartTime, "non-numeric start attribute is dropped")
	assert.Equal(t, "https://listing.example/sports/event/suns-nets", suns.EventURL)

	arsenal := events[3]
	assert.Equal(t, "Premier League", arsenal.League)
	assert.Equal(t, models.StatusUnknown, arsenal.Status, "live badge without 'live' text is not live")

	spurs := events[4]
	assert.Equal(t, models.StatusUnknown, spurs.Status)
	assert.Empty(t, spurs.EventURL)
	assert.Equal(t, fixtureBaseURL, spurs.LinkURL())

	mystery := events[5]
	assert.Empty(t, mystery.League)
	assert.Equal(t, models.StatusLive, mystery.Status, "live badge wins over upcoming badge")
	assert.Nil(t, mystery.StartTime)
}

func TestClassifier_LiveOnlyFieldsAbsent(t *testing.T) {
	classifier := NewClassifier(DefaultSelectors(), zerolog.Nop())

	events, err := classifier.Classify(loadFixture(t), fixtureBaseURL)
	require.NoError(t, err)

	for _, ev := range events {
		assert.False(t, ev.HasRevealedResource(), ev.Title)
		assert.Empty(t, ev.ID, "ids are assigned by the publisher")
	}
}

func TestClassifier_EmptyAndForeignMarkup(t *testing.T) {
	classifier := NewClassifier(Selectors{}, zerolog.Nop())

	events, err := classifier.Classify("", fixtureBaseURL)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.NotNil(t, events)

	events, err = classifier.Classify("<html><body><div class='other'>maintenance</div>", fixtureBaseURL)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestClassifier_CustomSelectors(t *testing.T) {
	html := `<section class="sport"><h3>Tennis</h3>
<article class="game"><a class="t" href="/m/1">A vs B</a><em class="on">LIVE</em></article>
</section>`

	classifier := NewClassifier(Selectors{
		Category:  ".sport",
		League:    "h3",
		Card:      ".game",
		TitleLink: "a.t",
		LiveBadge: ".on",
	}, zerolog.Nop())

	events, err := classifier.Classify(html, "http://tennis.example/")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Tennis", events[0].League)
	assert.Equal(t, models.StatusLive, events[0].Status)
	assert.Equal(t, "http://tennis.example/m/1", events[0].EventURL)
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "a b c", NormalizeText("  a \n\t b   c "))
	assert.Equal(t, "", NormalizeText(" \n "))
}

func TestParseStartTime(t *testing.T) {
	assert.Nil(t, parseStartTime(""))
	assert.Nil(t, parseStartTime("-5"))
	assert.Nil(t, parseStartTime("12a"))
	require.NotNil(t, parseStartTime("0042"))
	assert.Equal(t, int64(42), *parseStartTime("0042"))
}
