package listing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/aleister1102/livewatch/internal/common"
	"github.com/aleister1102/livewatch/internal/models"
	"github.com/aleister1102/livewatch/internal/urlhandler"
)

// Selectors locate the parts of a listing page.
type Selectors struct {
	Container     string
	Category      string
	League        string
	Card          string
	TitleLink     string
	LiveBadge     string
	UpcomingBadge string
	StartTimeAttr string
}

// DefaultSelectors match the sports listing layout the service was built for.
func DefaultSelectors() Selectors {
	return Selectors{
		Container:     ".sports-matches-list#matchesList",
		Category:      ".sports-category-area",
		League:        ".category-title-header h2",
		Card:          ".match-card",
		TitleLink:     "a.match-title-link",
		LiveBadge:     ".match-status-info .live-status-badge",
		UpcomingBadge: ".match-status-info .today-status-badge",
		StartTimeAttr: "data-starttime",
	}
}

var whitespaceRunRegex = regexp.MustCompile(`\s+`)

// NormalizeText collapses whitespace runs to a single space and trims.
func NormalizeText(s string) string {
	return strings.TrimSpace(whitespaceRunRegex.ReplaceAllString(s, " "))
}

// Classifier turns listing HTML into partial events.
type Classifier struct {
	selectors Selectors
	logger    zerolog.Logger
}

// NewClassifier creates a classifier. Empty selector fields take defaults.
func NewClassifier(selectors Selectors, logger zerolog.Logger) *Classifier {
	return &Classifier{
		selectors: selectors.withDefaults(),
		logger:    logger.With().Str("component", "ListingClassifier").Logger(),
	}
}

func (s Selectors) withDefaults() Selectors {
	d := DefaultSelectors()
	if s.Container == "" {
		s.Container = d.Container
	}
	if s.Category == "" {
		s.Category = d.Category
	}
	if s.League == "" {
		s.League = d.League
	}
	if s.Card == "" {
		s.Card = d.Card
	}
	if s.TitleLink == "" {
		s.TitleLink = d.TitleLink
	}
	if s.LiveBadge == "" {
		s.LiveBadge = d.LiveBadge
	}
	if s.UpcomingBadge == "" {
		s.UpcomingBadge = d.UpcomingBadge
	}
	if s.StartTimeAttr == "" {
		s.StartTimeAttr = d.StartTimeAttr
	}
	return s
}

// Classify parses html and returns one event per card that has a title
// link. Only league, title, status, start time, page and event URLs are
// set. Relative links are resolved against baseURL.
func (c *Classifier) Classify(html, baseURL string) ([]models.Event, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, common.NewFetchError(baseURL, common.FetchErrorParse, err)
	}

	categories := doc.Find(c.selectors.Category)
	c.logger.Debug().
		Str("url", baseURL).
		Bool("container_present", doc.Find(c.selectors.Container).Length() > 0).
		Int("categories", categories.Length()).
		Msg("Parsed listing page")

	events := make([]models.Event, 0)
	categories.Each(func(_ int, category *goquery.Selection) {
		league := NormalizeText(category.Find(c.selectors.League).First().Text())
		cards := category.Find(c.selectors.Card)
		c.logger.Debug().Str("league", league).Int("cards", cards.Length()).Msg("Parsed category")

		cards.Each(func(_ int, card *goquery.Selection) {
			link := card.Find(c.selectors.TitleLink).First()
			if link.Length() == 0 {
				return
			}

			event := models.Event{
				League:  league,
				Title:   NormalizeText(link.Text()),
				PageURL: baseURL,
			}
			if href := strings.TrimSpace(link.AttrOr("href", "")); href != "" {
				event.EventURL = urlhandler.ResolveAgainst(href, baseURL)
			}
			event.Status, event.StartTime = c.classifyStatus(card)
			events = append(events, event)
		})
	})

	return events, nil
}

// classifyStatus applies the badge precedence: a live badge whose text
// mentions "live", then an upcoming badge, then unknown.
func (c *Classifier) classifyStatus(card *goquery.Selection) (models.EventStatus, *int64) {
	live := card.Find(c.selectors.LiveBadge).First()
	if live.Length() > 0 && strings.Contains(strings.ToLower(strings.TrimSpace(live.Text())), "live") {
		return models.StatusLive, nil
	}

	upcoming := card.Find(c.selectors.UpcomingBadge).First()
	if upcoming.Length() > 0 {
		return models.StatusUpcoming, parseStartTime(upcoming.AttrOr(c.selectors.StartTimeAttr, ""))
	}

	return models.StatusUnknown, nil
}

func parseStartTime(raw string) *int64 {
	if raw == "" {
		return nil
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return nil
		}
	}
	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &ts
}
