package evidence

import (
	"time"

	"github.com/aleister1102/livewatch/internal/common"
	"github.com/aleister1102/livewatch/internal/models"
)

const (
	// ListingNote is attached to every event parsed from a listing page.
	ListingNote = "Parsed listing; for LIVE events, simulated minimal user action to reveal iframe src (no spoofing)."
	// FailureNote is attached to the marker event of a failed source.
	FailureNote = "Page fetch failed; see logs."
)

// EventID derives the stable identifier of an event. The listing URL stands
// in for the event URL when the entry had no link.
func EventID(league, title, eventURL string) string {
	return common.ShortHash(16, league, title, eventURL)
}

// ListingFetch is the part of a listing fetch that evidence is built from.
type ListingFetch struct {
	URL        string
	StatusCode int
	Headers    map[string]string
	Body       string
	FetchedAt  time.Time
}

// NewListingEvidence records the provenance of events parsed from fetch.
func NewListingEvidence(fetch ListingFetch) models.Evidence {
	return models.Evidence{
		PageURL:           fetch.URL,
		FetchedAtUTC:      models.FormatUTC(fetch.FetchedAt),
		Status:            fetch.StatusCode,
		ResponseHeaders:   fetch.Headers,
		ListingHTMLSHA256: common.SHA256Hex([]byte(fetch.Body)),
		Notes:             ListingNote,
	}
}

// FailureEvidence records a source whose fetch or parse failed.
func FailureEvidence(pageURL string, at time.Time) models.Evidence {
	return models.Evidence{
		PageURL:      pageURL,
		FetchedAtUTC: models.FormatUTC(at),
		Status:       0,
		Notes:        FailureNote,
	}
}
