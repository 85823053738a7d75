package models

// EventStatus is the listing-derived state of an event.
type EventStatus string

const (
	StatusLive     EventStatus = "live"
	StatusUpcoming EventStatus = "upcoming"
	StatusUnknown  EventStatus = "unknown"
)

// IsLive reports whether the status is live.
func (s EventStatus) IsLive() bool {
	return s == StatusLive
}

// Event is one observed listing entry. It is built fresh every cycle and
// must not be modified once it has been published.
type Event struct {
	ID                 string              `json:"id"`
	League             string              `json:"league,omitempty"`
	Title              string              `json:"title"`
	Status             EventStatus         `json:"status"`
	StartTime          *int64              `json:"start_time,omitempty"`
	PageURL            string              `json:"page_url"`
	EventURL           string              `json:"event_url,omitempty"`
	IframeSrc          string              `json:"iframe_src,omitempty"`
	IframeHead         *HeadSnapshot       `json:"iframe_head,omitempty"`
	RequestObservables *RequestObservables `json:"request_observables,omitempty"`
	Evidence           Evidence            `json:"evidence"`
}

// LinkURL returns the event page URL, or the listing page URL when the
// entry had no link of its own.
func (e Event) LinkURL() string {
	if e.EventURL != "" {
		return e.EventURL
	}
	return e.PageURL
}

// HasRevealedResource reports whether any live-only field is set.
func (e Event) HasRevealedResource() bool {
	return e.IframeSrc != "" || e.IframeHead != nil || e.RequestObservables != nil
}

// Evidence records where and when the data behind an event was observed.
type Evidence struct {
	PageURL           string            `json:"page_url"`
	FetchedAtUTC      string            `json:"fetched_at_utc"`
	Status            int               `json:"status"`
	ServerIP          string            `json:"server_ip,omitempty"`
	ResponseHeaders   map[string]string `json:"response_headers,omitempty"`
	ListingHTMLSHA256 string            `json:"listing_html_sha256"`
	Notes             string            `json:"notes,omitempty"`
}

// HeadSnapshot is the result of a HEAD probe. Only URL is guaranteed to be
// set; every other field is absent when the probe failed.
type HeadSnapshot struct {
	URL      string            `json:"url"`
	Status   *int              `json:"status,omitempty"`
	ServerIP string            `json:"server_ip,omitempty"`
	Headers  map[string]string `json:"headers,omitempty"`
}

// Succeeded reports whether the probe produced a response.
func (h HeadSnapshot) Succeeded() bool {
	return h.Status != nil
}

// RequestObservables are the parts of a resource URL that a request to it
// would carry, plus the page that referred to it.
type RequestObservables struct {
	Scheme    string `json:"scheme,omitempty"`
	Authority string `json:"authority,omitempty"`
	Path      string `json:"path,omitempty"`
	Origin    string `json:"origin,omitempty"`
	Referrer  string `json:"referrer,omitempty"`
}
