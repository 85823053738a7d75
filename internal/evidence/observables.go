package evidence

import (
	"net/url"

	"github.com/aleister1102/livewatch/internal/models"
)

// BuildRequestObservables decomposes resourceURL without touching the
// network. Origin is set only when both scheme and authority are present.
// With an empty or unparseable resourceURL only the referrer is kept.
func BuildRequestObservables(resourceURL, referrerURL string) models.RequestObservables {
	obs := models.RequestObservables{Referrer: referrerURL}
	if resourceURL == "" {
		return obs
	}

	u, err := url.Parse(resourceURL)
	if err != nil {
		return obs
	}

	obs.Scheme = u.Scheme
	obs.Authority = u.Host
	obs.Path = u.EscapedPath()
	if obs.Scheme != "" && obs.Authority != "" {
		obs.Origin = obs.Scheme + "://" + obs.Authority
	}
	return obs
}
