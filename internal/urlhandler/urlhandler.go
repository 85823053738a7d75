package urlhandler

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var nonAlphanumericRunRegex = regexp.MustCompile(`[^A-Za-z0-9]+`)

// NormalizeURL trims a URL, adds a scheme when missing and checks that a
// host is present. The fragment is kept since listing pages route on it.
func NormalizeURL(rawURL string) (string, error) {
	trimmedURL := strings.TrimSpace(rawURL)
	if trimmedURL == "" {
		return "", errors.New("URL is empty or only whitespace")
	}

	if !strings.Contains(trimmedURL, "://") && !strings.HasPrefix(trimmedURL, "//") {
		trimmedURL = "https://" + trimmedURL
	}

	parsedURL, err := url.Parse(trimmedURL)
	if err != nil {
		return "", fmt.Errorf("could not parse URL '%s': %w", trimmedURL, err)
	}
	if parsedURL.Host == "" {
		return "", errors.New("URL lacks a valid hostname")
	}

	return parsedURL.String(), nil
}

// ResolveURL resolves a (possibly relative) URL string against a base URL.
func ResolveURL(href string, base *url.URL) (string, error) {
	trimmedHref := strings.TrimSpace(href)
	if trimmedHref == "" {
		return "", fmt.Errorf("href is empty")
	}

	if base == nil {
		parsedHref, err := url.Parse(trimmedHref)
		if err != nil {
			return "", fmt.Errorf("error parsing base-less href '%s': %w", trimmedHref, err)
		}
		if !parsedHref.IsAbs() {
			return "", fmt.Errorf("cannot process relative URL '%s' without a base URL", trimmedHref)
		}
		return parsedHref.String(), nil
	}

	resolved, err := base.Parse(trimmedHref)
	if err != nil {
		return "", fmt.Errorf("error resolving href '%s' with base '%s': %w", trimmedHref, base.String(), err)
	}
	return resolved.String(), nil
}

// ResolveAgainst resolves href against a raw base URL string. When either
// side cannot be parsed the trimmed href is returned unchanged.
func ResolveAgainst(href, rawBase string) string {
	trimmedHref := strings.TrimSpace(href)
	base, err := url.Parse(strings.TrimSpace(rawBase))
	if err != nil {
		base = nil
	}
	resolved, err := ResolveURL(trimmedHref, base)
	if err != nil {
		return trimmedHref
	}
	return resolved
}

// ValidateURLFormat validates URL format using net/url parsing (for config validation)
func ValidateURLFormat(rawURL string) error {
	trimmedURL := strings.TrimSpace(rawURL)
	if trimmedURL == "" {
		return fmt.Errorf("URL is empty")
	}

	u, err := url.ParseRequestURI(trimmedURL)
	if err != nil {
		return fmt.Errorf("invalid URL format '%s': %w", trimmedURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme '%s' in '%s'", u.Scheme, trimmedURL)
	}

	return nil
}

// SanitizeIdentifier replaces every run of characters outside [A-Za-z0-9]
// with a single underscore. "Premier League" becomes "Premier_League".
func SanitizeIdentifier(input string) string {
	return nonAlphanumericRunRegex.ReplaceAllString(input, "_")
}
