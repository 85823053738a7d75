// Package manifest reads HLS media playlists into structured fields.
package manifest

import (
	"math"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/aleister1102/livewatch/internal/models"
)

const (
	tagTargetDuration        = "#EXT-X-TARGETDURATION:"
	tagMediaSequence         = "#EXT-X-MEDIA-SEQUENCE:"
	tagDiscontinuitySequence = "#EXT-X-DISCONTINUITY-SEQUENCE:"
	tagKey                   = "#EXT-X-KEY:"
)

var keyURIRegex = regexp.MustCompile(`URI="([^"]+)"`)

// Parse scans a playlist line by line. It never fails: directive values that
// cannot be converted are left nil and unknown tags are ignored. Segment and
// key order follows the input.
func Parse(text string) models.ManifestParseResult {
	result := models.ManifestParseResult{
		KeyURIs:      []string{},
		SegmentURLs:  []string{},
		SegmentHosts: []string{},
	}

	for _, raw := range splitLines(text) {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, tagTargetDuration):
			result.TargetDuration = parseFloat(line[len(tagTargetDuration):])
		case strings.HasPrefix(line, tagMediaSequence):
			result.MediaSequence = parseInt(line[len(tagMediaSequence):])
		case strings.HasPrefix(line, tagDiscontinuitySequence):
			result.DiscontinuitySequence = parseInt(line[len(tagDiscontinuitySequence):])
		case strings.HasPrefix(line, tagKey):
			if m := keyURIRegex.FindStringSubmatch(line); m != nil {
				result.KeyURIs = append(result.KeyURIs, m[1])
			}
		case !strings.HasPrefix(line, "#"):
			result.SegmentURLs = append(result.SegmentURLs, line)
		}
	}

	result.SegmentHosts = collectHosts(result.SegmentURLs, result.KeyURIs)
	return result
}

// splitLines breaks on LF, CRLF and bare CR. Empty lines are dropped.
func splitLines(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' })
}

// parseFloat rejects NaN and infinities, which have no JSON form.
func parseFloat(value string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func parseInt(value string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return nil
	}
	return &v
}

// collectHosts returns the sorted set of non-empty hosts across all lists.
// Unparseable entries are skipped.
func collectHosts(lists ...[]string) []string {
	seen := make(map[string]struct{})
	for _, list := range lists {
		for _, raw := range list {
			u, err := url.Parse(raw)
			if err != nil || u.Host == "" {
				continue
			}
			seen[u.Host] = struct{}{}
		}
	}

	hosts := make([]string, 0, len(seen))
	for h := range seen {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)
	return hosts
}
