package models

// ManifestParseResult holds the structured fields read from an HLS media
// playlist. Numeric directives are nil when missing or malformed.
type ManifestParseResult struct {
	TargetDuration        *float64 `json:"target_duration"`
	MediaSequence         *int     `json:"media_sequence"`
	DiscontinuitySequence *int     `json:"discontinuity_sequence"`
	KeyURIs               []string `json:"key_uris"`
	SegmentURLs           []string `json:"segment_urls"`
	SegmentHosts          []string `json:"segment_hosts"`
}
