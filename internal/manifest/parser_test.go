package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_TargetDurationAndSequence(t *testing.T) {
	result := Parse("#EXT-X-TARGETDURATION:6\n#EXT-X-MEDIA-SEQUENCE:3\nseg1.ts\nseg2.ts\n")

	require.NotNil(t, result.TargetDuration)
	assert.Equal(t, 6.0, *result.TargetDuration)
	require.NotNil(t, result.MediaSequence)
	assert.Equal(t, 3, *result.MediaSequence)
	assert.Nil(t, result.DiscontinuitySequence)
	assert.Equal(t, []string{"seg1.ts", "seg2.ts"}, result.SegmentURLs)
	assert.Empty(t, result.KeyURIs)
	assert.NotNil(t, result.KeyURIs)
	assert.Empty(t, result.SegmentHosts, "relative segments carry no host")
}

func TestParse_KeyURIAndHosts(t *testing.T) {
	result := Parse("#EXT-X-KEY:METHOD=AES-128,URI=\"https://k.example/key\"\nhttps://cdn.example/a.ts\n")

	assert.Equal(t, []string{"https://k.example/key"}, result.KeyURIs)
	assert.Equal(t, []string{"https://cdn.example/a.ts"}, result.SegmentURLs)
	assert.Equal(t, []string{"cdn.example", "k.example"}, result.SegmentHosts)
}

func TestParse_MultipleKeysKeepOrder(t *testing.T) {
	text := `#EXTM3U
#EXT-X-KEY:METHOD=AES-128,URI="https://z.example/k2"
https://a.example/1.ts
#EXT-X-KEY:METHOD=AES-128,URI="https://b.example/k1"
https://a.example/2.ts
`
	result := Parse(text)

	assert.Equal(t, []string{"https://z.example/k2", "https://b.example/k1"}, result.KeyURIs)
	assert.Equal(t, []string{"https://a.example/1.ts", "https://a.example/2.ts"}, result.SegmentURLs)
	assert.Equal(t, []string{"a.example", "b.example", "z.example"}, result.SegmentHosts)
}

func TestParse_MalformedValuesStayAbsent(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "non numeric duration", text: "#EXT-X-TARGETDURATION:six\n"},
		{name: "float media sequence", text: "#EXT-X-MEDIA-SEQUENCE:1.5\n"},
		{name: "empty discontinuity", text: "#EXT-X-DISCONTINUITY-SEQUENCE:\n"},
		{name: "infinite duration", text: "#EXT-X-TARGETDURATION:Inf\n"},
		{name: "nan duration", text: "#EXT-X-TARGETDURATION:NaN\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Parse(tt.text)
			assert.Nil(t, result.TargetDuration)
			assert.Nil(t, result.MediaSequence)
			assert.Nil(t, result.DiscontinuitySequence)
		})
	}
}

func TestParse_TolerantInput(t *testing.T) {
	text := "\r\n  #EXTINF:6.0,\r\n   seg-a.ts  \r\n\n#EXT-X-KEY:METHOD=NONE\n#EXT-X-DISCONTINUITY-SEQUENCE:7\r\nhttp://[::1]:namedport/x.ts\n"
	result := Parse(text)

	assert.Equal(t, []string{"seg-a.ts", "http://[::1]:namedport/x.ts"}, result.SegmentURLs)
	assert.Empty(t, result.KeyURIs, "key without URI attribute is ignored")
	require.NotNil(t, result.DiscontinuitySequence)
	assert.Equal(t, 7, *result.DiscontinuitySequence)
	assert.Empty(t, result.SegmentHosts, "unparseable URL contributes no host")
}

func TestParse_CRLineEndings(t *testing.T) {
	result := Parse("#EXT-X-TARGETDURATION:4\r#EXT-X-MEDIA-SEQUENCE:3\rseg1.ts\rseg2.ts\r")

	require.NotNil(t, result.TargetDuration)
	assert.Equal(t, 4.0, *result.TargetDuration)
	require.NotNil(t, result.MediaSequence)
	assert.Equal(t, 3, *result.MediaSequence)
	assert.Equal(t, []string{"seg1.ts", "seg2.ts"}, result.SegmentURLs)
}

func TestParse_EmptyInput(t *testing.T) {
	result := Parse("")

	assert.Nil(t, result.TargetDuration)
	assert.Empty(t, result.SegmentURLs)
	assert.NotNil(t, result.SegmentURLs)
	assert.NotNil(t, result.SegmentHosts)
}

func TestParse_DuplicateHostsDeduplicated(t *testing.T) {
	text := "https://cdn.example/1.ts\nhttps://cdn.example/2.ts\nhttps://cdn.example:8443/3.ts\n"
	result := Parse(text)

	assert.Equal(t, []string{"cdn.example", "cdn.example:8443"}, result.SegmentHosts)
}
