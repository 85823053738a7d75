package urlhandler

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "keeps fragment", input: "https://sportsurge.ws/#streams", expected: "https://sportsurge.ws/#streams"},
		{name: "adds scheme", input: "  listing.example/nba ", expected: "https://listing.example/nba"},
		{name: "empty", input: "   ", wantErr: true},
		{name: "no host", input: "https://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveURL(t *testing.T) {
	base, err := url.Parse("https://listing.example/sports/#streams")
	require.NoError(t, err)

	tests := []struct {
		name     string
		href     string
		base     *url.URL
		expected string
		wantErr  bool
	}{
		{name: "relative path", href: "/event/123", base: base, expected: "https://listing.example/event/123"},
		{name: "sibling path", href: "match/9", base: base, expected: "https://listing.example/sports/match/9"},
		{name: "absolute", href: "https://other.example/x", base: base, expected: "https://other.example/x"},
		{name: "protocol relative", href: "//cdn.example/player", base: base, expected: "https://cdn.example/player"},
		{name: "empty", href: " ", base: base, wantErr: true},
		{name: "relative without base", href: "/event/1", base: nil, wantErr: true},
		{name: "absolute without base", href: "http://a.example/", base: nil, expected: "http://a.example/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveURL(tt.href, tt.base)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveAgainst(t *testing.T) {
	assert.Equal(t, "https://e.example/embed/1", ResolveAgainst("/embed/1", "https://e.example/watch/live"))
	assert.Equal(t, "/embed/1", ResolveAgainst("/embed/1", ""))
}

func TestValidateURLFormat(t *testing.T) {
	assert.NoError(t, ValidateURLFormat("https://sportsurge.ws/#streams"))
	assert.Error(t, ValidateURLFormat(""))
	assert.Error(t, ValidateURLFormat("not a url"))
	assert.Error(t, ValidateURLFormat("ftp://files.example/"))
}

func TestSanitizeIdentifier(t *testing.T) {
	assert.Equal(t, "Premier_League", SanitizeIdentifier("Premier League"))
	assert.Equal(t, "NBA_G_League", SanitizeIdentifier("NBA -- G League"))
	assert.Equal(t, "_UFC_", SanitizeIdentifier("(UFC)"))
}
