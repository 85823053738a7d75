package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleister1102/livewatch/internal/common"
)

func TestHTTPClient_Head(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/vnd.apple.mpegurl")
		w.Header().Add("X-Cache", "MISS")
		w.Header().Add("X-Cache", "HIT")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewHTTPClientBuilder(zerolog.Nop()).WithUserAgent("test-agent").Build()
	require.NoError(t, err)

	resp, err := client.Head(context.Background(), server.URL+"/live.m3u8")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.apple.mpegurl", resp.Headers["Content-Type"])
	assert.Equal(t, "HIT", resp.Headers["X-Cache"], "last value wins")
	assert.Equal(t, "127.0.0.1", resp.ServerIP)
}

func TestHTTPClient_HeadFollowsRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/embed" {
			http.Redirect(w, r, "/final", http.StatusFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, err := NewHTTPClientBuilder(zerolog.Nop()).Build()
	require.NoError(t, err)

	resp, err := client.Head(context.Background(), server.URL+"/embed")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, server.URL+"/final", resp.FinalURL)

	noFollow, err := NewHTTPClientBuilder(zerolog.Nop()).WithFollowRedirects(false).Build()
	require.NoError(t, err)

	resp, err = noFollow.Head(context.Background(), server.URL+"/embed")
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestHTTPClient_HeadTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client, err := NewHTTPClientBuilder(zerolog.Nop()).WithTimeout(20 * time.Millisecond).Build()
	require.NoError(t, err)

	_, err = client.Head(context.Background(), server.URL)
	require.Error(t, err)

	var fe *common.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, common.FetchErrorTimeout, fe.Kind)
}

func TestHTTPClient_HeadConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	client, err := NewHTTPClientBuilder(zerolog.Nop()).Build()
	require.NoError(t, err)

	_, err = client.Head(context.Background(), addr)
	require.Error(t, err)
	assert.Equal(t, common.FetchErrorConnection, common.FetchErrorKindOf(err))
}

func TestHTTPClient_HeadInvalidURL(t *testing.T) {
	client, err := NewHTTPClientBuilder(zerolog.Nop()).Build()
	require.NoError(t, err)

	_, err = client.Head(context.Background(), "http://bad host/")
	require.Error(t, err)
	assert.Equal(t, common.FetchErrorInvalidURL, common.FetchErrorKindOf(err))
}

func TestFlattenHeaders(t *testing.T) {
	h := http.Header{}
	h.Add("Set-Cookie", "a=1")
	h.Add("Set-Cookie", "b=2")
	h["Empty"] = []string{}

	flat := FlattenHeaders(h)
	assert.Equal(t, map[string]string{"Set-Cookie": "b=2"}, flat)
	assert.Nil(t, FlattenHeaders(nil))
}
