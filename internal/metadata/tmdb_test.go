package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelrank/backend/internal/cache"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient("test-key", cache.NewMemoryCache(100, time.Minute), nil)
	client.baseURL = server.URL
	return client, server
}

func TestOriginalLanguage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/603", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		w.Write([]byte(`{"poster_path": "/abc.jpg", "original_language": "en"}`))
	}))

	lang := client.OriginalLanguage(context.Background(), 603)
	assert.Equal(t, "en", lang)
}

func TestOriginalLanguageCacheHit(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"original_language": "fr"}`))
	}))

	first := client.OriginalLanguage(context.Background(), 777)
	second := client.OriginalLanguage(context.Background(), 777)

	assert.Equal(t, "fr", first)
	assert.Equal(t, "fr", second)
	assert.Equal(t, 1, calls, "Second lookup must be served from cache")
}

func TestOriginalLanguageFailureResolvesUnknown(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	lang := client.OriginalLanguage(context.Background(), 999)
	assert.Equal(t, "", lang, "Failed lookups resolve to unknown, not an error")
}

func TestOriginalLanguages(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/movie/1":
			w.Write([]byte(`{"original_language": "en"}`))
		case "/movie/2":
			w.Write([]byte(`{"original_language": "ja"}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))

	languages := client.OriginalLanguages(context.Background(), []int64{1, 2, 3, 0})
	require.Len(t, languages, 2, "Failed and zero ids are absent, not errored")

	assert.Equal(t, "en", languages[1])
	assert.Equal(t, "ja", languages[2])
}

func TestPosterURL(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"poster_path": "/poster.jpg", "original_language": "en"}`))
	}))

	url := client.PosterURL(context.Background(), 42)
	assert.Equal(t, "https://image.tmdb.org/t/p/w342/poster.jpg", url)
}

func TestPosterURLNoPoster(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"original_language": "en"}`))
	}))

	url := client.PosterURL(context.Background(), 42)
	assert.Equal(t, "", url)
}

func TestDisabledClient(t *testing.T) {
	client := NewClient("", cache.NewMemoryCache(10, time.Minute), nil)

	assert.False(t, client.Enabled())
	assert.Equal(t, "", client.OriginalLanguage(context.Background(), 1))
	assert.Nil(t, client.OriginalLanguages(context.Background(), []int64{1, 2}))
	assert.Equal(t, "", client.PosterURL(context.Background(), 1))
	assert.Nil(t, client.PosterURLs(context.Background(), []int64{1}))
}
