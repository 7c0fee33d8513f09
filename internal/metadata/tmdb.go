package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/reelrank/backend/internal/cache"
	"github.com/reelrank/backend/internal/metrics"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	posterBaseURL  = "https://image.tmdb.org/t/p/w342"
	lookupTimeout  = 3 * time.Second
	maxInFlight    = 8
	langCacheName  = "tmdb_language"
)

// Client talks to the TMDB API for poster and original-language metadata.
// Every lookup is best-effort: failures and timeouts resolve to "unknown"
// and are logged and counted, never returned as errors.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	langs   cache.LangCache
	log     *zap.Logger
}

// movieDetails is the subset of TMDB's movie response we read
type movieDetails struct {
	PosterPath       string `json:"poster_path"`
	OriginalLanguage string `json:"original_language"`
}

// NewClient creates a TMDB client. An empty apiKey yields a disabled
// client: lookups return nothing and the language gate degrades to no
// filtering. langCache must not be nil when the client is enabled.
func NewClient(apiKey string, langCache cache.LangCache, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: lookupTimeout,
		},
		langs: langCache,
		log:   log,
	}
}

// Enabled reports whether an API key is configured
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// fetchMovie fetches one movie's metadata from TMDB
func (c *Client) fetchMovie(ctx context.Context, tmdbID int64) (*movieDetails, error) {
	url := fmt.Sprintf("%s/movie/%d?api_key=%s", c.baseURL, tmdbID, c.apiKey)

	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tmdb API error: status %d", resp.StatusCode)
	}

	var details movieDetails
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &details, nil
}

// PosterURL resolves a movie's poster image URL, or "" when the provider
// is disabled, the lookup fails, or the movie has no poster.
func (c *Client) PosterURL(ctx context.Context, tmdbID int64) string {
	if !c.Enabled() || tmdbID == 0 {
		return ""
	}

	metrics.Get().MetadataLookupsTotal.WithLabelValues("poster").Inc()
	details, err := c.fetchMovie(ctx, tmdbID)
	if err != nil {
		metrics.Get().MetadataLookupFailures.WithLabelValues("poster").Inc()
		c.log.Debug("poster lookup failed", zap.Int64("tmdb_id", tmdbID), zap.Error(err))
		return ""
	}
	if details.PosterPath == "" {
		return ""
	}
	return posterBaseURL + details.PosterPath
}

// PosterURLs resolves posters for a batch of TMDB ids with bounded
// concurrency. Missing entries mean no poster could be resolved.
func (c *Client) PosterURLs(ctx context.Context, tmdbIDs []int64) map[int64]string {
	if !c.Enabled() {
		return nil
	}

	posters := make(map[int64]string, len(tmdbIDs))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxInFlight)
	for _, id := range tmdbIDs {
		if id == 0 {
			continue
		}
		g.Go(func() error {
			if url := c.PosterURL(ctx, id); url != "" {
				mu.Lock()
				posters[id] = url
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait() //nolint:errcheck // workers never return errors

	return posters
}

// OriginalLanguage resolves one movie's original-language code ("en",
// "fr", ...), consulting the cache first. Returns "" when unknown.
func (c *Client) OriginalLanguage(ctx context.Context, tmdbID int64) string {
	if !c.Enabled() || tmdbID == 0 {
		return ""
	}

	key := strconv.FormatInt(tmdbID, 10)
	if lang, ok := c.langs.Get(ctx, key); ok {
		metrics.Get().CacheHitsTotal.WithLabelValues(langCacheName).Inc()
		return lang
	}
	metrics.Get().CacheMissesTotal.WithLabelValues(langCacheName).Inc()

	metrics.Get().MetadataLookupsTotal.WithLabelValues("language").Inc()
	details, err := c.fetchMovie(ctx, tmdbID)
	if err != nil {
		metrics.Get().MetadataLookupFailures.WithLabelValues("language").Inc()
		c.log.Debug("language lookup failed", zap.Int64("tmdb_id", tmdbID), zap.Error(err))
		return ""
	}

	if details.OriginalLanguage != "" {
		c.langs.Set(ctx, key, details.OriginalLanguage)
	}
	return details.OriginalLanguage
}

// OriginalLanguages resolves language codes for a batch of TMDB ids with
// bounded concurrency and per-call timeouts. One failed lookup never fails
// the others; ids that could not be resolved are simply absent from the
// result.
func (c *Client) OriginalLanguages(ctx context.Context, tmdbIDs []int64) map[int64]string {
	if !c.Enabled() {
		return nil
	}

	languages := make(map[int64]string, len(tmdbIDs))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxInFlight)
	for _, id := range tmdbIDs {
		if id == 0 {
			continue
		}
		g.Go(func() error {
			if lang := c.OriginalLanguage(ctx, id); lang != "" {
				mu.Lock()
				languages[id] = lang
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait() //nolint:errcheck // workers never return errors

	return languages
}
