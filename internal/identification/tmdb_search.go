package identification

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"tvrename/internal/identification/tmdb"
)

const (
	defaultCacheTTL  = 10 * time.Minute
	defaultRateLimit = 50 * time.Millisecond
)

type tmdbCacheEntry struct {
	value   any
	expires time.Time
}

// CachingSearcher wraps a tmdb.Searcher with a response cache and a minimum
// spacing between remote lookups. Files of one show share their search,
// details, and season responses, so a batch makes each call once.
type CachingSearcher struct {
	client     tmdb.Searcher
	cache      map[string]tmdbCacheEntry
	cacheTTL   time.Duration
	rateLimit  time.Duration
	mu         sync.Mutex
	lastLookup time.Time
	now        func() time.Time
}

var _ tmdb.Searcher = (*CachingSearcher)(nil)

// NewCachingSearcher wraps client. Zero durations select the defaults; a
// negative rateLimit disables spacing.
func NewCachingSearcher(client tmdb.Searcher, cacheTTL, rateLimit time.Duration) *CachingSearcher {
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	if rateLimit == 0 {
		rateLimit = defaultRateLimit
	}
	return &CachingSearcher{
		client:     client,
		cache:      make(map[string]tmdbCacheEntry),
		cacheTTL:   cacheTTL,
		rateLimit:  rateLimit,
		lastLookup: time.Unix(0, 0),
		now:        time.Now,
	}
}

// SearchTV implements tmdb.Searcher.
func (s *CachingSearcher) SearchTV(ctx context.Context, query string) (*tmdb.Response, error) {
	key := "search|" + strings.ToLower(strings.TrimSpace(query))
	return cachedLookup(ctx, s, key, func() (*tmdb.Response, error) {
		return s.client.SearchTV(ctx, query)
	})
}

// GetTVDetails implements tmdb.Searcher.
func (s *CachingSearcher) GetTVDetails(ctx context.Context, showID int64) (*tmdb.ShowDetails, error) {
	key := fmt.Sprintf("tv|%d", showID)
	return cachedLookup(ctx, s, key, func() (*tmdb.ShowDetails, error) {
		return s.client.GetTVDetails(ctx, showID)
	})
}

// GetSeasonDetails implements tmdb.Searcher.
func (s *CachingSearcher) GetSeasonDetails(ctx context.Context, showID int64, seasonNumber int) (*tmdb.SeasonDetails, error) {
	key := fmt.Sprintf("season|%d|%d", showID, seasonNumber)
	return cachedLookup(ctx, s, key, func() (*tmdb.SeasonDetails, error) {
		return s.client.GetSeasonDetails(ctx, showID, seasonNumber)
	})
}

// cachedLookup serves key from the cache or calls fetch after waiting out the
// rate limit. Only successful responses are cached.
func cachedLookup[T any](ctx context.Context, s *CachingSearcher, key string, fetch func() (*T, error)) (*T, error) {
	now := s.now()

	s.mu.Lock()
	if entry, ok := s.cache[key]; ok && now.Before(entry.expires) {
		s.mu.Unlock()
		return entry.value.(*T), nil
	}

	wait := s.rateLimit - now.Sub(s.lastLookup)
	if wait > 0 {
		s.mu.Unlock()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		s.mu.Lock()
	}
	s.lastLookup = s.now()
	s.mu.Unlock()

	value, err := fetch()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[key] = tmdbCacheEntry{value: value, expires: s.now().Add(s.cacheTTL)}
	s.mu.Unlock()
	return value, nil
}
