package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// Cache stores encoded responses by key. Implementations must be safe for
// concurrent use. A miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// MemoryCache is an in-process LRU whose entries expire after a fixed TTL.
type MemoryCache struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemoryCache holds at most size entries, each for ttl.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = 512
	}
	return &MemoryCache{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.lru.Get(key)
	return v, ok, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	m.lru.Add(key, value)
	return nil
}

// Len is the number of live entries.
func (m *MemoryCache) Len() int {
	return m.lru.Len()
}

// sharedFetchTimeout bounds a collapsed upstream fetch once it no longer
// follows any caller's context.
const sharedFetchTimeout = 30 * time.Second

// CachedProvider serves repeated requests from a Cache and collapses
// concurrent identical requests into one upstream call. Only successful
// responses are stored; errors always reach the caller.
type CachedProvider struct {
	next   Provider
	cache  Cache
	group  singleflight.Group
	logger *slog.Logger
}

var _ Provider = (*CachedProvider)(nil)

func NewCachedProvider(next Provider, cache Cache, logger *slog.Logger) *CachedProvider {
	return &CachedProvider{next: next, cache: cache, logger: logger}
}

// cached is the read-through path shared by every method. Cache failures
// are logged and otherwise ignored.
func cached[T any](ctx context.Context, p *CachedProvider, key string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T

	if b, ok, err := p.cache.Get(ctx, key); err != nil {
		p.logger.Warn("tmdb cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	} else if ok {
		var v T
		if err := json.Unmarshal(b, &v); err == nil {
			return v, nil
		}
		p.logger.Warn("tmdb cache entry undecodable", slog.String("key", key))
	}

	// The fetch is shared, so no single caller's cancellation may end it.
	// Each caller stops waiting when its own context is done.
	ch := p.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()

		res, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(res)
		if err != nil {
			return nil, fmt.Errorf("tmdb: encoding cache entry %s: %w", key, err)
		}
		if err := p.cache.Set(fetchCtx, key, b); err != nil {
			p.logger.Warn("tmdb cache write failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return res, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return zero, r.Err
		}
		return r.Val.(T), nil
	}
}

func pageKey(parts ...string) string {
	return "tmdb:" + strings.Join(parts, ":")
}

func (p *CachedProvider) Trending(ctx context.Context, window TrendingWindow, page int) (*Page[TrendingItem], error) {
	return cached(ctx, p, pageKey("trending", string(window), strconv.Itoa(page)), func(ctx context.Context) (*Page[TrendingItem], error) {
		return p.next.Trending(ctx, window, page)
	})
}

func (p *CachedProvider) NowPlayingMovies(ctx context.Context, page int) (*Page[Movie], error) {
	return cached(ctx, p, pageKey("movie", "now_playing", strconv.Itoa(page)), func(ctx context.Context) (*Page[Movie], error) {
		return p.next.NowPlayingMovies(ctx, page)
	})
}

func (p *CachedProvider) TopRatedMovies(ctx context.Context, page int) (*Page[Movie], error) {
	return cached(ctx, p, pageKey("movie", "top_rated", strconv.Itoa(page)), func(ctx context.Context) (*Page[Movie], error) {
		return p.next.TopRatedMovies(ctx, page)
	})
}

func (p *CachedProvider) PopularMovies(ctx context.Context, page int) (*Page[Movie], error) {
	return cached(ctx, p, pageKey("movie", "popular", strconv.Itoa(page)), func(ctx context.Context) (*Page[Movie], error) {
		return p.next.PopularMovies(ctx, page)
	})
}

func (p *CachedProvider) PopularTV(ctx context.Context, page int) (*Page[TVShow], error) {
	return cached(ctx, p, pageKey("tv", "popular", strconv.Itoa(page)), func(ctx context.Context) (*Page[TVShow], error) {
		return p.next.PopularTV(ctx, page)
	})
}

func (p *CachedProvider) TopRatedTV(ctx context.Context, page int) (*Page[TVShow], error) {
	return cached(ctx, p, pageKey("tv", "top_rated", strconv.Itoa(page)), func(ctx context.Context) (*Page[TVShow], error) {
		return p.next.TopRatedTV(ctx, page)
	})
}

func (p *CachedProvider) OnTheAirTV(ctx context.Context, page int) (*Page[TVShow], error) {
	return cached(ctx, p, pageKey("tv", "on_the_air", strconv.Itoa(page)), func(ctx context.Context) (*Page[TVShow], error) {
		return p.next.OnTheAirTV(ctx, page)
	})
}

func (p *CachedProvider) AiringTodayTV(ctx context.Context, page int) (*Page[TVShow], error) {
	return cached(ctx, p, pageKey("tv", "airing_today", strconv.Itoa(page)), func(ctx context.Context) (*Page[TVShow], error) {
		return p.next.AiringTodayTV(ctx, page)
	})
}

func (p *CachedProvider) SearchMovies(ctx context.Context, query string, page int) (*Page[Movie], error) {
	key := pageKey("search", "movie", strings.ToLower(query), strconv.Itoa(page))
	return cached(ctx, p, key, func(ctx context.Context) (*Page[Movie], error) {
		return p.next.SearchMovies(ctx, query, page)
	})
}

func (p *CachedProvider) SearchTV(ctx context.Context, query string, page int) (*Page[TVShow], error) {
	key := pageKey("search", "tv", strings.ToLower(query), strconv.Itoa(page))
	return cached(ctx, p, key, func(ctx context.Context) (*Page[TVShow], error) {
		return p.next.SearchTV(ctx, query, page)
	})
}

func (p *CachedProvider) MovieDetails(ctx context.Context, id int) (*Movie, error) {
	return cached(ctx, p, pageKey("movie", strconv.Itoa(id)), func(ctx context.Context) (*Movie, error) {
		return p.next.MovieDetails(ctx, id)
	})
}

func (p *CachedProvider) TVDetails(ctx context.Context, id int) (*TVShow, error) {
	return cached(ctx, p, pageKey("tv", strconv.Itoa(id)), func(ctx context.Context) (*TVShow, error) {
		return p.next.TVDetails(ctx, id)
	})
}

// ShowDetails runs the movie-then-TV fallback over the cached lookups, so
// both halves are served from cache on repeat.
func (p *CachedProvider) ShowDetails(ctx context.Context, id int) (Item, error) {
	return resolveDetails(ctx, p, id)
}

func (p *CachedProvider) Ping(ctx context.Context) error {
	return p.next.Ping(ctx)
}
