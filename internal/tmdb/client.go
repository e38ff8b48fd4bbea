// Package tmdb is the client for The Movie Database (TMDB) v3 API.
//
// Each content category is one GET against the API, decoded into a typed
// Page and post-processed so that every poster_path is an absolute URL.
// The client does no caching of its own; wrap it in a CachedProvider for
// that.
//
// ERROR KINDS:
//   - *TransportError: the request never got a response (retryable)
//   - *StatusError: TMDB answered with a non-2xx status (not retryable)
//   - ErrNotFound: ShowDetails found neither a movie nor a TV show
//
// RATE LIMITING:
// TMDB throttles clients that burst too hard. Every request waits on a
// shared token bucket first, so a burst of page loads queues here instead
// of tripping the upstream limit.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p/"
	DefaultPosterSize   = "w500"
)

// Config configures a Client. Zero values fall back to the defaults above,
// a 10s timeout and no rate limit.
type Config struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	PosterSize   string
	Timeout      time.Duration
	// RequestsPerSecond caps upstream traffic. 0 disables the limiter.
	RequestsPerSecond float64
	Burst             int
}

// Client talks to the TMDB API.
type Client struct {
	apiKey     string
	baseURL    string
	imageBase  string
	posterSize string
	http       *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

var _ Provider = (*Client)(nil)

// NewClient creates a Client. An API key is required.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("tmdb: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = DefaultImageBaseURL
	}
	if cfg.PosterSize == "" {
		cfg.PosterSize = DefaultPosterSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = int(cfg.RequestsPerSecond)
			if burst < 1 {
				burst = 1
			}
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		imageBase:  cfg.ImageBaseURL,
		posterSize: cfg.PosterSize,
		http:       &http.Client{Timeout: cfg.Timeout},
		limiter:    limiter,
		logger:     logger,
	}, nil
}

// get performs one GET against path, decoding a 2xx JSON body into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("tmdb: %s: waiting for rate limiter: %w", path, err)
	}

	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("tmdb: building URL for %s: %w", path, err)
	}
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("api_key", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("tmdb: creating request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		// A cancelled caller is not an upstream failure.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("tmdb: %s: %w", path, ctxErr)
		}
		return &TransportError{Op: path, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("tmdb request",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Op: path, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("tmdb: decoding %s: %w", path, err)
	}
	return nil
}

func pageParams(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{"page": {strconv.Itoa(page)}}
}

func (c *Client) poster(p string) string {
	return PosterURL(c.imageBase, c.posterSize, p)
}

func (c *Client) movies(ctx context.Context, path string, params url.Values) (*Page[Movie], error) {
	var page Page[Movie]
	if err := c.get(ctx, path, params, &page); err != nil {
		return nil, err
	}
	for i := range page.Results {
		page.Results[i].PosterPath = c.poster(page.Results[i].PosterPath)
	}
	return &page, nil
}

func (c *Client) tvShows(ctx context.Context, path string, params url.Values) (*Page[TVShow], error) {
	var page Page[TVShow]
	if err := c.get(ctx, path, params, &page); err != nil {
		return nil, err
	}
	for i := range page.Results {
		page.Results[i].PosterPath = c.poster(page.Results[i].PosterPath)
	}
	return &page, nil
}

func (c *Client) Trending(ctx context.Context, window TrendingWindow, page int) (*Page[TrendingItem], error) {
	switch window {
	case TrendingAll, TrendingMovie, TrendingTV:
	default:
		return nil, fmt.Errorf("tmdb: unknown trending window %q", window)
	}

	var p Page[TrendingItem]
	if err := c.get(ctx, "/trending/"+string(window)+"/day", pageParams(page), &p); err != nil {
		return nil, err
	}
	for i := range p.Results {
		p.Results[i].PosterPath = c.poster(p.Results[i].PosterPath)
	}
	return &p, nil
}

func (c *Client) NowPlayingMovies(ctx context.Context, page int) (*Page[Movie], error) {
	return c.movies(ctx, "/movie/now_playing", pageParams(page))
}

func (c *Client) TopRatedMovies(ctx context.Context, page int) (*Page[Movie], error) {
	return c.movies(ctx, "/movie/top_rated", pageParams(page))
}

func (c *Client) PopularMovies(ctx context.Context, page int) (*Page[Movie], error) {
	return c.movies(ctx, "/movie/popular", pageParams(page))
}

func (c *Client) PopularTV(ctx context.Context, page int) (*Page[TVShow], error) {
	return c.tvShows(ctx, "/tv/popular", pageParams(page))
}

func (c *Client) TopRatedTV(ctx context.Context, page int) (*Page[TVShow], error) {
	return c.tvShows(ctx, "/tv/top_rated", pageParams(page))
}

func (c *Client) OnTheAirTV(ctx context.Context, page int) (*Page[TVShow], error) {
	return c.tvShows(ctx, "/tv/on_the_air", pageParams(page))
}

func (c *Client) AiringTodayTV(ctx context.Context, page int) (*Page[TVShow], error) {
	return c.tvShows(ctx, "/tv/airing_today", pageParams(page))
}

func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*Page[Movie], error) {
	params := pageParams(page)
	params.Set("query", query)
	return c.movies(ctx, "/search/movie", params)
}

func (c *Client) SearchTV(ctx context.Context, query string, page int) (*Page[TVShow], error) {
	params := pageParams(page)
	params.Set("query", query)
	return c.tvShows(ctx, "/search/tv", params)
}

func (c *Client) MovieDetails(ctx context.Context, id int) (*Movie, error) {
	var m Movie
	if err := c.get(ctx, "/movie/"+strconv.Itoa(id), nil, &m); err != nil {
		return nil, err
	}
	m.PosterPath = c.poster(m.PosterPath)
	return &m, nil
}

func (c *Client) TVDetails(ctx context.Context, id int) (*TVShow, error) {
	var s TVShow
	if err := c.get(ctx, "/tv/"+strconv.Itoa(id), nil, &s); err != nil {
		return nil, err
	}
	s.PosterPath = c.poster(s.PosterPath)
	return &s, nil
}

func (c *Client) ShowDetails(ctx context.Context, id int) (Item, error) {
	return resolveDetails(ctx, c, id)
}

func (c *Client) Ping(ctx context.Context) error {
	var discard json.RawMessage
	return c.get(ctx, "/configuration", nil, &discard)
}
