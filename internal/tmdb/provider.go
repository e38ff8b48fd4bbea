package tmdb

import "context"

//go:generate mockgen -destination=mock_tmdb/provider.go -package=mock_tmdb github.com/sakif/plotpocket/internal/tmdb Provider

// Provider is everything the services need from the media provider. Client
// implements it against the real API; CachedProvider decorates any
// Provider with a response cache.
type Provider interface {
	Trending(ctx context.Context, window TrendingWindow, page int) (*Page[TrendingItem], error)

	NowPlayingMovies(ctx context.Context, page int) (*Page[Movie], error)
	TopRatedMovies(ctx context.Context, page int) (*Page[Movie], error)
	PopularMovies(ctx context.Context, page int) (*Page[Movie], error)

	PopularTV(ctx context.Context, page int) (*Page[TVShow], error)
	TopRatedTV(ctx context.Context, page int) (*Page[TVShow], error)
	OnTheAirTV(ctx context.Context, page int) (*Page[TVShow], error)
	AiringTodayTV(ctx context.Context, page int) (*Page[TVShow], error)

	SearchMovies(ctx context.Context, query string, page int) (*Page[Movie], error)
	SearchTV(ctx context.Context, query string, page int) (*Page[TVShow], error)

	MovieDetails(ctx context.Context, id int) (*Movie, error)
	TVDetails(ctx context.Context, id int) (*TVShow, error)
	// ShowDetails looks the id up as a movie first and falls back to TV.
	ShowDetails(ctx context.Context, id int) (Item, error)

	// Ping checks that the API is reachable with the configured key.
	Ping(ctx context.Context) error
}

type detailsFetcher interface {
	MovieDetails(ctx context.Context, id int) (*Movie, error)
	TVDetails(ctx context.Context, id int) (*TVShow, error)
}

// resolveDetails tries the movie lookup, and on a non-success status the TV
// lookup. Transport failures are returned as-is so the caller can retry.
func resolveDetails(ctx context.Context, p detailsFetcher, id int) (Item, error) {
	m, err := p.MovieDetails(ctx, id)
	if err == nil {
		return *m, nil
	}
	if !IsStatus(err) {
		return nil, err
	}

	tv, err := p.TVDetails(ctx, id)
	if err == nil {
		return *tv, nil
	}
	if IsStatus(err) {
		return nil, ErrNotFound
	}
	return nil, err
}
