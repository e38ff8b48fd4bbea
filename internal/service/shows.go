// Package service holds the business rules between the HTTP handlers and
// the repositories / media provider.
//
//	Handler (HTTP) → Service (rules, DTO mapping) → tmdb.Provider
//	                                              ↘ repository.* (DB)
//
// Services never choose status codes. They return apperror kinds and the
// handlers map them.
package service

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/sakif/plotpocket/internal/apperror"
	"github.com/sakif/plotpocket/internal/model"
	"github.com/sakif/plotpocket/internal/repository"
	"github.com/sakif/plotpocket/internal/tmdb"
)

// MovieCategory selects one of the movie lists.
type MovieCategory string

const (
	MoviesNowPlaying MovieCategory = "now-playing"
	MoviesTopRated   MovieCategory = "top-rated"
	MoviesPopular    MovieCategory = "popular"
)

// TVCategory selects one of the TV lists.
type TVCategory string

const (
	TVPopular     TVCategory = "popular"
	TVTopRated    TVCategory = "top-rated"
	TVOnAir       TVCategory = "on-air"
	TVAiringToday TVCategory = "airing-today"
)

// SearchFilter restricts which halves of a search run.
type SearchFilter int

const (
	SearchAll SearchFilter = iota
	SearchMoviesOnly
	SearchTVOnly
)

// ShowService serves the browse and search lists.
type ShowService struct {
	upstream  upstream
	watchlist repository.WatchlistRepository
	bookmarks repository.BookmarkRepository
	logger    *slog.Logger
}

func NewShowService(
	provider tmdb.Provider,
	watchlist repository.WatchlistRepository,
	bookmarks repository.BookmarkRepository,
	logger *slog.Logger,
	opts ...Option,
) *ShowService {
	return &ShowService{
		upstream:  upstream{provider: provider, settings: newSettings(opts), logger: logger},
		watchlist: watchlist,
		bookmarks: bookmarks,
		logger:    logger,
	}
}

// Trending returns today's trending titles for the window.
func (s *ShowService) Trending(ctx context.Context, userID string, window tmdb.TrendingWindow) ([]model.ShowDto, error) {
	switch window {
	case tmdb.TrendingAll, tmdb.TrendingMovie, tmdb.TrendingTV:
	default:
		return nil, apperror.ValidationFailed("window", fmt.Sprintf("unknown trending window %q", window))
	}

	page, err := call(ctx, s.upstream, "trending/"+string(window), func(ctx context.Context) (*tmdb.Page[tmdb.TrendingItem], error) {
		return s.upstream.provider.Trending(ctx, window, 1)
	})
	if err != nil {
		return nil, fmt.Errorf("service/shows: trending %s: %w", window, translate(ctx, err, 0))
	}
	items := slices.DeleteFunc(slices.Clone(page.Results), tmdb.TrendingItem.IsPerson)
	return s.annotate(ctx, userID, toShowDtos(items))
}

// Movies returns one of the movie lists.
func (s *ShowService) Movies(ctx context.Context, userID string, category MovieCategory) ([]model.ShowDto, error) {
	var fetch func(context.Context, int) (*tmdb.Page[tmdb.Movie], error)
	switch category {
	case MoviesNowPlaying:
		fetch = s.upstream.provider.NowPlayingMovies
	case MoviesTopRated:
		fetch = s.upstream.provider.TopRatedMovies
	case MoviesPopular:
		fetch = s.upstream.provider.PopularMovies
	default:
		return nil, apperror.ValidationFailed("category", fmt.Sprintf("unknown movie category %q", category))
	}

	page, err := call(ctx, s.upstream, "movies/"+string(category), func(ctx context.Context) (*tmdb.Page[tmdb.Movie], error) {
		return fetch(ctx, 1)
	})
	if err != nil {
		return nil, fmt.Errorf("service/shows: movies %s: %w", category, translate(ctx, err, 0))
	}
	return s.annotate(ctx, userID, toShowDtos(page.Results))
}

// TvShows returns one of the TV lists.
func (s *ShowService) TvShows(ctx context.Context, userID string, category TVCategory) ([]model.ShowDto, error) {
	var fetch func(context.Context, int) (*tmdb.Page[tmdb.TVShow], error)
	switch category {
	case TVPopular:
		fetch = s.upstream.provider.PopularTV
	case TVTopRated:
		fetch = s.upstream.provider.TopRatedTV
	case TVOnAir:
		fetch = s.upstream.provider.OnTheAirTV
	case TVAiringToday:
		fetch = s.upstream.provider.AiringTodayTV
	default:
		return nil, apperror.ValidationFailed("category", fmt.Sprintf("unknown tv category %q", category))
	}

	page, err := call(ctx, s.upstream, "tv/"+string(category), func(ctx context.Context) (*tmdb.Page[tmdb.TVShow], error) {
		return fetch(ctx, 1)
	})
	if err != nil {
		return nil, fmt.Errorf("service/shows: tv %s: %w", category, translate(ctx, err, 0))
	}
	return s.annotate(ctx, userID, toShowDtos(page.Results))
}

// Search queries movies and TV in parallel and merges the results, movies
// first, then stable-sorted by rating, highest first. Equal ratings keep
// their upstream order.
func (s *ShowService) Search(ctx context.Context, userID, query string, filter SearchFilter) ([]model.ShowDto, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperror.ValidationFailed("query", "Search query cannot be empty")
	}

	// Each goroutine owns its own result variable; Wait orders the writes
	// before the reads below.
	var movies, shows []model.ShowDto
	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	if filter != SearchTVOnly {
		p.Go(func(ctx context.Context) error {
			page, err := call(ctx, s.upstream, "search/movie", func(ctx context.Context) (*tmdb.Page[tmdb.Movie], error) {
				return s.upstream.provider.SearchMovies(ctx, query, 1)
			})
			if err != nil {
				return err
			}
			movies = toShowDtos(page.Results)
			return nil
		})
	}
	if filter != SearchMoviesOnly {
		p.Go(func(ctx context.Context) error {
			page, err := call(ctx, s.upstream, "search/tv", func(ctx context.Context) (*tmdb.Page[tmdb.TVShow], error) {
				return s.upstream.provider.SearchTV(ctx, query, 1)
			})
			if err != nil {
				return err
			}
			shows = toShowDtos(page.Results)
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, fmt.Errorf("service/shows: searching %q: %w", query, translate(ctx, err, 0))
	}

	results := make([]model.ShowDto, 0, len(movies)+len(shows))
	results = append(results, movies...)
	results = append(results, shows...)
	slices.SortStableFunc(results, func(a, b model.ShowDto) int {
		return cmp.Compare(b.Rating, a.Rating)
	})

	return s.annotate(ctx, userID, results)
}

// annotate sets the per-user flags. Anonymous requests get the DTOs back
// untouched, with every flag false.
func (s *ShowService) annotate(ctx context.Context, userID string, dtos []model.ShowDto) ([]model.ShowDto, error) {
	return annotate(ctx, s.watchlist, s.bookmarks, userID, dtos)
}

// annotate loads the user's watchlist and bookmark sets once and flags each
// DTO by membership.
func annotate(
	ctx context.Context,
	watchlist repository.WatchlistRepository,
	bookmarks repository.BookmarkRepository,
	userID string,
	dtos []model.ShowDto,
) ([]model.ShowDto, error) {
	if userID == "" || len(dtos) == 0 {
		return dtos, nil
	}

	watched, err := watchlist.WatchlistStatus(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/shows: loading watchlist for %s: %w", userID, err)
	}
	marked, err := bookmarks.BookmarkedShowIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/shows: loading bookmarks for %s: %w", userID, err)
	}

	for i := range dtos {
		w, onList := watched[dtos[i].ID]
		dtos[i].IsWatchlisted = onList
		dtos[i].IsWatched = onList && w
		_, dtos[i].IsBookmarked = marked[dtos[i].ID]
	}
	return dtos, nil
}
