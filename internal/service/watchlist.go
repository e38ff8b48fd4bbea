package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/plotpocket/internal/apperror"
	"github.com/sakif/plotpocket/internal/model"
	"github.com/sakif/plotpocket/internal/repository"
	"github.com/sakif/plotpocket/internal/tmdb"
)

// WatchlistService manages the user ↔ show association.
//
// A show row is cached the first time anyone watchlists its external id
// and is shared from then on. Removing a show from a watchlist never
// deletes the cached row.
type WatchlistService struct {
	upstream  upstream
	shows     repository.ShowRepository
	watchlist repository.WatchlistRepository
	bookmarks repository.BookmarkRepository
	logger    *slog.Logger
}

func NewWatchlistService(
	provider tmdb.Provider,
	shows repository.ShowRepository,
	watchlist repository.WatchlistRepository,
	bookmarks repository.BookmarkRepository,
	logger *slog.Logger,
	opts ...Option,
) *WatchlistService {
	return &WatchlistService{
		upstream:  upstream{provider: provider, settings: newSettings(opts), logger: logger},
		shows:     shows,
		watchlist: watchlist,
		bookmarks: bookmarks,
		logger:    logger,
	}
}

// Add puts the title on the user's watchlist, caching it first if needed.
// Adding a title twice is a no-op.
func (s *WatchlistService) Add(ctx context.Context, userID string, externalID int, showType model.ShowType) (*model.ShowDto, error) {
	show, err := s.shows.GetShowByAPIID(ctx, externalID)
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		show, err = s.fetchShow(ctx, externalID, showType)
		if err != nil {
			return nil, err
		}
		if err := s.shows.CreateShow(ctx, show); err != nil {
			return nil, fmt.Errorf("service/watchlist: caching show %d: %w", externalID, err)
		}
		s.logger.Info("show cached",
			slog.Int("showApiId", show.ShowAPIID),
			slog.String("type", show.Type.String()),
		)
	case err != nil:
		return nil, fmt.Errorf("service/watchlist: looking up show %d: %w", externalID, err)
	}

	if err := s.watchlist.AddToWatchlist(ctx, userID, show.ID); err != nil {
		return nil, fmt.Errorf("service/watchlist: adding show %d for %s: %w", externalID, userID, err)
	}

	dto := model.ShowDtoFromShow(show)
	dto.IsWatchlisted = true
	if err := s.markBookmarked(ctx, userID, &dto); err != nil {
		return nil, err
	}
	return &dto, nil
}

// Remove takes the title off the user's watchlist. The title must have
// been cached by an earlier Add, by anyone.
func (s *WatchlistService) Remove(ctx context.Context, userID string, externalID int) (*model.ShowDto, error) {
	show, err := s.shows.GetShowByAPIID(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("service/watchlist: looking up show %d: %w", externalID, err)
	}

	if err := s.watchlist.RemoveFromWatchlist(ctx, userID, show.ID); err != nil {
		return nil, fmt.Errorf("service/watchlist: removing show %d for %s: %w", externalID, userID, err)
	}

	dto := model.ShowDtoFromShow(show)
	dto.IsWatchlisted = false
	dto.IsWatched = false
	if err := s.markBookmarked(ctx, userID, &dto); err != nil {
		return nil, err
	}
	return &dto, nil
}

// List returns the user's watchlist from the local cache, newest first.
func (s *WatchlistService) List(ctx context.Context, userID string) ([]model.ShowDto, error) {
	shows, err := s.watchlist.Watchlist(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/watchlist: listing for %s: %w", userID, err)
	}

	dtos := make([]model.ShowDto, 0, len(shows))
	for i := range shows {
		dtos = append(dtos, model.ShowDtoFromShow(&shows[i]))
	}
	return annotate(ctx, s.watchlist, s.bookmarks, userID, dtos)
}

func (s *WatchlistService) fetchShow(ctx context.Context, externalID int, showType model.ShowType) (*model.Show, error) {
	var (
		item tmdb.Item
		err  error
	)
	switch showType {
	case model.ShowTypeMovie:
		item, err = call(ctx, s.upstream, "movie details", func(ctx context.Context) (tmdb.Item, error) {
			m, err := s.upstream.provider.MovieDetails(ctx, externalID)
			if err != nil {
				return nil, err
			}
			return *m, nil
		})
	case model.ShowTypeTvShow:
		item, err = call(ctx, s.upstream, "tv details", func(ctx context.Context) (tmdb.Item, error) {
			tv, err := s.upstream.provider.TVDetails(ctx, externalID)
			if err != nil {
				return nil, err
			}
			return *tv, nil
		})
	default:
		return nil, apperror.ValidationFailed("type", fmt.Sprintf("unknown show type %s", showType))
	}
	if err != nil {
		return nil, fmt.Errorf("service/watchlist: fetching show %d: %w", externalID, translate(ctx, err, externalID))
	}
	return toShow(item), nil
}

func (s *WatchlistService) markBookmarked(ctx context.Context, userID string, dto *model.ShowDto) error {
	marked, err := s.bookmarks.BookmarkedShowIDs(ctx, userID)
	if err != nil {
		return fmt.Errorf("service/watchlist: loading bookmarks for %s: %w", userID, err)
	}
	_, dto.IsBookmarked = marked[dto.ID]
	return nil
}
