package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sourcegraph/conc/iter"

	"github.com/sakif/plotpocket/internal/model"
	"github.com/sakif/plotpocket/internal/repository"
	"github.com/sakif/plotpocket/internal/tmdb"
)

// BookmarkService manages bookmarks. Unlike the watchlist, bookmarks store
// only the external id; metadata is always fetched live.
type BookmarkService struct {
	upstream  upstream
	bookmarks repository.BookmarkRepository
	watchlist repository.WatchlistRepository
	logger    *slog.Logger
}

func NewBookmarkService(
	provider tmdb.Provider,
	bookmarks repository.BookmarkRepository,
	watchlist repository.WatchlistRepository,
	logger *slog.Logger,
	opts ...Option,
) *BookmarkService {
	return &BookmarkService{
		upstream:  upstream{provider: provider, settings: newSettings(opts), logger: logger},
		bookmarks: bookmarks,
		watchlist: watchlist,
		logger:    logger,
	}
}

// Add bookmarks an external id for the user. The id must resolve to a
// movie or TV show. Bookmarking twice leaves one row and succeeds.
func (s *BookmarkService) Add(ctx context.Context, userID string, showID int) (*model.ShowDto, error) {
	item, err := s.details(ctx, showID)
	if err != nil {
		return nil, err
	}

	b := &model.Bookmark{ShowID: showID, UserID: userID}
	created, err := s.bookmarks.AddBookmark(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("service/bookmark: adding %d for %s: %w", showID, userID, err)
	}
	if created {
		s.logger.Info("bookmark added", slog.String("userID", userID), slog.Int("showId", showID))
	}

	return s.single(ctx, userID, item)
}

// Remove deletes the bookmark if there is one. Removing a bookmark that
// never existed is not an error; the show is still returned.
func (s *BookmarkService) Remove(ctx context.Context, userID string, showID int) (*model.ShowDto, error) {
	removed, err := s.bookmarks.RemoveBookmark(ctx, userID, showID)
	if err != nil {
		return nil, fmt.Errorf("service/bookmark: removing %d for %s: %w", showID, userID, err)
	}
	if removed {
		s.logger.Info("bookmark removed", slog.String("userID", userID), slog.Int("showId", showID))
	}

	item, err := s.details(ctx, showID)
	if err != nil {
		return nil, err
	}
	return s.single(ctx, userID, item)
}

// List resolves every bookmark to live metadata, newest bookmark first.
// Lookups run in parallel up to the configured limit; a bookmark whose
// lookup fails is logged and left out rather than failing the list.
func (s *BookmarkService) List(ctx context.Context, userID string) ([]model.ShowDto, error) {
	marks, err := s.bookmarks.Bookmarks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/bookmark: listing for %s: %w", userID, err)
	}

	mapper := iter.Mapper[model.Bookmark, *model.ShowDto]{
		MaxGoroutines: s.upstream.settings.bookmarkConcurrency,
	}
	resolved := mapper.Map(marks, func(b *model.Bookmark) *model.ShowDto {
		item, err := s.details(ctx, b.ShowID)
		if err != nil {
			s.logger.Warn("skipping bookmark",
				slog.String("userID", userID),
				slog.Int("showId", b.ShowID),
				slog.String("error", err.Error()),
			)
			return nil
		}
		dto := toShowDto(item)
		return &dto
	})

	dtos := make([]model.ShowDto, 0, len(resolved))
	for _, dto := range resolved {
		if dto != nil {
			dtos = append(dtos, *dto)
		}
	}
	return annotate(ctx, s.watchlist, s.bookmarks, userID, dtos)
}

func (s *BookmarkService) details(ctx context.Context, showID int) (tmdb.Item, error) {
	item, err := call(ctx, s.upstream, "show details", func(ctx context.Context) (tmdb.Item, error) {
		return s.upstream.provider.ShowDetails(ctx, showID)
	})
	if err != nil {
		return nil, fmt.Errorf("service/bookmark: resolving show %d: %w", showID, translate(ctx, err, showID))
	}
	return item, nil
}

// single annotates one DTO against the user's current state.
func (s *BookmarkService) single(ctx context.Context, userID string, item tmdb.Item) (*model.ShowDto, error) {
	dtos, err := annotate(ctx, s.watchlist, s.bookmarks, userID, []model.ShowDto{toShowDto(item)})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}
