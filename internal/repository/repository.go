// Package repository declares the persistence interfaces the services
// depend on. The sqlstore package implements all of them on one *sql.DB.
package repository

import (
	"context"

	"github.com/sakif/plotpocket/internal/model"
)

type UserRepository interface {
	// CreateUser inserts a password user. A duplicate email returns
	// apperror.ErrConflict.
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	// UpsertGitHubUser creates or refreshes the account linked to
	// user.GitHubID.
	UpsertGitHubUser(ctx context.Context, user *model.User) error
	CountUsers(ctx context.Context) (int, error)
}

type ShowRepository interface {
	GetShowByAPIID(ctx context.Context, showAPIID int) (*model.Show, error)
	CreateShow(ctx context.Context, show *model.Show) error
}

// WatchlistRepository manages the user_shows join table.
type WatchlistRepository interface {
	// AddToWatchlist is a no-op when the pair already exists.
	AddToWatchlist(ctx context.Context, userID, showID string) error
	RemoveFromWatchlist(ctx context.Context, userID, showID string) error
	IsOnWatchlist(ctx context.Context, userID, showID string) (bool, error)
	// Watchlist returns the user's cached shows, newest first.
	Watchlist(ctx context.Context, userID string) ([]model.Show, error)
	// WatchlistStatus maps the external id of every watchlisted show to
	// its watched flag.
	WatchlistStatus(ctx context.Context, userID string) (map[int]bool, error)
}

type BookmarkRepository interface {
	// AddBookmark inserts the (show, user) pair unless it already exists and
	// fills b with the persisted row either way. created reports whether
	// this call inserted it.
	AddBookmark(ctx context.Context, b *model.Bookmark) (created bool, err error)
	// RemoveBookmark reports whether a row was deleted.
	RemoveBookmark(ctx context.Context, userID string, showID int) (bool, error)
	// Bookmarks lists a user's bookmarks, newest first.
	Bookmarks(ctx context.Context, userID string) ([]model.Bookmark, error)
	BookmarkedShowIDs(ctx context.Context, userID string) (map[int]struct{}, error)
}
