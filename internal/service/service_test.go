package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sakif/plotpocket/internal/model"
	"github.com/sakif/plotpocket/internal/repository/sqlstore"
	"github.com/sakif/plotpocket/internal/tmdb"
	"github.com/sakif/plotpocket/internal/tmdb/mock_tmdb"
)

// testRetryDelay keeps backoff measurable without slowing the suite.
const testRetryDelay = 10 * time.Millisecond

// fixture wires the real services to an in-memory database and a mocked
// provider, with one registered user.
type fixture struct {
	provider  *mock_tmdb.MockProvider
	db        *sqlstore.DB
	shows     *ShowService
	watchlist *WatchlistService
	bookmarks *BookmarkService
	userID    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	provider := mock_tmdb.NewMockProvider(ctrl)

	db, err := sqlstore.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	user := &model.User{Email: "viewer@example.com", UserName: "viewer@example.com"}
	require.NoError(t, db.CreateUser(context.Background(), user))

	logger := discardLogger()
	opts := []Option{WithRetryDelay(testRetryDelay)}
	return &fixture{
		provider:  provider,
		db:        db,
		shows:     NewShowService(provider, db, db, logger, opts...),
		watchlist: NewWatchlistService(provider, db, db, db, logger, opts...),
		bookmarks: NewBookmarkService(provider, db, db, logger, opts...),
		userID:    user.ID,
	}
}

func moviePage(movies ...tmdb.Movie) *tmdb.Page[tmdb.Movie] {
	return &tmdb.Page[tmdb.Movie]{Page: 1, TotalPages: 1, TotalResults: len(movies), Results: movies}
}

func tvPage(shows ...tmdb.TVShow) *tmdb.Page[tmdb.TVShow] {
	return &tmdb.Page[tmdb.TVShow]{Page: 1, TotalPages: 1, TotalResults: len(shows), Results: shows}
}

func transportErr() error {
	return &tmdb.TransportError{Op: "GET /movie/popular", Err: context.DeadlineExceeded}
}

func ids(dtos []model.ShowDto) []int {
	out := make([]int, len(dtos))
	for i, d := range dtos {
		out[i] = d.ID
	}
	return out
}

func bookmarkFor(userID string, showID int) *model.Bookmark {
	return &model.Bookmark{ShowID: showID, UserID: userID}
}
