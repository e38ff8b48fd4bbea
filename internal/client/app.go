package client

import (
	"context"
	"log/slog"

	"github.com/sakif/plotpocket/internal/model"
)

// App wires the API, the stores and a Navigator into one front end.
type App struct {
	API       *API
	Auth      *AuthStore
	Bookmarks *BookmarkStore
	Nav       Navigator

	logger *slog.Logger
}

// New creates an App talking to the API at baseURL. Call Auth.Init to pick
// up an existing session.
func New(baseURL string, nav Navigator, logger *slog.Logger, opts ...Option) (*App, error) {
	app := &App{Nav: nav, logger: logger}
	app.Auth = &AuthStore{logger: logger}

	api, err := NewAPI(baseURL, app.onAuthFailure, opts...)
	if err != nil {
		return nil, err
	}
	app.API = api
	app.Auth.api = api
	app.Bookmarks = NewBookmarkStore(api, app.Auth, logger)
	return app, nil
}

// Close detaches the stores from each other.
func (a *App) Close() {
	a.Bookmarks.Close()
}

// onAuthFailure runs for every 401/403: the session is gone, so local
// state is cleared and the user is sent to log in, with a way back.
func (a *App) onAuthFailure() {
	a.Auth.Clear()

	current := a.Nav.Current()
	if isLoginRoute(current) {
		return
	}
	a.logger.Debug("session rejected, redirecting to login", slog.String("returnUrl", current))
	a.Nav.Navigate(LoginRoute(current))
}

func (a *App) newPage(cfg PageConfig) *ListPage {
	return &ListPage{
		cfg:       cfg,
		api:       a.API,
		auth:      a.Auth,
		bookmarks: a.Bookmarks,
		nav:       a.Nav,
		logger:    a.logger,
	}
}

// MoviesPage lists movies by category; search covers movies and TV.
func (a *App) MoviesPage() *ListPage {
	return a.newPage(PageConfig{
		Route:         "/movies",
		DefaultFilter: "popular",
		Filters:       []string{"popular", "now-playing", "top-rated"},
		Load:          a.API.Movies,
		Search:        a.API.Search,
	})
}

// TvShowsPage lists TV shows by category and searches TV only.
func (a *App) TvShowsPage() *ListPage {
	return a.newPage(PageConfig{
		Route:         "/tv-shows",
		DefaultFilter: "popular",
		Filters:       []string{"popular", "top-rated", "on-air", "airing-today"},
		Load:          a.API.TvShows,
		Search:        a.API.SearchTV,
	})
}

func (a *App) TrendingPage() *ListPage {
	return a.newPage(PageConfig{
		Route:         "/trending",
		DefaultFilter: "all",
		Filters:       []string{"all", "movies", "tv-shows"},
		Load:          a.API.Trending,
		Search:        a.API.Search,
	})
}

// BookmarksPage shows the BookmarkStore's list and filters it locally.
func (a *App) BookmarksPage() *ListPage {
	return a.newPage(PageConfig{
		Route:       "/bookmark",
		RequireAuth: true,
		Load: func(ctx context.Context, _ string) ([]model.ShowDto, error) {
			if err := a.Bookmarks.Load(ctx); err != nil {
				return nil, err
			}
			return a.Bookmarks.Bookmarks(), nil
		},
		MirrorBookmarks: true,
	})
}
