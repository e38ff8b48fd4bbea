package client_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/plotpocket/internal/client"
)

func mount(t *testing.T, page *client.ListPage) {
	t.Helper()
	require.NoError(t, page.Mount(context.Background()))
	t.Cleanup(page.Unmount)
}

func eventuallyShows(t *testing.T, page *client.ListPage, want []int) {
	t.Helper()
	require.Eventually(t, func() bool {
		st := page.State()
		return !st.Loading && assert.ObjectsAreEqual(want, showIDs(st.Shows))
	}, 2*time.Second, 10*time.Millisecond, "want shows %v, have %v", want, showIDs(page.State().Shows))
}

func TestListPage_MountLoadsDefaultFilter(t *testing.T) {
	api := newFakeAPI(t)
	app, _ := newApp(t, api, "/movies")
	page := app.MoviesPage()

	mount(t, page)

	st := page.State()
	assert.Equal(t, "popular", st.Filter)
	assert.False(t, st.Loading)
	assert.NoError(t, st.Err)
	assert.Equal(t, []int{550, 680}, showIDs(st.Shows))
}

func TestListPage_SetFilter(t *testing.T) {
	api := newFakeAPI(t)
	app, _ := newApp(t, api, "/movies")
	page := app.MoviesPage()
	mount(t, page)

	require.NoError(t, page.SetFilter("top-rated"))
	assert.Equal(t, []int{238}, showIDs(page.State().Shows))
	assert.Equal(t, "top-rated", page.State().Filter)

	assert.Error(t, page.SetFilter("upcoming"))
	assert.Equal(t, "top-rated", page.State().Filter)
}

func TestListPage_LoadErrorIsState(t *testing.T) {
	api := newFakeAPI(t)
	app, _ := newApp(t, api, "/movies")
	page := app.MoviesPage()
	mount(t, page)

	api.failWith("GET /api/movies/now-playing", http.StatusBadGateway)
	err := page.SetFilter("now-playing")

	require.Error(t, err)
	st := page.State()
	assert.Error(t, st.Err)
	assert.False(t, st.Loading)
	assert.Equal(t, []int{550, 680}, showIDs(st.Shows), "previous list stays visible")
}

func TestListPage_SubscribeSeesLoadingThenResult(t *testing.T) {
	api := newFakeAPI(t)
	app, _ := newApp(t, api, "/movies")
	page := app.MoviesPage()
	mount(t, page)

	var states []client.PageState
	unsubscribe := page.Subscribe(func(st client.PageState) { states = append(states, st) })
	defer unsubscribe()

	require.NoError(t, page.SetFilter("now-playing"))

	require.Len(t, states, 3)
	assert.False(t, states[0].Loading)
	assert.True(t, states[1].Loading)
	assert.False(t, states[2].Loading)
	assert.Equal(t, []int{1}, showIDs(states[2].Shows))
}

func TestListPage_SearchIsDebounced(t *testing.T) {
	api := newFakeAPI(t)
	app, _ := newApp(t, api, "/movies")
	page := app.MoviesPage()
	mount(t, page)

	page.Search("f")
	page.Search("fi")
	page.Search("fight")

	eventuallyShows(t, page, []int{550})
	assert.Equal(t, 1, api.callCount("GET /api/shows/search"))
	assert.Equal(t, "fight", page.State().Query)
}

func TestListPage_EmptySearchReloadsDefault(t *testing.T) {
	api := newFakeAPI(t)
	app, _ := newApp(t, api, "/movies")
	page := app.MoviesPage()
	mount(t, page)

	page.Search("pulp")
	eventuallyShows(t, page, []int{680})

	page.Search("  ")
	eventuallyShows(t, page, []int{550, 680})
	assert.Equal(t, 1, api.callCount("GET /api/shows/search"))
}

func TestListPage_TvSearchUsesTvEndpoint(t *testing.T) {
	api := newFakeAPI(t)
	app, _ := newApp(t, api, "/tv-shows")
	page := app.TvShowsPage()
	mount(t, page)
	require.Equal(t, []int{1399}, showIDs(page.State().Shows))

	// "club" only matches a movie, so a TV-only search comes back empty.
	page.Search("club")

	require.Eventually(t, func() bool {
		return api.callCount("GET /api/TvShows/search") == 1
	}, 2*time.Second, 10*time.Millisecond)
	eventuallyShows(t, page, []int{})
	assert.Zero(t, api.callCount("GET /api/shows/search"))
	assert.Equal(t, "club", page.State().Query)
}

func TestListPage_LastRequestWins(t *testing.T) {
	api := newFakeAPI(t)
	app, _ := newApp(t, api, "/movies")
	page := app.MoviesPage()
	mount(t, page)

	release := api.hold("GET /api/movies/now-playing")
	slow := make(chan error, 1)
	go func() { slow <- page.SetFilter("now-playing") }()
	require.Eventually(t, func() bool {
		return api.callCount("GET /api/movies/now-playing") == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, page.SetFilter("top-rated"))
	release()
	require.NoError(t, <-slow)

	st := page.State()
	assert.Equal(t, "top-rated", st.Filter)
	assert.Equal(t, []int{238}, showIDs(st.Shows))
}

func TestListPage_UnmountDiscardsInFlight(t *testing.T) {
	api := newFakeAPI(t)
	app, _ := newApp(t, api, "/movies")
	page := app.MoviesPage()
	require.NoError(t, page.Mount(context.Background()))

	release := api.hold("GET /api/movies/top-rated")
	defer release()
	done := make(chan error, 1)
	go func() { done <- page.SetFilter("top-rated") }()
	require.Eventually(t, func() bool {
		return api.callCount("GET /api/movies/top-rated") == 1
	}, time.Second, 5*time.Millisecond)

	page.Unmount()
	require.NoError(t, <-done)

	st := page.State()
	assert.False(t, st.Loading)
	assert.Equal(t, []int{550, 680}, showIDs(st.Shows))
	assert.ErrorIs(t, page.SetFilter("popular"), client.ErrNotMounted)
}

func TestListPage_UnmountCancelsPendingSearch(t *testing.T) {
	api := newFakeAPI(t)
	app, _ := newApp(t, api, "/movies")
	page := app.MoviesPage()
	require.NoError(t, page.Mount(context.Background()))

	page.Search("fight")
	page.Unmount()

	time.Sleep(2 * client.SearchDebounce)
	assert.Zero(t, api.callCount("GET /api/shows/search"))
}

// ──────────────────────────────────────────────
// Toggles
// ──────────────────────────────────────────────

func TestListPage_AnonymousToggleRedirectsToLogin(t *testing.T) {
	api := newFakeAPI(t)
	app, nav := newApp(t, api, "/movies")
	page := app.MoviesPage()
	mount(t, page)

	err := page.ToggleWatchlist(context.Background(), 550)
	assert.ErrorIs(t, err, client.ErrNotLoggedIn)
	assert.Equal(t, "/login?returnUrl=%2Fmovies", nav.Current())

	err = page.ToggleBookmark(context.Background(), 550)
	assert.ErrorIs(t, err, client.ErrNotLoggedIn)

	assert.Zero(t, api.callCount("POST /api/movies/550/watchlist"))
	assert.Zero(t, api.callCount("POST /api/shows/550/bookmark"))
}

func TestListPage_LoginRedirectKeepsQuery(t *testing.T) {
	api := newFakeAPI(t)
	app, nav := newApp(t, api, "/movies?filter=top-rated")
	page := app.MoviesPage()
	mount(t, page)

	err := page.ToggleBookmark(context.Background(), 550)

	assert.ErrorIs(t, err, client.ErrNotLoggedIn)
	assert.Equal(t, client.LoginRoute("/movies?filter=top-rated"), nav.Current())
	assert.Equal(t, "/login?returnUrl=%2Fmovies%3Ffilter%3Dtop-rated", nav.Current())
}

func TestListPage_ToggleWatchlist(t *testing.T) {
	api := newFakeAPI(t)
	app, _ := newApp(t, api, "/tv-shows")
	login(t, app)
	page := app.TvShowsPage()
	mount(t, page)
	ctx := context.Background()

	require.NoError(t, page.ToggleWatchlist(ctx, 1399))
	assert.True(t, page.State().Shows[0].IsWatchlisted)
	assert.Equal(t, 1, api.callCount("POST /api/TvShows/1399/watchlist"), "tv shows use the TV route")

	require.NoError(t, page.ToggleWatchlist(ctx, 1399))
	assert.False(t, page.State().Shows[0].IsWatchlisted)
	assert.Equal(t, 1, api.callCount("DELETE /api/TvShows/1399/watchlist"))
}

func TestListPage_ToggleOnlyPatchesAfterSuccess(t *testing.T) {
	api := newFakeAPI(t)
	app, _ := newApp(t, api, "/movies")
	login(t, app)
	page := app.MoviesPage()
	mount(t, page)

	api.failWith("POST /api/movies/550/watchlist", http.StatusBadGateway)
	err := page.ToggleWatchlist(context.Background(), 550)

	require.Error(t, err)
	assert.False(t, page.State().Shows[0].IsWatchlisted)
}

func TestListPage_ToggleBookmarkUpdatesStore(t *testing.T) {
	api := newFakeAPI(t)
	app, _ := newApp(t, api, "/movies")
	login(t, app)
	page := app.MoviesPage()
	mount(t, page)

	require.NoError(t, page.ToggleBookmark(context.Background(), 680))

	assert.True(t, page.State().Shows[1].IsBookmarked)
	assert.True(t, app.Bookmarks.IsBookmarked(680))
}

func TestListPage_UnknownShow(t *testing.T) {
	api := newFakeAPI(t)
	app, _ := newApp(t, api, "/movies")
	login(t, app)
	page := app.MoviesPage()
	mount(t, page)

	assert.Error(t, page.ToggleWatchlist(context.Background(), 424242))
}

// ──────────────────────────────────────────────
// Bookmarks page
// ──────────────────────────────────────────────

func TestBookmarksPage_RequiresLogin(t *testing.T) {
	api := newFakeAPI(t)
	app, nav := newApp(t, api, "/bookmark")

	err := app.BookmarksPage().Mount(context.Background())

	assert.ErrorIs(t, err, client.ErrNotLoggedIn)
	assert.Equal(t, "/login?returnUrl=%2Fbookmark", nav.Current())
}

func TestBookmarksPage_MirrorsStoreAndFiltersLocally(t *testing.T) {
	api := newFakeAPI(t)
	app, _ := newApp(t, api, "/bookmark")
	login(t, app)
	ctx := context.Background()
	_, err := app.Bookmarks.Add(ctx, 550)
	require.NoError(t, err)
	_, err = app.Bookmarks.Add(ctx, 680)
	require.NoError(t, err)

	page := app.BookmarksPage()
	mount(t, page)
	assert.Equal(t, []int{680, 550}, showIDs(page.State().Shows))
	for _, s := range page.State().Shows {
		assert.True(t, s.IsBookmarked)
	}

	// Local filter on title or overview; the server is not searched.
	page.Search("insomniac")
	eventuallyShows(t, page, []int{550})
	assert.Zero(t, api.callCount("GET /api/shows/search"))

	page.Search("")
	eventuallyShows(t, page, []int{680, 550})

	// Removing a bookmark drops it from the page.
	require.NoError(t, page.ToggleBookmark(ctx, 680))
	assert.Equal(t, []int{550}, showIDs(page.State().Shows))

	// A bookmark added elsewhere shows up.
	_, err = app.Bookmarks.Add(ctx, 1399)
	require.NoError(t, err)
	assert.Equal(t, []int{1399, 550}, showIDs(page.State().Shows))
}

func TestBookmarksPage_WaitsForInFlightLoad(t *testing.T) {
	api := newFakeAPI(t)
	app, _ := newApp(t, api, "/bookmark")
	login(t, app)
	_, err := app.API.AddBookmark(context.Background(), 550)
	require.NoError(t, err)
	const key = "GET /api/shows/bookmarks"
	before := api.callCount(key)

	release := api.hold(key)
	storeLoad := make(chan error, 1)
	go func() { storeLoad <- app.Bookmarks.Load(context.Background()) }()
	require.Eventually(t, func() bool { return api.callCount(key) == before+1 }, time.Second, 5*time.Millisecond)

	page := app.BookmarksPage()
	mounted := make(chan error, 1)
	go func() { mounted <- page.Mount(context.Background()) }()
	t.Cleanup(page.Unmount)
	require.Eventually(t, func() bool { return page.State().Loading }, time.Second, 5*time.Millisecond)
	// give the page's load time to join the running request
	time.Sleep(50 * time.Millisecond)

	release()
	require.NoError(t, <-storeLoad)
	require.NoError(t, <-mounted)

	assert.Equal(t, []int{550}, showIDs(page.State().Shows))
	assert.Equal(t, before+1, api.callCount(key))
}

func TestBookmarksPage_LogoutEmptiesList(t *testing.T) {
	api := newFakeAPI(t)
	app, _ := newApp(t, api, "/bookmark")
	login(t, app)
	_, err := app.Bookmarks.Add(context.Background(), 550)
	require.NoError(t, err)

	page := app.BookmarksPage()
	mount(t, page)
	require.Len(t, page.State().Shows, 1)

	require.NoError(t, app.Auth.Logout(context.Background()))

	assert.Empty(t, page.State().Shows)
}
