package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/sakif/plotpocket/internal/auth"
	"github.com/sakif/plotpocket/internal/handler"
	"github.com/sakif/plotpocket/internal/model"
	"github.com/sakif/plotpocket/internal/service"
	"github.com/sakif/plotpocket/internal/tmdb"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// serve routes a single request through a chi router so URL parameters
// resolve exactly as they do in the server. A non-empty userID is placed
// in the context the way the auth middleware would.
func serve(t *testing.T, method, pattern, target, userID string, body io.Reader, h http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Method(method, pattern, h)

	req := httptest.NewRequest(method, target, body)
	if userID != "" {
		req = req.WithContext(auth.ContextWithUserID(req.Context(), userID))
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&v))
	return v
}

// ──────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────

// fakeShows records the last call and returns canned values.
type fakeShows struct {
	result []model.ShowDto
	err    error

	userID   string
	window   tmdb.TrendingWindow
	movieCat service.MovieCategory
	tvCat    service.TVCategory
	query    string
	filter   service.SearchFilter
}

func (f *fakeShows) Trending(_ context.Context, userID string, window tmdb.TrendingWindow) ([]model.ShowDto, error) {
	f.userID, f.window = userID, window
	return f.result, f.err
}

func (f *fakeShows) Movies(_ context.Context, userID string, category service.MovieCategory) ([]model.ShowDto, error) {
	f.userID, f.movieCat = userID, category
	return f.result, f.err
}

func (f *fakeShows) TvShows(_ context.Context, userID string, category service.TVCategory) ([]model.ShowDto, error) {
	f.userID, f.tvCat = userID, category
	return f.result, f.err
}

func (f *fakeShows) Search(_ context.Context, userID, query string, filter service.SearchFilter) ([]model.ShowDto, error) {
	f.userID, f.query, f.filter = userID, query, filter
	return f.result, f.err
}

type fakeWatchlist struct {
	dto  *model.ShowDto
	list []model.ShowDto
	err  error

	userID     string
	externalID int
	showType   model.ShowType
}

func (f *fakeWatchlist) Add(_ context.Context, userID string, externalID int, showType model.ShowType) (*model.ShowDto, error) {
	f.userID, f.externalID, f.showType = userID, externalID, showType
	return f.dto, f.err
}

func (f *fakeWatchlist) Remove(_ context.Context, userID string, externalID int) (*model.ShowDto, error) {
	f.userID, f.externalID = userID, externalID
	return f.dto, f.err
}

func (f *fakeWatchlist) List(_ context.Context, userID string) ([]model.ShowDto, error) {
	f.userID = userID
	return f.list, f.err
}

type fakeBookmarks struct {
	dto  *model.ShowDto
	list []model.ShowDto
	err  error

	userID string
	showID int
}

func (f *fakeBookmarks) Add(_ context.Context, userID string, showID int) (*model.ShowDto, error) {
	f.userID, f.showID = userID, showID
	return f.dto, f.err
}

func (f *fakeBookmarks) Remove(_ context.Context, userID string, showID int) (*model.ShowDto, error) {
	f.userID, f.showID = userID, showID
	return f.dto, f.err
}

func (f *fakeBookmarks) List(_ context.Context, userID string) ([]model.ShowDto, error) {
	f.userID = userID
	return f.list, f.err
}

var _ handler.ShowLister = (*fakeShows)(nil)
var _ handler.Watchlister = (*fakeWatchlist)(nil)
var _ handler.Bookmarker = (*fakeBookmarks)(nil)
