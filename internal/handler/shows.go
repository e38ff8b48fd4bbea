package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/plotpocket/internal/apperror"
	"github.com/sakif/plotpocket/internal/auth"
	"github.com/sakif/plotpocket/internal/model"
	"github.com/sakif/plotpocket/internal/service"
	"github.com/sakif/plotpocket/internal/tmdb"
)

// ShowLister is the part of service.ShowService the list endpoints use.
type ShowLister interface {
	Trending(ctx context.Context, userID string, window tmdb.TrendingWindow) ([]model.ShowDto, error)
	Movies(ctx context.Context, userID string, category service.MovieCategory) ([]model.ShowDto, error)
	TvShows(ctx context.Context, userID string, category service.TVCategory) ([]model.ShowDto, error)
	Search(ctx context.Context, userID, query string, filter service.SearchFilter) ([]model.ShowDto, error)
}

// ShowHandler serves the browse, search and trending lists. Every route is
// behind OptionalAuth: anonymous callers get unflagged results.
type ShowHandler struct {
	shows  ShowLister
	logger *slog.Logger
}

func NewShowHandler(shows ShowLister, logger *slog.Logger) *ShowHandler {
	return &ShowHandler{shows: shows, logger: logger}
}

// trendingWindows maps the public path segment to the TMDB window.
var trendingWindows = map[string]tmdb.TrendingWindow{
	"all":      tmdb.TrendingAll,
	"movies":   tmdb.TrendingMovie,
	"tv-shows": tmdb.TrendingTV,
}

// HandleTrending serves GET /api/shows/trending/{window} where window is
// all, movies or tv-shows.
func (h *ShowHandler) HandleTrending(w http.ResponseWriter, r *http.Request) {
	segment := chi.URLParam(r, "window")
	window, ok := trendingWindows[segment]
	if !ok {
		writeError(w, apperror.NotFound("trending list", segment))
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())
	shows, err := h.shows.Trending(r.Context(), userID, window)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shows)
}

// HandleMovies serves GET /api/movies and /api/movies/{category}. The bare
// path is the popular list.
func (h *ShowHandler) HandleMovies(w http.ResponseWriter, r *http.Request) {
	category := service.MoviesPopular
	if c := chi.URLParam(r, "category"); c != "" {
		category = service.MovieCategory(c)
	}
	switch category {
	case service.MoviesNowPlaying, service.MoviesTopRated, service.MoviesPopular:
	default:
		writeError(w, apperror.NotFound("movie list", string(category)))
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())
	shows, err := h.shows.Movies(r.Context(), userID, category)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shows)
}

// HandleTvShows serves GET /api/TvShows/{category}.
func (h *ShowHandler) HandleTvShows(w http.ResponseWriter, r *http.Request) {
	category := service.TVCategory(chi.URLParam(r, "category"))
	switch category {
	case service.TVPopular, service.TVTopRated, service.TVOnAir, service.TVAiringToday:
	default:
		writeError(w, apperror.NotFound("tv list", string(category)))
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())
	shows, err := h.shows.TvShows(r.Context(), userID, category)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shows)
}

// HandleSearch serves GET /api/shows/search?query=, merging movie and TV
// results by rating.
func (h *ShowHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, service.SearchAll)
}

// HandleSearchTV serves GET /api/TvShows/search?query=.
func (h *ShowHandler) HandleSearchTV(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, service.SearchTVOnly)
}

func (h *ShowHandler) search(w http.ResponseWriter, r *http.Request, filter service.SearchFilter) {
	userID, _ := auth.UserIDFromContext(r.Context())
	shows, err := h.shows.Search(r.Context(), userID, r.URL.Query().Get("query"), filter)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shows)
}
