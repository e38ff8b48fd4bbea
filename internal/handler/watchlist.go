package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/plotpocket/internal/apperror"
	"github.com/sakif/plotpocket/internal/auth"
	"github.com/sakif/plotpocket/internal/model"
)

// Watchlister is the part of service.WatchlistService the handlers use.
type Watchlister interface {
	Add(ctx context.Context, userID string, externalID int, showType model.ShowType) (*model.ShowDto, error)
	Remove(ctx context.Context, userID string, externalID int) (*model.ShowDto, error)
	List(ctx context.Context, userID string) ([]model.ShowDto, error)
}

// Bookmarker is the part of service.BookmarkService the handlers use.
type Bookmarker interface {
	Add(ctx context.Context, userID string, showID int) (*model.ShowDto, error)
	Remove(ctx context.Context, userID string, showID int) (*model.ShowDto, error)
	List(ctx context.Context, userID string) ([]model.ShowDto, error)
}

// CollectionHandler serves the per-user collections: the watchlist and
// bookmarks. Every route is behind RequireAuth.
type CollectionHandler struct {
	watchlist Watchlister
	bookmarks Bookmarker
	logger    *slog.Logger
}

func NewCollectionHandler(watchlist Watchlister, bookmarks Bookmarker, logger *slog.Logger) *CollectionHandler {
	return &CollectionHandler{watchlist: watchlist, bookmarks: bookmarks, logger: logger}
}

// userID reads the ID RequireAuth put in the context. The check only fails
// if a route was mounted without the middleware.
func userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
	}
	return id, ok
}

// HandleAddMovie serves POST /api/movies/{id}/watchlist.
func (h *CollectionHandler) HandleAddMovie(w http.ResponseWriter, r *http.Request) {
	h.addToWatchlist(w, r, model.ShowTypeMovie)
}

// HandleAddTvShow serves POST /api/TvShows/{id}/watchlist.
func (h *CollectionHandler) HandleAddTvShow(w http.ResponseWriter, r *http.Request) {
	h.addToWatchlist(w, r, model.ShowTypeTvShow)
}

func (h *CollectionHandler) addToWatchlist(w http.ResponseWriter, r *http.Request, showType model.ShowType) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, err := intParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	dto, err := h.watchlist.Add(r.Context(), uid, id, showType)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// HandleRemoveFromWatchlist serves DELETE /api/{movies|TvShows}/{id}/watchlist.
// The show is looked up by external id, so the type segment does not matter.
func (h *CollectionHandler) HandleRemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, err := intParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	dto, err := h.watchlist.Remove(r.Context(), uid, id)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// HandleWatchlist serves GET /api/watchlist.
func (h *CollectionHandler) HandleWatchlist(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	shows, err := h.watchlist.List(r.Context(), uid)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shows)
}

// HandleAddBookmark serves POST /api/shows/{showId}/bookmark.
func (h *CollectionHandler) HandleAddBookmark(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, err := intParam(r, "showId")
	if err != nil {
		writeError(w, err)
		return
	}

	dto, err := h.bookmarks.Add(r.Context(), uid, id)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// HandleRemoveBookmark serves DELETE /api/shows/{showId}/bookmark.
func (h *CollectionHandler) HandleRemoveBookmark(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, err := intParam(r, "showId")
	if err != nil {
		writeError(w, err)
		return
	}

	dto, err := h.bookmarks.Remove(r.Context(), uid, id)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// HandleBookmarks serves GET /api/shows/bookmarks.
func (h *CollectionHandler) HandleBookmarks(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	shows, err := h.bookmarks.List(r.Context(), uid)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shows)
}
