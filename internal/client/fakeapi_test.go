package client_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sakif/plotpocket/internal/client"
	"github.com/sakif/plotpocket/internal/model"
)

// fakeAPI is a small stateful stand-in for the server: one account, a
// fixed catalog, and per-session bookmarks and watchlist.
type fakeAPI struct {
	*httptest.Server
	t *testing.T

	mu        sync.Mutex
	loggedIn  bool
	bookmarks []int
	watchlist map[int]bool
	calls     map[string]int
	gates     map[string]chan struct{}
	failNext  map[string]int
}

var catalog = map[string][]model.ShowDto{
	"/api/movies/popular": {
		{ID: 550, Title: "Fight Club", Overview: "An insomniac office worker", Type: model.ShowTypeMovie, Rating: 8.4},
		{ID: 680, Title: "Pulp Fiction", Overview: "Crime stories intertwine", Type: model.ShowTypeMovie, Rating: 8.5},
	},
	"/api/movies/now-playing": {
		{ID: 1, Title: "Now Showing", Type: model.ShowTypeMovie},
	},
	"/api/movies/top-rated": {
		{ID: 238, Title: "The Godfather", Type: model.ShowTypeMovie, Rating: 8.7},
	},
	"/api/TvShows/popular": {
		{ID: 1399, Title: "Game of Thrones", Type: model.ShowTypeTvShow},
	},
	"/api/shows/trending/all": {
		{ID: 550, Title: "Fight Club", Type: model.ShowTypeMovie},
		{ID: 1399, Title: "Game of Thrones", Type: model.ShowTypeTvShow},
	},
}

func allShows() map[int]model.ShowDto {
	out := map[int]model.ShowDto{}
	for _, list := range catalog {
		for _, s := range list {
			out[s.ID] = s
		}
	}
	return out
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{
		t:         t,
		watchlist: map[int]bool{},
		calls:     map[string]int{},
		gates:     map[string]chan struct{}{},
		failNext:  map[string]int{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", f.login)
	mux.HandleFunc("POST /api/auth/register", f.login)
	mux.HandleFunc("POST /api/auth/logout", f.logout)
	mux.HandleFunc("GET /api/auth/status", f.authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, viewer())
	}))

	mux.HandleFunc("GET /api/movies", f.catalogList("/api/movies/popular"))
	mux.HandleFunc("GET /api/movies/{category}", f.catalogList(""))
	mux.HandleFunc("GET /api/TvShows/{category}", f.catalogList(""))
	mux.HandleFunc("GET /api/shows/trending/{window}", f.catalogList(""))
	mux.HandleFunc("GET /api/shows/search", f.search(false))
	mux.HandleFunc("GET /api/TvShows/search", f.search(true))

	mux.HandleFunc("GET /api/shows/bookmarks", f.authed(f.listBookmarks))
	mux.HandleFunc("GET /api/watchlist", f.authed(f.listWatchlist))
	mux.HandleFunc("POST /api/shows/{id}/bookmark", f.authed(f.toggleBookmark(true)))
	mux.HandleFunc("DELETE /api/shows/{id}/bookmark", f.authed(f.toggleBookmark(false)))
	for _, prefix := range []string{"/api/movies", "/api/TvShows"} {
		mux.HandleFunc("POST "+prefix+"/{id}/watchlist", f.authed(f.toggleWatchlist(true)))
		mux.HandleFunc("DELETE "+prefix+"/{id}/watchlist", f.authed(f.toggleWatchlist(false)))
	}

	f.Server = httptest.NewServer(f.instrument(mux))
	t.Cleanup(f.Close)
	return f
}

func viewer() model.User {
	return model.User{ID: "user-1", Email: "viewer@example.com", UserName: "viewer@example.com"}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// instrument counts calls, checks the JSON headers, applies gates and
// injected failures.
func (f *fakeAPI) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path

		f.mu.Lock()
		f.calls[key]++
		gate := f.gates[key]
		fail := f.failNext[key]
		if fail != 0 {
			delete(f.failNext, key)
		}
		f.mu.Unlock()

		if r.Header.Get("Accept") != "application/json" {
			writeJSON(w, http.StatusNotAcceptable, map[string]string{"error": "missing accept header"})
			return
		}
		if gate != nil {
			<-gate
		}
		if fail != 0 {
			writeJSON(w, fail, map[string]string{"error": "injected", "message": "injected failure"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// hold blocks the next requests to key until the returned func is called.
func (f *fakeAPI) hold(key string) (release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[key] = ch
	return func() {
		f.mu.Lock()
		delete(f.gates, key)
		f.mu.Unlock()
		close(ch)
	}
}

func (f *fakeAPI) failWith(key string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failNext[key] = status
}

func (f *fakeAPI) callCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

// expireSession makes the server forget the session, as a restart with a
// new secret would.
func (f *fakeAPI) expireSession() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedIn = false
}

func (f *fakeAPI) authed(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		ok := f.loggedIn
		f.mu.Unlock()

		if _, err := r.Cookie("token"); err != nil || !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized", "message": "valid authentication required"})
			return
		}
		h(w, r)
	}
}

func (f *fakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var body struct{ Email, Password string }
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "validation_error", "message": "request body is empty"})
		return
	}
	if body.Email != "viewer@example.com" || body.Password != "Abcd1!" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "validation_error", "message": "Invalid email or password"})
		return
	}

	f.mu.Lock()
	f.loggedIn = true
	f.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: "token", Value: "session", Path: "/", HttpOnly: true})
	writeJSON(w, http.StatusOK, viewer())
}

func (f *fakeAPI) logout(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.loggedIn = false
	f.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: "token", Value: "", Path: "/", MaxAge: -1})
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (f *fakeAPI) annotate(shows []model.ShowDto) []model.ShowDto {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := slices.Clone(shows)
	for i := range out {
		if f.loggedIn {
			out[i].IsBookmarked = slices.Contains(f.bookmarks, out[i].ID)
			out[i].IsWatchlisted = f.watchlist[out[i].ID]
		}
	}
	if out == nil {
		out = []model.ShowDto{}
	}
	return out
}

func (f *fakeAPI) catalogList(fixed string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := fixed
		if key == "" {
			key = r.URL.Path
		}
		list, ok := catalog[key]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "message": "unknown list"})
			return
		}
		writeJSON(w, http.StatusOK, f.annotate(list))
	}
}

func (f *fakeAPI) search(tvOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.ToLower(r.URL.Query().Get("query"))
		var out []model.ShowDto
		for _, s := range allShows() {
			if tvOnly && s.Type != model.ShowTypeTvShow {
				continue
			}
			if strings.Contains(strings.ToLower(s.Title), q) {
				out = append(out, s)
			}
		}
		slices.SortFunc(out, func(a, b model.ShowDto) int { return a.ID - b.ID })
		writeJSON(w, http.StatusOK, f.annotate(out))
	}
}

func (f *fakeAPI) listBookmarks(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	ids := slices.Clone(f.bookmarks)
	f.mu.Unlock()

	shows := allShows()
	var out []model.ShowDto
	for _, id := range slices.Backward(ids) {
		out = append(out, shows[id])
	}
	writeJSON(w, http.StatusOK, f.annotate(out))
}

func (f *fakeAPI) listWatchlist(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	var ids []int
	for id := range f.watchlist {
		ids = append(ids, id)
	}
	f.mu.Unlock()
	slices.Sort(ids)

	shows := allShows()
	var out []model.ShowDto
	for _, id := range ids {
		out = append(out, shows[id])
	}
	writeJSON(w, http.StatusOK, f.annotate(out))
}

func (f *fakeAPI) toggleBookmark(add bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.PathValue("id"))
		f.mu.Lock()
		if add && !slices.Contains(f.bookmarks, id) {
			f.bookmarks = append(f.bookmarks, id)
		}
		if !add {
			f.bookmarks = slices.DeleteFunc(f.bookmarks, func(b int) bool { return b == id })
		}
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, f.annotate([]model.ShowDto{allShows()[id]})[0])
	}
}

func (f *fakeAPI) toggleWatchlist(add bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.PathValue("id"))
		f.mu.Lock()
		if add {
			f.watchlist[id] = true
		} else {
			delete(f.watchlist, id)
		}
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, f.annotate([]model.ShowDto{allShows()[id]})[0])
	}
}

// newApp returns an App on the fake API, with the navigator on route.
func newApp(t *testing.T, api *fakeAPI, route string) (*client.App, *client.MemoryNavigator) {
	t.Helper()
	nav := client.NewMemoryNavigator(route)
	app, err := client.New(api.URL, nav, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return app, nav
}
