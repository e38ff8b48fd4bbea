package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/sakif/plotpocket/internal/model"
)

var (
	// ErrNotLoggedIn is returned by actions that need a session. The
	// page has already navigated to the login route.
	ErrNotLoggedIn = errors.New("client: not logged in")
	ErrNotMounted  = errors.New("client: page is not mounted")
)

// PageConfig describes one list page.
type PageConfig struct {
	// Route is the page's own route, used as the login returnUrl.
	Route         string
	DefaultFilter string
	Filters       []string
	RequireAuth   bool

	Load func(ctx context.Context, filter string) ([]model.ShowDto, error)
	// Search queries the server. Pages without it filter their loaded
	// list by title and overview instead.
	Search func(ctx context.Context, query string) ([]model.ShowDto, error)
	// MirrorBookmarks keeps the list equal to the BookmarkStore's.
	MirrorBookmarks bool
}

// PageState is what a page renders.
type PageState struct {
	Shows   []model.ShowDto
	Filter  string
	Query   string
	Loading bool
	Err     error
}

// ListPage is the state behind the movies, TV shows, trending and
// bookmarks pages.
//
// Requests run on the caller's goroutine (search runs on the debouncer's).
// If a newer request starts, or the page is unmounted, before an older one
// returns, the older result is dropped: the last request wins.
type ListPage struct {
	cfg       PageConfig
	api       *API
	auth      *AuthStore
	bookmarks *BookmarkStore
	nav       Navigator
	logger    *slog.Logger

	mu       sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
	gen      uint64
	all      []model.ShowDto // last loaded list before local filtering
	state    PageState
	debounce *Debouncer
	stopSync func()

	subs observers[PageState]
}

// Mount loads the default filter. Pages that require a session send an
// anonymous visitor to the login route instead.
func (p *ListPage) Mount(ctx context.Context) error {
	if p.cfg.RequireAuth && !p.auth.LoggedIn() {
		p.redirectToLogin()
		return ErrNotLoggedIn
	}

	p.mu.Lock()
	if p.cancel != nil {
		p.mu.Unlock()
		return fmt.Errorf("client: %s is already mounted", p.cfg.Route)
	}
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.state = PageState{Filter: p.cfg.DefaultFilter}
	p.debounce = NewDebouncer(SearchDebounce, p.runSearch)
	p.mu.Unlock()

	stop := p.bookmarks.Subscribe(p.onBookmarks)
	p.mu.Lock()
	p.stopSync = stop
	p.mu.Unlock()

	return p.load(p.cfg.DefaultFilter)
}

// Unmount cancels in-flight requests and the pending search. Results that
// arrive afterwards are discarded.
func (p *ListPage) Unmount() {
	p.mu.Lock()
	cancel, debounce, stop := p.cancel, p.debounce, p.stopSync
	p.ctx, p.cancel, p.debounce, p.stopSync = nil, nil, nil, nil
	p.gen++
	p.state.Loading = false
	p.mu.Unlock()

	if debounce != nil {
		debounce.Stop()
	}
	if stop != nil {
		stop()
	}
	if cancel != nil {
		cancel()
	}
}

// State returns a snapshot of what the page shows.
func (p *ListPage) State() PageState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// Subscribe calls fn with the current state and after every change.
func (p *ListPage) Subscribe(fn func(PageState)) (unsubscribe func()) {
	unsubscribe = p.subs.add(fn)
	fn(p.State())
	return unsubscribe
}

// SetFilter switches category and re-fetches. The search box is cleared.
func (p *ListPage) SetFilter(filter string) error {
	if !slices.Contains(p.cfg.Filters, filter) {
		return fmt.Errorf("client: %s has no filter %q", p.cfg.Route, filter)
	}
	p.mu.Lock()
	p.state.Query = ""
	p.mu.Unlock()
	return p.load(filter)
}

// Search is the search box's input handler; the query is applied once
// typing pauses.
func (p *ListPage) Search(query string) {
	p.mu.Lock()
	debounce := p.debounce
	if debounce != nil {
		p.state.Query = query
	}
	p.mu.Unlock()

	if debounce != nil {
		debounce.Push(query)
	}
}

func (p *ListPage) runSearch(query string) {
	query = strings.TrimSpace(query)

	p.mu.Lock()
	filter := p.state.Filter
	p.mu.Unlock()

	var err error
	switch {
	case query == "":
		err = p.load(filter)
	case p.cfg.Search == nil:
		p.mu.Lock()
		p.state.Shows = p.present(p.all)
		snapshot := p.snapshotLocked()
		p.mu.Unlock()
		p.subs.notify(snapshot)
	default:
		err = p.fetch(filter, func(ctx context.Context) ([]model.ShowDto, error) {
			return p.cfg.Search(ctx, query)
		})
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		p.logger.Warn("search failed", slog.String("route", p.cfg.Route), slog.String("error", err.Error()))
	}
}

// ToggleWatchlist adds or removes the show and patches it in place once
// the server confirms.
func (p *ListPage) ToggleWatchlist(ctx context.Context, showID int) error {
	if !p.auth.LoggedIn() {
		p.redirectToLogin()
		return ErrNotLoggedIn
	}
	show, ok := p.find(showID)
	if !ok {
		return fmt.Errorf("client: show %d is not on %s", showID, p.cfg.Route)
	}

	var updated *model.ShowDto
	var err error
	if show.IsWatchlisted {
		updated, err = p.api.RemoveFromWatchlist(ctx, show)
	} else {
		updated, err = p.api.AddToWatchlist(ctx, show)
	}
	if err != nil {
		return err
	}

	p.patch(showID, func(s *model.ShowDto) {
		s.IsWatchlisted = updated.IsWatchlisted
		s.IsWatched = updated.IsWatched
	})
	return nil
}

// ToggleBookmark adds or removes the bookmark through the BookmarkStore
// and patches the show once the server confirms.
func (p *ListPage) ToggleBookmark(ctx context.Context, showID int) error {
	if !p.auth.LoggedIn() {
		p.redirectToLogin()
		return ErrNotLoggedIn
	}
	if _, ok := p.find(showID); !ok {
		return fmt.Errorf("client: show %d is not on %s", showID, p.cfg.Route)
	}

	updated, err := p.bookmarks.Toggle(ctx, showID)
	if err != nil {
		return err
	}

	p.patch(showID, func(s *model.ShowDto) {
		s.IsBookmarked = updated.IsBookmarked
	})
	return nil
}

func (p *ListPage) load(filter string) error {
	return p.fetch(filter, func(ctx context.Context) ([]model.ShowDto, error) {
		return p.cfg.Load(ctx, filter)
	})
}

// fetch runs one request and applies its result unless a newer request
// or an unmount has superseded it.
func (p *ListPage) fetch(filter string, request func(context.Context) ([]model.ShowDto, error)) error {
	p.mu.Lock()
	if p.ctx == nil {
		p.mu.Unlock()
		return ErrNotMounted
	}
	p.gen++
	gen, ctx := p.gen, p.ctx
	p.state.Filter = filter
	p.state.Loading = true
	p.state.Err = nil
	snapshot := p.snapshotLocked()
	p.mu.Unlock()
	p.subs.notify(snapshot)

	shows, err := request(ctx)

	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return nil
	}
	p.state.Loading = false
	if err != nil {
		p.state.Err = err
	} else {
		p.all = shows
		p.state.Shows = p.present(shows)
	}
	snapshot = p.snapshotLocked()
	p.mu.Unlock()

	p.subs.notify(snapshot)
	return err
}

// onBookmarks keeps the page consistent with the BookmarkStore.
func (p *ListPage) onBookmarks(bookmarks []model.ShowDto) {
	p.mu.Lock()
	if p.ctx == nil {
		p.mu.Unlock()
		return
	}
	if p.cfg.MirrorBookmarks {
		p.all = bookmarks
	}
	p.state.Shows = p.present(p.all)
	snapshot := p.snapshotLocked()
	p.mu.Unlock()

	p.subs.notify(snapshot)
}

// present applies the local search filter and the bookmark flags. Callers
// hold p.mu.
func (p *ListPage) present(shows []model.ShowDto) []model.ShowDto {
	if p.cfg.Search == nil {
		if q := strings.ToLower(strings.TrimSpace(p.state.Query)); q != "" {
			shows = slices.DeleteFunc(slices.Clone(shows), func(s model.ShowDto) bool {
				return !strings.Contains(strings.ToLower(s.Title), q) &&
					!strings.Contains(strings.ToLower(s.Overview), q)
			})
		}
	}
	if !p.auth.LoggedIn() {
		return slices.Clone(shows)
	}
	return p.bookmarks.Annotate(shows)
}

func (p *ListPage) find(showID int) (model.ShowDto, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := slices.IndexFunc(p.state.Shows, func(s model.ShowDto) bool { return s.ID == showID })
	if i < 0 {
		return model.ShowDto{}, false
	}
	return p.state.Shows[i], true
}

func (p *ListPage) patch(showID int, update func(*model.ShowDto)) {
	p.mu.Lock()
	for i := range p.all {
		if p.all[i].ID == showID {
			update(&p.all[i])
		}
	}
	for i := range p.state.Shows {
		if p.state.Shows[i].ID == showID {
			update(&p.state.Shows[i])
		}
	}
	snapshot := p.snapshotLocked()
	p.mu.Unlock()

	p.subs.notify(snapshot)
}

func (p *ListPage) snapshotLocked() PageState {
	s := p.state
	s.Shows = slices.Clone(p.state.Shows)
	if s.Shows == nil {
		s.Shows = []model.ShowDto{}
	}
	return s
}

// redirectToLogin sends the visitor to the login page with the full
// current URL, query included, as the place to come back to.
func (p *ListPage) redirectToLogin() {
	current := p.nav.Current()
	if current == "" || isLoginRoute(current) {
		current = p.cfg.Route
	}
	p.nav.Navigate(LoginRoute(current))
}
