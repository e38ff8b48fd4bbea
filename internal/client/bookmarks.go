package client

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/sakif/plotpocket/internal/model"
)

// BookmarkStore mirrors the user's bookmarks. It follows the AuthStore:
// bookmarks load when a user logs in and are dropped when they log out.
type BookmarkStore struct {
	api    *API
	logger *slog.Logger

	mu        sync.Mutex
	bookmarks []model.ShowDto
	ids       map[int]struct{}
	gen       uint64 // bumped by clear; stale loads are dropped
	loads     singleflight.Group

	subs        observers[[]model.ShowDto]
	stopWatched func()
}

// NewBookmarkStore creates a store bound to auth. Close detaches it.
func NewBookmarkStore(api *API, auth *AuthStore, logger *slog.Logger) *BookmarkStore {
	s := &BookmarkStore{
		api:    api,
		logger: logger,
		ids:    make(map[int]struct{}),
	}
	s.stopWatched = auth.Subscribe(func(user *model.User) {
		if user == nil {
			s.clear()
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
		defer cancel()
		if err := s.Load(ctx); err != nil {
			s.logger.Warn("loading bookmarks failed", slog.String("error", err.Error()))
		}
	})
	return s
}

// Close stops following the AuthStore.
func (s *BookmarkStore) Close() {
	s.stopWatched()
}

// Load fetches the bookmark list. Concurrent calls share one request and
// all return once it lands, so a caller never reads a half-loaded store.
// A result that arrives after the user logged out is dropped.
func (s *BookmarkStore) Load(ctx context.Context) error {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	ch := s.loads.DoChan("bookmarks:"+strconv.FormatUint(gen, 10), func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultTimeout)
		defer cancel()
		return s.api.Bookmarks(fetchCtx)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res = <-ch:
	}

	if res.Err != nil {
		s.mu.Lock()
		current := s.gen == gen
		s.mu.Unlock()
		if current {
			s.clear()
		}
		return res.Err
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return nil
	}
	shows := res.Val.([]model.ShowDto)
	s.bookmarks = slices.Clone(shows)
	s.ids = make(map[int]struct{}, len(shows))
	for _, show := range shows {
		s.ids[show.ID] = struct{}{}
	}
	snapshot := slices.Clone(s.bookmarks)
	s.mu.Unlock()

	s.subs.notify(snapshot)
	return nil
}

// Bookmarks returns a copy of the list, newest first.
func (s *BookmarkStore) Bookmarks() []model.ShowDto {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.bookmarks)
}

func (s *BookmarkStore) IsBookmarked(showID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[showID]
	return ok
}

// Subscribe calls fn with the current list and after every change.
func (s *BookmarkStore) Subscribe(fn func([]model.ShowDto)) (unsubscribe func()) {
	unsubscribe = s.subs.add(fn)
	fn(s.Bookmarks())
	return unsubscribe
}

// Add bookmarks a show and puts it at the front of the list.
func (s *BookmarkStore) Add(ctx context.Context, showID int) (*model.ShowDto, error) {
	show, err := s.api.AddBookmark(ctx, showID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if _, ok := s.ids[show.ID]; !ok {
		s.bookmarks = slices.Insert(s.bookmarks, 0, *show)
		s.ids[show.ID] = struct{}{}
	}
	snapshot := slices.Clone(s.bookmarks)
	s.mu.Unlock()

	s.subs.notify(snapshot)
	return show, nil
}

func (s *BookmarkStore) Remove(ctx context.Context, showID int) (*model.ShowDto, error) {
	show, err := s.api.RemoveBookmark(ctx, showID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.bookmarks = slices.DeleteFunc(s.bookmarks, func(b model.ShowDto) bool { return b.ID == showID })
	delete(s.ids, showID)
	snapshot := slices.Clone(s.bookmarks)
	s.mu.Unlock()

	s.subs.notify(snapshot)
	return show, nil
}

// Toggle removes the bookmark if the show is bookmarked, else adds it.
func (s *BookmarkStore) Toggle(ctx context.Context, showID int) (*model.ShowDto, error) {
	if s.IsBookmarked(showID) {
		return s.Remove(ctx, showID)
	}
	return s.Add(ctx, showID)
}

// Annotate returns a copy of shows with IsBookmarked taken from the store.
func (s *BookmarkStore) Annotate(shows []model.ShowDto) []model.ShowDto {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := slices.Clone(shows)
	for i := range out {
		_, out[i].IsBookmarked = s.ids[out[i].ID]
	}
	return out
}

func (s *BookmarkStore) clear() {
	s.mu.Lock()
	wasEmpty := len(s.bookmarks) == 0 && len(s.ids) == 0
	s.gen++
	s.bookmarks = nil
	s.ids = make(map[int]struct{})
	s.mu.Unlock()

	if !wasEmpty {
		s.subs.notify([]model.ShowDto{})
	}
}
