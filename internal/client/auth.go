package client

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sakif/plotpocket/internal/model"
)

// AuthStore holds the logged-in user, or nil.
type AuthStore struct {
	api    *API
	logger *slog.Logger

	mu   sync.RWMutex
	user *model.User

	subs observers[*model.User]
}

// User returns a copy of the current user, or nil when logged out.
func (s *AuthStore) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *AuthStore) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Subscribe calls fn with the current user straight away and again after
// every change. Call the returned func to stop.
func (s *AuthStore) Subscribe(fn func(*model.User)) (unsubscribe func()) {
	unsubscribe = s.subs.add(fn)
	fn(s.User())
	return unsubscribe
}

// Init asks the server who is logged in. A 401 means nobody is and is not
// an error.
func (s *AuthStore) Init(ctx context.Context) error {
	user, err := s.api.Status(ctx)
	if err != nil {
		if IsAuthFailure(err) {
			return nil
		}
		return err
	}
	s.set(user)
	return nil
}

func (s *AuthStore) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s.set(user)
	s.logger.Info("logged in", slog.String("userId", user.ID))
	return user, nil
}

// Register creates the account; the server signs it in straight away.
func (s *AuthStore) Register(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.api.Register(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s.set(user)
	s.logger.Info("registered", slog.String("userId", user.ID))
	return user, nil
}

func (s *AuthStore) Logout(ctx context.Context) error {
	if err := s.api.Logout(ctx); err != nil {
		return err
	}
	s.Clear()
	return nil
}

// Clear forgets the user locally without calling the server.
func (s *AuthStore) Clear() {
	s.mu.Lock()
	wasSet := s.user != nil
	s.user = nil
	s.mu.Unlock()

	if wasSet {
		s.subs.notify(nil)
	}
}

func (s *AuthStore) set(user *model.User) {
	s.mu.Lock()
	u := *user
	s.user = &u
	s.mu.Unlock()

	s.subs.notify(s.User())
}
