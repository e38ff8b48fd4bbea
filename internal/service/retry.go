package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/sakif/plotpocket/internal/apperror"
	"github.com/sakif/plotpocket/internal/tmdb"
)

const (
	// DefaultRetryAttempts counts the first call, so two retries.
	DefaultRetryAttempts = 3
	// DefaultRetryDelay is the first backoff; the second is twice as long.
	DefaultRetryDelay = time.Second

	defaultBookmarkConcurrency = 8
)

type settings struct {
	retryAttempts       uint
	retryDelay          time.Duration
	bookmarkConcurrency int
}

func defaultSettings() settings {
	return settings{
		retryAttempts:       DefaultRetryAttempts,
		retryDelay:          DefaultRetryDelay,
		bookmarkConcurrency: defaultBookmarkConcurrency,
	}
}

// Option tunes the services that talk to the media provider.
type Option func(*settings)

// WithRetryDelay sets the base backoff between upstream attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(s *settings) { s.retryDelay = d }
}

// WithRetryAttempts sets how many times an upstream call is tried in total.
func WithRetryAttempts(n uint) Option {
	return func(s *settings) {
		if n > 0 {
			s.retryAttempts = n
		}
	}
}

// WithBookmarkConcurrency bounds the parallel detail lookups made when
// listing bookmarks.
func WithBookmarkConcurrency(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.bookmarkConcurrency = n
		}
	}
}

func newSettings(opts []Option) settings {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// upstream calls the media provider, retrying transport failures with
// exponential backoff. Status errors are final on the first attempt.
type upstream struct {
	provider tmdb.Provider
	settings settings
	logger   *slog.Logger
}

func call[T any](ctx context.Context, u upstream, op string, fn func(context.Context) (T, error)) (T, error) {
	return retry.DoWithData(
		func() (T, error) { return fn(ctx) },
		retry.Context(ctx),
		retry.Attempts(u.settings.retryAttempts),
		retry.Delay(u.settings.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(tmdb.IsTransient),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			u.logger.Warn("upstream call failed, retrying",
				slog.String("op", op),
				slog.Uint64("attempt", uint64(n+1)),
				slog.String("error", err.Error()),
			)
		}),
	)
}

// translate turns a provider failure into the error kind the handlers
// understand. id is the external id involved, or 0 for list calls.
//
// Only the caller's own cancellation is passed through as a context error.
// A timeout inside the HTTP client also matches context.DeadlineExceeded,
// but that is TMDB being slow and is reported as Upstream.
func translate(ctx context.Context, err error, id int) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w (last upstream error: %v)", ctxErr, err)
	}
	if tmdb.IsTransient(err) {
		return apperror.Upstream("the media provider is unavailable, try again later", err)
	}
	if errors.Is(err, tmdb.ErrNotFound) {
		return apperror.NotFound("show", strconv.Itoa(id))
	}
	var se *tmdb.StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusNotFound && id != 0 {
		return apperror.NotFound("show", strconv.Itoa(id))
	}
	return apperror.Upstream("the media provider is unavailable, try again later", err)
}
