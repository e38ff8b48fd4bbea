// Package client is the application-state layer of a PlotPocket front end.
//
// It mirrors what the browser client keeps in memory: who is logged in,
// which shows are bookmarked, and what each list page is showing. Any
// front end (a CLI, a TUI, a wasm build) drives it through the same calls
// the web pages make, and observes it with Subscribe.
//
// The pieces:
//
//   - API: typed calls to the HTTP API over a cookie-carrying http.Client
//   - AuthStore: the current user
//   - BookmarkStore: the user's bookmarks, loaded when someone logs in
//   - ListPage: one movies/TV/trending/bookmarks page
//   - Debouncer: the 300ms search-box debounce
//
// Every request goes through one transport that adds the JSON headers and,
// on 401 or 403, logs the user out locally and navigates to the login page.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"

	"github.com/sakif/plotpocket/internal/model"
)

// DefaultTimeout bounds every API call.
const DefaultTimeout = 10 * time.Second

// APIError is a non-2xx answer from the API, decoded from its standard
// {"error", "message"} body.
type APIError struct {
	StatusCode int
	Kind       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("client: api returned %d", e.StatusCode)
	}
	return fmt.Sprintf("client: api returned %d: %s", e.StatusCode, e.Message)
}

// IsAuthFailure reports whether err is a 401 or 403 from the API.
func IsAuthFailure(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) &&
		(apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden)
}

// API is a typed client for the PlotPocket HTTP API.
type API struct {
	baseURL *url.URL
	http    *http.Client
}

// Option configures an API.
type Option func(*apiOptions)

type apiOptions struct {
	transport http.RoundTripper
	timeout   time.Duration
}

// WithTransport replaces the underlying round tripper (default
// http.DefaultTransport). The auth interceptor still wraps it.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *apiOptions) { o.transport = rt }
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(o *apiOptions) { o.timeout = d }
}

// NewAPI creates an API rooted at baseURL. onAuthFailure runs for every
// 401/403 response before the error is returned to the caller; it may be
// nil.
func NewAPI(baseURL string, onAuthFailure func(), opts ...Option) (*API, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("client: parsing base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("client: base url %q must be absolute", baseURL)
	}

	o := apiOptions{transport: http.DefaultTransport, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	// The session lives in an HttpOnly cookie; the jar sends it back on
	// every request, which is what "withCredentials" means here.
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("client: creating cookie jar: %w", err)
	}

	return &API{
		baseURL: base,
		http: &http.Client{
			Jar:       jar,
			Timeout:   o.timeout,
			Transport: &authTransport{next: o.transport, onAuthFailure: onAuthFailure},
		},
	}, nil
}

// credentials is the register/login body.
type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// --- Auth ---

func (a *API) Status(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := a.do(ctx, http.MethodGet, "/api/auth/status", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (a *API) Login(ctx context.Context, email, password string) (*model.User, error) {
	var u model.User
	if err := a.do(ctx, http.MethodPost, "/api/auth/login", nil, credentials{email, password}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (a *API) Register(ctx context.Context, email, password string) (*model.User, error) {
	var u model.User
	if err := a.do(ctx, http.MethodPost, "/api/auth/register", nil, credentials{email, password}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (a *API) Logout(ctx context.Context) error {
	return a.do(ctx, http.MethodPost, "/api/auth/logout", nil, struct{}{}, nil)
}

// --- Lists ---

// Trending lists one of the windows "all", "movies" or "tv-shows".
func (a *API) Trending(ctx context.Context, window string) ([]model.ShowDto, error) {
	return a.list(ctx, "/api/shows/trending/"+url.PathEscape(window), nil)
}

// Movies lists a movie category. An empty category is the popular list.
func (a *API) Movies(ctx context.Context, category string) ([]model.ShowDto, error) {
	if category == "" {
		return a.list(ctx, "/api/movies", nil)
	}
	return a.list(ctx, "/api/movies/"+url.PathEscape(category), nil)
}

func (a *API) TvShows(ctx context.Context, category string) ([]model.ShowDto, error) {
	return a.list(ctx, "/api/TvShows/"+url.PathEscape(category), nil)
}

// Search returns movies and TV shows, best rated first.
func (a *API) Search(ctx context.Context, query string) ([]model.ShowDto, error) {
	return a.list(ctx, "/api/shows/search", url.Values{"query": {query}})
}

func (a *API) SearchTV(ctx context.Context, query string) ([]model.ShowDto, error) {
	return a.list(ctx, "/api/TvShows/search", url.Values{"query": {query}})
}

// --- Collections ---

func (a *API) Bookmarks(ctx context.Context) ([]model.ShowDto, error) {
	return a.list(ctx, "/api/shows/bookmarks", nil)
}

func (a *API) AddBookmark(ctx context.Context, showID int) (*model.ShowDto, error) {
	return a.single(ctx, http.MethodPost, "/api/shows/"+strconv.Itoa(showID)+"/bookmark")
}

func (a *API) RemoveBookmark(ctx context.Context, showID int) (*model.ShowDto, error) {
	return a.single(ctx, http.MethodDelete, "/api/shows/"+strconv.Itoa(showID)+"/bookmark")
}

func (a *API) Watchlist(ctx context.Context) ([]model.ShowDto, error) {
	return a.list(ctx, "/api/watchlist", nil)
}

// AddToWatchlist routes by show type, since the server caches movie and TV
// metadata from different upstream endpoints.
func (a *API) AddToWatchlist(ctx context.Context, show model.ShowDto) (*model.ShowDto, error) {
	return a.single(ctx, http.MethodPost, watchlistPath(show))
}

func (a *API) RemoveFromWatchlist(ctx context.Context, show model.ShowDto) (*model.ShowDto, error) {
	return a.single(ctx, http.MethodDelete, watchlistPath(show))
}

func watchlistPath(show model.ShowDto) string {
	segment := "movies"
	if show.Type == model.ShowTypeTvShow {
		segment = "TvShows"
	}
	return "/api/" + segment + "/" + strconv.Itoa(show.ID) + "/watchlist"
}

// --- Plumbing ---

func (a *API) list(ctx context.Context, path string, query url.Values) ([]model.ShowDto, error) {
	shows := []model.ShowDto{}
	if err := a.do(ctx, http.MethodGet, path, query, nil, &shows); err != nil {
		return nil, err
	}
	return shows, nil
}

func (a *API) single(ctx context.Context, method, path string) (*model.ShowDto, error) {
	var dto model.ShowDto
	if err := a.do(ctx, method, path, nil, struct{}{}, &dto); err != nil {
		return nil, err
	}
	return &dto, nil
}

func (a *API) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := a.baseURL.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encoding %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("client: building %s %s: %w", method, path, err)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decoding %s %s: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err == nil {
		apiErr.Kind = body.Error
		apiErr.Message = body.Message
	}
	return apiErr
}
