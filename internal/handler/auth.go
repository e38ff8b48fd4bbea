package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/plotpocket/internal/apperror"
	"github.com/sakif/plotpocket/internal/auth"
	"github.com/sakif/plotpocket/internal/model"
	"github.com/sakif/plotpocket/internal/service"
)

// Authenticator is the part of service.AuthService the handlers use.
type Authenticator interface {
	Register(ctx context.Context, email, password string) (*service.AuthResult, error)
	Login(ctx context.Context, email, password string) (*service.AuthResult, error)
	LoginOrRegisterGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*service.AuthResult, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	UserCount(ctx context.Context) (int, error)
	SessionTTL() time.Duration
}

// GitHubExchanger runs the OAuth code flow; *auth.GitHubProvider
// implements it.
type GitHubExchanger interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*auth.GitHubUser, error)
}

const oauthStateCookie = "oauth_state"

// AuthHandler serves registration, login and session management.
//
//   - HandleRegister / HandleLogin → check credentials, set the session cookie
//   - HandleLogout                 → clear the session cookie
//   - HandleStatus                 → who is logged in (401 if nobody)
//   - HandleGitHubLogin / Callback → optional GitHub OAuth flow
//
// The session is a JWT in an HttpOnly cookie, so the client never sees the
// token itself; it only learns the user from the response body.
type AuthHandler struct {
	auth    Authenticator
	github  GitHubExchanger // nil when GitHub login is not configured
	cookies auth.CookieOptions
	appURL  string // where the GitHub callback sends the browser
	logger  *slog.Logger
}

// NewAuthHandler creates an AuthHandler. github may be nil.
func NewAuthHandler(
	authSvc Authenticator,
	github GitHubExchanger,
	cookies auth.CookieOptions,
	appURL string,
	logger *slog.Logger,
) *AuthHandler {
	if appURL == "" {
		appURL = "/"
	}
	return &AuthHandler{
		auth:    authSvc,
		github:  github,
		cookies: cookies,
		appURL:  appURL,
		logger:  logger,
	}
}

// credentials is the body of register and login.
type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister serves POST /api/auth/register.
//
// The account is signed in straight away, so a successful register sets
// the session cookie exactly like a login.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auth.Register(r.Context(), body.Email, body.Password)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	h.startSession(w, result)
	writeJSON(w, http.StatusOK, result.User)
}

// HandleLogin serves POST /api/auth/login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auth.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	h.startSession(w, result)
	writeJSON(w, http.StatusOK, result.User)
}

// HandleLogout serves POST /api/auth/logout.
//
// Logout is stateless: the cookie is cleared and the JWT simply stops being
// presented. It stays valid until it expires.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.cookies)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleStatus serves GET /api/auth/status. It runs behind OptionalAuth and
// answers 401 itself so the client can tell "logged out" from an error.
func (h *AuthHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("not logged in"))
		return
	}

	user, err := h.auth.GetUserByID(r.Context(), userID)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleTest serves GET /api/auth/test, a database connectivity check.
func (h *AuthHandler) HandleTest(w http.ResponseWriter, r *http.Request) {
	n, err := h.auth.UserCount(r.Context())
	if err != nil {
		h.logger.Error("auth test: counting users failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "Connection test failed",
			Message: "the database is unreachable",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Connection test successful",
		"userCount": n,
	})
}

// HandleGitHubLogin redirects the user to GitHub's authorization page.
//
// HTTP: GET /api/auth/github/login
//
// A random state value goes into a short-lived cookie and into the
// authorization URL. The callback only proceeds if both match, which proves
// this server started the flow.
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	if h.github == nil {
		writeError(w, apperror.NotFound("login provider", "github"))
		return
	}

	state := xid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10 minutes
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback completes the OAuth login flow.
//
// HTTP: GET /api/auth/github/callback?code=xxx&state=yyy
//
//  1. Validate the state parameter (CSRF check)
//  2. Exchange the code for a GitHub user profile
//  3. Upsert the user and issue the session cookie
//  4. Redirect to the app
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	if h.github == nil {
		writeError(w, apperror.NotFound("login provider", "github"))
		return
	}

	// --- Step 1: Validate CSRF state ---
	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" {
		h.logger.Warn("auth callback: missing state cookie")
		writeError(w, apperror.ValidationFailed("state", "invalid OAuth state"))
		return
	}
	if r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("auth callback: state mismatch")
		writeError(w, apperror.ValidationFailed("state", "invalid OAuth state"))
		return
	}

	// The state cookie is single-use.
	http.SetCookie(w, &http.Cookie{
		Name:   oauthStateCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("auth callback: user denied authorization", slog.String("error", errParam))
		http.Redirect(w, r, h.redirectURL("denied"), http.StatusSeeOther)
		return
	}

	// --- Step 2: Exchange code for GitHub user profile ---
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, apperror.ValidationFailed("code", "missing OAuth code"))
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("auth callback: GitHub exchange failed", slog.String("error", err.Error()))
		writeError(w, apperror.Upstream("GitHub login failed", err))
		return
	}

	// --- Step 3: Upsert user, issue session ---
	result, err := h.auth.LoginOrRegisterGitHub(r.Context(), ghUser)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	h.startSession(w, result)

	// --- Step 4: Redirect to the app ---
	http.Redirect(w, r, h.appURL, http.StatusSeeOther)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, result *service.AuthResult) {
	auth.SetSessionCookie(w, result.Token, h.auth.SessionTTL(), h.cookies)
}

// redirectURL appends ?auth=<outcome> to the app URL.
func (h *AuthHandler) redirectURL(outcome string) string {
	u, err := url.Parse(h.appURL)
	if err != nil {
		return "/?auth=" + url.QueryEscape(outcome)
	}
	q := u.Query()
	q.Set("auth", outcome)
	u.RawQuery = q.Encode()
	return u.String()
}
