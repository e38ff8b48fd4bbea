package auth

import (
	"context"
	"net/http"
)

// contextKey is unexported so no other package can read or shadow the
// values this package stores in a request context.
type contextKey string

const userIDKey contextKey = "userID"

const unauthorizedBody = `{"error":"unauthorized","message":"valid authentication required"}` + "\n"

// RequireAuth rejects requests without a valid session cookie with 401
// before the wrapped handler runs. On success the user ID is available via
// UserIDFromContext.
//
// Chi applies middlewares in a chain: req → M1 → M2 → Handler → M2 → M1 → resp,
// so mounting this on a route group protects every route in it.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(unauthorizedBody))
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), userID)))
		})
	}
}

// OptionalAuth extracts the user identity if a valid token is present but
// never blocks the request.
//
// The list endpoints use this: anonymous visitors get plain results, while
// logged-in users get isWatchlisted/isBookmarked filled in.
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, err := extractUserID(r, tokens); err == nil && userID != "" {
				r = r.WithContext(ContextWithUserID(r.Context(), userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ContextWithUserID returns a copy of ctx carrying userID.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns ("", false) for anonymous requests.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// extractUserID reads the session cookie and validates it.
func extractUserID(r *http.Request, tokens *TokenService) (string, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", err
	}
	return tokens.Validate(cookie.Value)
}
