package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "plotpocket-test-secret-0123456789"

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)
	return ts
}

// sign builds a token by hand so tests can craft claims Generate never
// would.
func sign(t *testing.T, secret string, method jwt.SigningMethod, c jwt.RegisteredClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, c).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestNewTokenService(t *testing.T) {
	_, err := NewTokenService("short", 0)
	assert.Error(t, err, "secrets under 16 characters are refused")

	ts, err := NewTokenService("exactly-16-chars", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultSessionTTL, ts.TTL(), "ttl <= 0 means a week")

	ts, err = NewTokenService(testSecret, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, ts.TTL())
}

func TestSession_CookieRoundTrip(t *testing.T) {
	ts := newTestTokenService(t)
	userID := xid.New().String()

	token, err := ts.Generate(userID)
	require.NoError(t, err)

	// What the login handler writes is what the next request carries.
	rec := httptest.NewRecorder()
	SetSessionCookie(rec, token, ts.TTL(), CookieOptions{Secure: true})
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]

	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
	assert.Equal(t, int(time.Hour.Seconds()), cookie.MaxAge, "cookie lives as long as the token")

	got, err := ts.Validate(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestSession_ClaimsCarryIssuerAndExpiry(t *testing.T) {
	ts := newTestTokenService(t)
	before := time.Now().Add(-time.Second)

	token, err := ts.Generate("cs1v0ptq2a7g00a1b2c0")
	require.NoError(t, err)

	var c jwt.RegisteredClaims
	_, _, err = jwt.NewParser().ParseUnverified(token, &c)
	require.NoError(t, err)

	assert.Equal(t, "cs1v0ptq2a7g00a1b2c0", c.Subject)
	assert.Equal(t, issuer, c.Issuer)
	require.NotNil(t, c.ExpiresAt)
	assert.WithinDuration(t, before.Add(time.Hour), c.ExpiresAt.Time, 2*time.Second)
}

func TestValidate_Rejects(t *testing.T) {
	ts := newTestTokenService(t)
	valid, err := ts.Generate("user-1")
	require.NoError(t, err)
	expired, err := ts.GenerateWithDuration("user-1", -time.Second)
	require.NoError(t, err)

	future := jwt.NewNumericDate(time.Now().Add(time.Hour))
	tests := []struct {
		name  string
		token string
	}{
		{"empty cookie", ""},
		{"not a jwt", "not.a.jwt.token"},
		{"expired session", expired},
		{"tampered signature", valid[:len(valid)-3] + "xxx"},
		{
			// A restart with a generated secret invalidates old sessions.
			"signed with another secret",
			sign(t, "another-secret-0123456789abcdef", jwt.SigningMethodHS256,
				jwt.RegisteredClaims{Subject: "user-1", Issuer: issuer, ExpiresAt: future}),
		},
		{
			"foreign issuer",
			sign(t, testSecret, jwt.SigningMethodHS256,
				jwt.RegisteredClaims{Subject: "user-1", Issuer: "some-other-app", ExpiresAt: future}),
		},
		{
			"no subject",
			sign(t, testSecret, jwt.SigningMethodHS256,
				jwt.RegisteredClaims{Issuer: issuer, ExpiresAt: future}),
		},
		{
			"no expiry",
			sign(t, testSecret, jwt.SigningMethodHS256,
				jwt.RegisteredClaims{Subject: "user-1", Issuer: issuer}),
		},
		{
			"HS512 instead of HS256",
			sign(t, testSecret, jwt.SigningMethodHS512,
				jwt.RegisteredClaims{Subject: "user-1", Issuer: issuer, ExpiresAt: future}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID, err := ts.Validate(tt.token)
			assert.Error(t, err)
			assert.Empty(t, userID)
		})
	}
}

func TestValidate_UnsignedTokenRejected(t *testing.T) {
	ts := newTestTokenService(t)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "admin",
		Issuer:    issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ts.Validate(unsigned)
	assert.Error(t, err)
}
