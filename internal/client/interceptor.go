package client

import "net/http"

// authTransport is the one place request policy lives: every request is
// sent as JSON, and a 401/403 from any endpoint ends the local session.
type authTransport struct {
	next          http.RoundTripper
	onAuthFailure func()
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// A RoundTripper must not modify the caller's request.
	req = req.Clone(req.Context())
	req.Header.Set("Accept", "application/json")
	if req.Body != nil && req.Body != http.NoBody {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if t.onAuthFailure != nil &&
		(resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
		t.onAuthFailure()
	}
	return resp, nil
}
