package tmdb

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by ShowDetails when an id is neither a movie nor
// a TV show.
var ErrNotFound = errors.New("tmdb: show not found")

// TransportError wraps a failure to get any response from TMDB at all:
// DNS, connection refused, timeouts. These are worth retrying.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("tmdb: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError is a non-2xx response. TMDB answered, so retrying the same
// request will not help.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("tmdb: %s: returned %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("tmdb: %s: returned %d: %s", e.Op, e.StatusCode, e.Body)
}

// IsTransient reports whether err is a transport failure.
func IsTransient(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsStatus reports whether err is a non-2xx response from TMDB.
func IsStatus(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}
