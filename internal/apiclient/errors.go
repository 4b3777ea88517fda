package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrNoRefreshToken = errors.New("no refresh token stored")

// NetworkError means no response was received.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: transport: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx response that the client did not recover from.
type HTTPError struct {
	Status int
	Body   []byte
}

func (e *HTTPError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("http %d %s", e.Status, http.StatusText(e.Status))
	}
	body := e.Body
	if len(body) > 256 {
		body = body[:256]
	}
	return fmt.Sprintf("http %d %s: %s", e.Status, http.StatusText(e.Status), body)
}

// RefreshFailure is returned to the request that started a failed refresh
// and to every request that was waiting on it. Status is zero when the
// refresh endpoint was never reached or did not answer.
type RefreshFailure struct {
	Status int
	Err    error
}

func (e *RefreshFailure) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("token refresh failed: http %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("token refresh failed: %v", e.Err)
}

func (e *RefreshFailure) Unwrap() error { return e.Err }

// StatusCode extracts the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status
	}
	var rf *RefreshFailure
	if errors.As(err, &rf) {
		return rf.Status
	}
	return 0
}

// IsUnauthorized reports whether err means the caller has to log in again.
func IsUnauthorized(err error) bool {
	var rf *RefreshFailure
	if errors.As(err, &rf) {
		return true
	}
	return StatusCode(err) == http.StatusUnauthorized
}
