package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusCodeAndIsUnauthorized(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		err    error
		status int
		unauth bool
	}{
		{"nil", nil, 0, false},
		{"plain", errors.New("x"), 0, false},
		{"http 404", &HTTPError{Status: http.StatusNotFound}, http.StatusNotFound, false},
		{"http 401 wrapped", fmt.Errorf("list: %w", &HTTPError{Status: http.StatusUnauthorized}), http.StatusUnauthorized, true},
		{"refresh 403", &RefreshFailure{Status: http.StatusForbidden, Err: errors.New("forbidden")}, http.StatusForbidden, true},
		{"refresh no token", &RefreshFailure{Err: ErrNoRefreshToken}, 0, true},
		{"network", &NetworkError{Method: "GET", Path: "/p", Err: context.DeadlineExceeded}, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.status, StatusCode(tc.err))
			require.Equal(t, tc.unauth, IsUnauthorized(tc.err))
		})
	}
}

func TestHTTPError_TruncatesBody(t *testing.T) {
	t.Parallel()

	body := make([]byte, 1000)
	for i := range body {
		body[i] = 'x'
	}
	msg := (&HTTPError{Status: http.StatusBadGateway, Body: body}).Error()
	require.Less(t, len(msg), 300)
	require.Contains(t, msg, "502")
}

func TestNetworkError_Unwrap(t *testing.T) {
	t.Parallel()

	err := &NetworkError{Method: "GET", Path: "/projects", Err: context.DeadlineExceeded}
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewRequest_Build(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("https://api.example.com/api")
	require.NoError(t, err)

	req, err := newRequest(http.MethodGet, "/projects", nil, []RequestOption{
		WithQuery(url.Values{"status": {"active"}, "page": {"2"}}),
		WithHeader(HeaderRequestID, "rid-1"),
	})
	require.NoError(t, err)

	hr, err := req.build(context.Background(), base)
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com/api/projects?page=2&status=active", hr.URL.String())
	require.Equal(t, "rid-1", hr.Header.Get(HeaderRequestID))
	require.Empty(t, hr.Header.Get("Content-Type"))

	hr.Header.Set("Authorization", "Bearer x")
	again, err := req.build(context.Background(), base)
	require.NoError(t, err)
	require.Empty(t, again.Header.Get("Authorization"), "attempts must not share headers")
}

func TestNewRequest_RawBody(t *testing.T) {
	t.Parallel()

	req, err := newRequest(http.MethodPost, "/x", []byte(`{"a":1}`), nil)
	require.NoError(t, err)
	require.Equal(t, `{"a":1}`, string(req.Body))
	require.Equal(t, "application/json", req.Header.Get("Content-Type"))

	_, err = newRequest(http.MethodPost, "/x", make(chan int), nil)
	require.Error(t, err)
}
