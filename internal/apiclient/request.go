package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Request is the replayable description of one logical call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte

	skipAuth bool
}

type RequestOption func(*Request)

// WithoutAuth sends the request without a bearer token and without the
// refresh flow, for endpoints such as login and register.
func WithoutAuth() RequestOption {
	return func(r *Request) { r.skipAuth = true }
}

func WithQuery(q url.Values) RequestOption {
	return func(r *Request) {
		if r.Query == nil {
			r.Query = url.Values{}
		}
		for k, vs := range q {
			for _, v := range vs {
				r.Query.Add(k, v)
			}
		}
	}
}

func WithHeader(key, value string) RequestOption {
	return func(r *Request) { r.Header.Set(key, value) }
}

func newRequest(method, path string, body any, opts []RequestOption) (*Request, error) {
	r := &Request{Method: method, Path: path, Header: http.Header{}}
	if body != nil {
		switch b := body.(type) {
		case []byte:
			r.Body = b
		case json.RawMessage:
			r.Body = b
		default:
			raw, err := json.Marshal(body)
			if err != nil {
				return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
			}
			r.Body = raw
		}
		r.Header.Set("Content-Type", "application/json")
	}
	r.Header.Set("Accept", "application/json")
	for _, o := range opts {
		o(r)
	}
	return r, nil
}

// build creates a fresh *http.Request; each attempt gets its own so headers
// set by hooks never leak between attempts.
func (r *Request) build(ctx context.Context, base *url.URL) (*http.Request, error) {
	u := base.JoinPath(r.Path)
	if len(r.Query) > 0 {
		u.RawQuery = r.Query.Encode()
	}
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}
	hr, err := http.NewRequestWithContext(ctx, r.Method, u.String(), body)
	if err != nil {
		return nil, err
	}
	hr.Header = r.Header.Clone()
	return hr, nil
}

// attempt carries the retry marker through the replay path instead of
// mutating the Request.
type attempt struct {
	n   int
	req *Request
	gen uint64
}

func (a attempt) retried() bool { return a.n > 1 }

func (a attempt) next(gen uint64) attempt {
	return attempt{n: a.n + 1, req: a.req, gen: gen}
}

type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

func (r *Response) Decode(v any) error {
	if v == nil || len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
