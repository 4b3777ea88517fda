// Package apiclient is the authenticated HTTP client for the ProjectEye API.
//
// Every request carries the stored access token. A 401 triggers a single
// coordinated refresh through the refresh endpoint; requests failing with
// 401 while that refresh is in flight wait for its outcome and are then
// replayed once with the new token.
package apiclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/NordCoder/ProjectEye/internal/obs"
	"github.com/NordCoder/ProjectEye/internal/tokenstore"
	"go.uber.org/zap"
)

const (
	DefaultTimeout     = 30 * time.Second
	DefaultRefreshPath = "/auth/refresh"
)

type Config struct {
	BaseURL     string
	Timeout     time.Duration
	UserAgent   string
	RefreshPath string
	// InsecureSkipVerify disables certificate checks; tokens then travel
	// over unauthenticated TLS. Test servers only.
	InsecureSkipVerify bool
}

type Client struct {
	base    *url.URL
	cfg     Config
	hc      *http.Client
	tokens  tokenstore.Pair
	hooks   []RequestHook
	log     *zap.Logger
	refresh *refresher
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l.With(zap.String("component", "apiclient"))
		}
	}
}

func WithRequestHook(h RequestHook) Option {
	return func(c *Client) { c.hooks = append(c.hooks, h) }
}

func New(cfg Config, store tokenstore.Store, opts ...Option) (*Client, error) {
	if store == nil {
		return nil, errors.New("apiclient: nil token store")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RefreshPath == "" {
		cfg.RefreshPath = DefaultRefreshPath
	}

	c := &Client{
		base:    base,
		cfg:     cfg,
		tokens:  tokenstore.Pair{S: store},
		log:     zap.L().With(zap.String("component", "apiclient")),
		refresh: &refresher{},
		hooks:   []RequestHook{RequestIDHook(), UserAgentHook(cfg.UserAgent)},
	}
	for _, o := range opts {
		o(c)
	}
	if c.hc == nil {
		c.hc = NewHTTPClient(cfg)
	}
	return c, nil
}

func (c *Client) SetTokens(ctx context.Context, access, refresh string) error {
	if err := c.tokens.Save(ctx, access, refresh); err != nil {
		return fmt.Errorf("store tokens: %w", err)
	}
	return nil
}

func (c *Client) GetAccessToken(ctx context.Context) (string, error) {
	return c.tokens.Load(ctx, tokenstore.KeyAccessToken)
}

func (c *Client) GetRefreshToken(ctx context.Context) (string, error) {
	return c.tokens.Load(ctx, tokenstore.KeyRefreshToken)
}

func (c *Client) ClearTokens(ctx context.Context) error {
	if err := c.tokens.Clear(ctx); err != nil {
		return fmt.Errorf("clear tokens: %w", err)
	}
	return nil
}

// Request sends one logical call. body is JSON-encoded unless it is nil
// or already []byte.
func (c *Client) Request(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Response, error) {
	req, err := newRequest(method, path, body, opts)
	if err != nil {
		return nil, err
	}
	at := attempt{n: 1, req: req}
	resp, err := c.send(ctx, &at, "")
	if err != nil {
		return nil, err
	}
	return c.afterResponse(ctx, at, resp)
}

// Do is Request followed by decoding the body into out.
func (c *Client) Do(ctx context.Context, method, path string, in, out any, opts ...RequestOption) error {
	resp, err := c.Request(ctx, method, path, in, opts...)
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

// send performs one attempt. An empty token means "read it from storage";
// the generation is captured before the read so a concurrent refresh can
// only make it look older, never newer.
func (c *Client) send(ctx context.Context, at *attempt, token string) (*Response, error) {
	hr, err := at.req.build(ctx, c.base)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	if !at.req.skipAuth {
		if token == "" {
			at.gen = c.refresh.current()
			token, err = c.GetAccessToken(ctx)
			if err != nil {
				return nil, fmt.Errorf("read access token: %w", err)
			}
		}
		setBearer(hr, token)
	}
	for _, h := range c.hooks {
		if err := h(ctx, hr); err != nil {
			return nil, fmt.Errorf("request hook: %w", err)
		}
	}

	return c.roundTrip(ctx, hr, at.req.Path)
}

func (c *Client) roundTrip(ctx context.Context, hr *http.Request, path string) (*Response, error) {
	start := time.Now()
	res, err := c.hc.Do(hr)
	clientLatency.WithLabelValues(hr.Method).Observe(time.Since(start).Seconds())
	if err != nil {
		clientRequests.WithLabelValues(hr.Method, "error").Inc()
		obs.WithTrace(ctx, c.log).Debug("transport error",
			zap.String("method", hr.Method), zap.String("path", path), zap.Error(err))
		return nil, &NetworkError{Method: hr.Method, Path: path, Err: err}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		clientRequests.WithLabelValues(hr.Method, "error").Inc()
		return nil, &NetworkError{Method: hr.Method, Path: path, Err: fmt.Errorf("read body: %w", err)}
	}
	clientRequests.WithLabelValues(hr.Method, strconv.Itoa(res.StatusCode)).Inc()
	obs.WithTrace(ctx, c.log).Debug("api call",
		zap.String("method", hr.Method),
		zap.String("path", path),
		zap.Int("status", res.StatusCode),
		zap.Duration("dur", time.Since(start)),
	)
	return &Response{Status: res.StatusCode, Header: res.Header, Body: body}, nil
}

func (c *Client) afterResponse(ctx context.Context, at attempt, resp *Response) (*Response, error) {
	if resp.Status != http.StatusUnauthorized || at.retried() || at.req.skipAuth || c.isRefreshPath(at.req.Path) {
		return finalize(resp)
	}

	role, slot, gen := c.refresh.begin(at.gen)
	switch role {
	case roleStale:
		token, err := c.GetAccessToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("read access token: %w", err)
		}
		return c.replay(ctx, at.next(gen), token)

	case roleWait:
		clientRefreshWaiters.Inc()
		select {
		case res := <-slot:
			clientRefreshWaiters.Dec()
			if res.err != nil {
				return nil, res.err
			}
			return c.replay(ctx, at.next(res.gen), res.access)
		case <-ctx.Done():
			clientRefreshWaiters.Dec()
			return nil, ctx.Err()
		}

	default:
		access, err := c.refreshTokens(ctx)
		gen = c.refresh.finish(access, err)
		if err != nil {
			return nil, err
		}
		return c.replay(ctx, at.next(gen), access)
	}
}

func (c *Client) replay(ctx context.Context, at attempt, token string) (*Response, error) {
	if token == "" {
		// tokens were cleared by someone else; nothing to replay with
		return nil, &HTTPError{Status: http.StatusUnauthorized}
	}
	resp, err := c.send(ctx, &at, token)
	if err != nil {
		return nil, err
	}
	return c.afterResponse(ctx, at, resp)
}

func (c *Client) isRefreshPath(p string) bool {
	return strings.TrimRight(p, "/") == strings.TrimRight(c.cfg.RefreshPath, "/")
}

func finalize(resp *Response) (*Response, error) {
	if resp.Status >= 200 && resp.Status < 300 {
		return resp, nil
	}
	return nil, &HTTPError{Status: resp.Status, Body: resp.Body}
}
