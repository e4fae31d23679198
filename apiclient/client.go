package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const (
	defaultRefreshPath = "/token/refresh/"
	defaultTimeout     = 15 * time.Second
	maxBodyBytes       = 10 << 20
)

// Client dispatches requests to the job board API. It attaches the current access token
// as a bearer credential and, when a request is rejected with 401, refreshes the token
// once and replays the request once.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	creds        CredentialProvider
	logger       zerolog.Logger
	refreshPath  string
	dedupRefresh bool
	refreshGroup singleflight.Group
	newRequestID func() string
}

// Option defines a function type to modify the Client instance.
type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the per-attempt timeout of the underlying http.Client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = timeout
		c.httpClient = &hc
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRefreshPath overrides the token refresh endpoint (default /token/refresh/).
func WithRefreshPath(path string) Option {
	return func(c *Client) {
		c.refreshPath = path
	}
}

// WithoutRefreshDedup makes every concurrent 401 run its own refresh call instead of
// sharing one in-flight refresh per refresh token.
func WithoutRefreshDedup() Option {
	return func(c *Client) {
		c.dedupRefresh = false
	}
}

// New creates a Client for baseURL (e.g. "https://jobs.example.com/api"). A nil
// CredentialProvider makes an anonymous client.
func New(baseURL string, creds CredentialProvider, options ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("[apiclient.New] invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("[apiclient.New] base URL %q must be absolute", baseURL)
	}
	if creds == nil {
		creds = Anonymous{}
	}

	c := &Client{
		baseURL:      strings.TrimRight(u.String(), "/"),
		httpClient:   &http.Client{Timeout: defaultTimeout},
		creds:        creds,
		logger:       log.Logger,
		refreshPath:  defaultRefreshPath,
		dedupRefresh: true,
		newRequestID: uuid.NewString,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends req. A 401 triggers at most one refresh and one replay; the replay's result
// is returned as-is. Non-2xx results are returned as *APIError, refresh failures as
// *RefreshError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	return c.dispatch(ctx, pendingRequest{req: req, requestID: c.newRequestID()})
}

// DoOnce sends req without the refresh path: a 401 is returned to the caller directly.
// Used for the authentication endpoints.
func (c *Client) DoOnce(ctx context.Context, req *Request) (*Response, error) {
	return c.dispatch(ctx, pendingRequest{req: req, requestID: c.newRequestID(), attempted: true})
}

func (c *Client) dispatch(ctx context.Context, p pendingRequest) (*Response, error) {
	if p.req == nil {
		return nil, errors.New("[Client.Do] request is required")
	}

	accessToken, _ := c.creds.AccessToken(ctx)
	resp, err := c.send(ctx, p, accessToken)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || p.attempted {
		return c.result(p, resp)
	}

	refreshToken, ok := c.creds.RefreshToken(ctx)
	if !ok {
		c.logger.Debug().Str("request_id", p.requestID).Msg("401 without refresh token")
		return c.result(p, resp)
	}

	accessToken, err = c.refreshAccessToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	p.attempted = true
	resp, err = c.send(ctx, p, accessToken)
	if err != nil {
		return nil, err
	}
	return c.result(p, resp)
}

func (c *Client) send(ctx context.Context, p pendingRequest, accessToken string) (*Response, error) {
	target, err := c.resolve(p.req.Path, p.req.Query)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if p.req.Body != nil {
		body = bytes.NewReader(p.req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, p.req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("[Client.send] build request: %w", err)
	}
	for k, values := range p.req.Header {
		for _, v := range values {
			httpReq.Header.Add(k, v)
		}
	}
	if p.req.Body != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}
	httpReq.Header.Set(HeaderRequestID, p.requestID)
	if accessToken != "" {
		(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}).SetAuthHeader(httpReq)
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", p.req.Method, target, err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", p.req.Method, target, err)
	}

	c.logger.Debug().
		Str("request_id", p.requestID).
		Str("method", p.req.Method).
		Str("url", target).
		Int("status", httpResp.StatusCode).
		Bool("retry", p.attempted && accessToken != "").
		Dur("took", time.Since(start)).
		Msg("api request")

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       data,
	}, nil
}

func (c *Client) result(p pendingRequest, resp *Response) (*Response, error) {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	target, _ := c.resolve(p.req.Path, p.req.Query)
	return nil, &APIError{
		Method:     p.req.Method,
		URL:        target,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       resp.Body,
	}
}

// resolve joins path onto the base URL. Absolute URLs are used unchanged.
func (c *Client) resolve(path string, query url.Values) (string, error) {
	var raw string
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		raw = path
	} else {
		raw = c.baseURL + "/" + strings.TrimLeft(path, "/")
	}
	if len(query) == 0 {
		return raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("[Client.resolve] %q: %w", raw, err)
	}
	q := u.Query()
	for k, values := range query {
		q.Del(k)
		for _, v := range values {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
