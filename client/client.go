// Package client speaks to the remote blog API: a thin HTTP wrapper that
// attaches bearer-token authentication to every request, plus a typed
// PostService for the post collection's CRUD operations.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TokenProvider supplies the API bearer token. It is consulted on every
// request, so a rotated token takes effect without rebuilding the client.
// An empty token with a nil error means "send the request unauthenticated".
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenProvider returning a fixed token. Handy in tests.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// HeaderWriter is the single header-mutation capability the wrapper depends
// on. http.Header satisfies it directly; MapHeader adapts a plain map.
type HeaderWriter interface {
	Set(key, value string)
}

// MapHeader adapts a plain string map to the HeaderWriter capability.
type MapHeader map[string]string

func (m MapHeader) Set(key, value string) { m[key] = value }

// Client issues requests against a single remote API origin.
type Client struct {
	base   *url.URL
	http   *http.Client
	tokens TokenProvider
}

// Option configures additional Client behavior.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client (default: 30s timeout).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// New creates a Client for the API at baseURL. The tokens provider may be
// nil, in which case every request is sent unauthenticated.
func New(baseURL string, tokens TokenProvider, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("postadmin: parse api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("postadmin: api url %q must be absolute", baseURL)
	}
	c := &Client{
		base:   u,
		http:   &http.Client{Timeout: 30 * time.Second},
		tokens: tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Authorize sets the Authorization header on h if a token is available.
// Headers already present are left untouched; without a token h is not
// modified at all.
func (c *Client) Authorize(ctx context.Context, h HeaderWriter) error {
	if c.tokens == nil {
		return nil
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("postadmin: read token: %w", err)
	}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return nil
}

// newRequest builds an authorized request for a path relative to the base
// URL. contentType is ignored when body is nil.
func (c *Client) newRequest(ctx context.Context, method, p string, query url.Values, body io.Reader, contentType string) (*http.Request, error) {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + p
	if query != nil {
		u.RawQuery = query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("postadmin: build request: %w", err)
	}
	if body != nil && contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if err := c.Authorize(ctx, req.Header); err != nil {
		return nil, err
	}
	return req, nil
}

// do sends req and decodes a JSON response into v (skipped when v is nil).
// Non-2xx statuses become *APIError; a 404 matches ErrNotFound.
func (c *Client) do(req *http.Request, v any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("postadmin: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiErrorFrom(resp)
	}
	if v == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("postadmin: decode response: %w", err)
	}
	return nil
}

func apiErrorFrom(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if body, err := io.ReadAll(io.LimitReader(resp.Body, 4096)); err == nil {
		if json.Unmarshal(body, &envelope) == nil {
			if envelope.Error != "" {
				apiErr.Message = envelope.Error
			} else {
				apiErr.Message = envelope.Message
			}
		}
	}
	return apiErr
}
