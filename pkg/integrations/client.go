package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/gitfind/pkg/errors"
	"github.com/matzehuels/gitfind/pkg/observability"
)

// Client provides shared HTTP functionality for upstream API clients.
// It applies default request headers, classifies response statuses and
// decodes JSON bodies. It never retries.
type Client struct {
	http    *http.Client
	headers map[string]string
}

// ClientOption configures a [Client].
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
// Useful for tests (httptest.Server.Client) and custom transports.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout. Values <= 0 are ignored.
// The timeout is applied to a copy, so a shared *http.Client is never mutated.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d <= 0 {
			return
		}
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// NewClient creates a Client with the given default headers.
// Headers are applied to all requests made through this client.
// Pass nil for headers if no default headers are needed.
func NewClient(headers map[string]string, opts ...ClientOption) *Client {
	c := &Client{
		http:    NewHTTPClient(),
		headers: headers,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Timeout returns the per-request timeout of the underlying HTTP client.
func (c *Client) Timeout() time.Duration { return c.http.Timeout }

// Get performs an HTTP GET request and JSON-decodes the response into v.
// An empty body (e.g. 204 No Content) leaves v unchanged.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	body, err := c.doRequest(ctx, url, headers)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w from %s: %v", ErrDecode, url, err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &errors.RemoteError{URL: url, Err: err}
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, &errors.RemoteError{URL: url, Err: fmt.Errorf("%w: %w", ErrNetwork, err)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode, resp.Header); err != nil {
		return nil, &errors.RemoteError{URL: url, StatusCode: resp.StatusCode, Err: err}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, &errors.RemoteError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: read body: %v", ErrNetwork, err)}
	}
	return body, nil
}

func checkStatus(code int, header http.Header) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests:
		return ErrRateLimited
	case code == http.StatusForbidden && header.Get("X-RateLimit-Remaining") == "0":
		return ErrRateLimited
	case code >= 500:
		return ErrNetwork
	default:
		return ErrUnexpectedStatus
	}
}
