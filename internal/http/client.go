// Package http implements the transport used by the catalog resource clients.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/nexus-tools/nexus-cli/internal/constants"
	"github.com/nexus-tools/nexus-cli/pkg/nexus"
)

// Client is an HTTP client for the catalog service. Requests fail fast by
// default: RetryMax is zero unless explicitly configured, because a transient
// failure inside a traversal must abort the command, not resume behind the
// caller's back.
type Client struct {
	baseURL    string
	token      string
	httpClient *retryablehttp.Client
	logger     nexus.Logger
	debug      bool
	userAgent  string
	cache      nexus.Cache
	cacheTTL   time.Duration
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets the logger used for debug output.
func WithLogger(logger nexus.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig enables transport-level retries.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithCache caches successful GET responses for ttl.
func WithCache(cache nexus.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// NewClient creates a client for the deployment at baseURL. An empty token
// means requests are sent unauthenticated.
func NewClient(baseURL, token string, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.Logger = nil
	// Hand the final response back even when retries are exhausted, so a 5xx
	// surfaces as a TransportError with its body instead of a bare error.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: retryClient,
		userAgent:  "nexus-cli",
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// BaseURL returns the deployment base URL the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request is an HTTP request to the service.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
}

// Response is a parsed HTTP response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Do executes a request against the service. A non-2xx status returns both the
// response and a *nexus.TransportError carrying the URL, status, and raw body.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	return c.DoURL(ctx, req.Method, fullURL, req.Body, req.Headers)
}

// DoURL executes a request against an absolute URL. Paginated collections hand
// back absolute 'next' links, so traversal bypasses base-URL joining.
func (c *Client) DoURL(ctx context.Context, method, fullURL string, body interface{}, headers map[string]string) (*Response, error) {
	if method == http.MethodGet && c.cache != nil {
		if cached := c.cacheLookup(ctx, fullURL); cached != nil {
			return cached, nil
		}
	}

	var bodyReader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		bodyReader = bytes.NewReader(data)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	for key, value := range headers {
		httpReq.Header.Set(key, value)
	}

	c.logRequest(method, fullURL)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	c.logResponse(fullURL, resp.StatusCode)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return resp, &nexus.TransportError{
			URL:        fullURL,
			StatusCode: resp.StatusCode,
			Body:       respBody,
		}
	}

	if method == http.MethodGet && c.cache != nil {
		c.cacheStore(ctx, fullURL, resp)
	}

	return resp, nil
}

// Get issues a GET request to a service path.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// GetURL issues a GET request to an absolute URL.
func (c *Client) GetURL(ctx context.Context, fullURL string) (*Response, error) {
	return c.DoURL(ctx, http.MethodGet, fullURL, nil, nil)
}

// Post issues a POST request to a service path.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put issues a PUT request to a service path.
func (c *Client) Put(ctx context.Context, path string, query url.Values, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Query: query, Body: body})
}

// Delete issues a DELETE request to a service path.
func (c *Client) Delete(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path, Query: query})
}

func (c *Client) cacheLookup(ctx context.Context, fullURL string) *Response {
	entry, err := c.cache.Get(ctx, nexus.CacheKey(fullURL))
	if err != nil {
		return nil
	}

	c.logDebug("cache hit", map[string]interface{}{"url": fullURL})

	return &Response{
		StatusCode: entry.StatusCode,
		Body:       entry.Body,
	}
}

func (c *Client) cacheStore(ctx context.Context, fullURL string, resp *Response) {
	now := time.Now()
	entry := &nexus.CacheEntry{
		Body:       resp.Body,
		StatusCode: resp.StatusCode,
		StoredAt:   now,
		ExpiresAt:  now.Add(c.cacheTTL),
	}

	err := c.cache.Set(ctx, nexus.CacheKey(fullURL), entry)
	if err != nil {
		c.logDebug("cache store failed", map[string]interface{}{"url": fullURL, "error": err.Error()})
	}
}

func (c *Client) logRequest(method, fullURL string) {
	c.logDebug("HTTP Request", map[string]interface{}{
		"method": method,
		"url":    fullURL,
	})
}

func (c *Client) logResponse(fullURL string, status int) {
	c.logDebug("HTTP Response", map[string]interface{}{
		"url":    fullURL,
		"status": status,
	})
}

func (c *Client) logDebug(msg string, fields map[string]interface{}) {
	if c.debug && c.logger != nil {
		c.logger.Debug(msg, fields)
	}
}
