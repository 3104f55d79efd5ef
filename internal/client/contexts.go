package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/nexus-tools/nexus-cli/internal/http"
	"github.com/nexus-tools/nexus-cli/pkg/nexus"
)

const contextsPath = "/v0/contexts"

// ContextsClient implements nexus.ContextsClient. Context entries are
// read-only and served through cursor-paginated collection endpoints.
type ContextsClient struct {
	httpClient *http.Client
}

// NewContextsClient creates a new contexts client.
func NewContextsClient(httpClient *http.Client) *ContextsClient {
	return &ContextsClient{
		httpClient: httpClient,
	}
}

// List implements nexus.ContextsClient.List.
func (c *ContextsClient) List(ctx context.Context) *nexus.PageIterator {
	return nexus.NewPageIterator(ctx, c.pageGetter(), c.httpClient.BaseURL()+contextsPath)
}

// Search implements nexus.ContextsClient.Search.
func (c *ContextsClient) Search(ctx context.Context, term string) *nexus.PageIterator {
	query := url.Values{}
	query.Set("q", term)

	startURL := c.httpClient.BaseURL() + contextsPath + "?" + query.Encode()

	return nexus.NewPageIterator(ctx, c.pageGetter(), startURL)
}

// Fetch implements nexus.ContextsClient.Fetch.
func (c *ContextsClient) Fetch(ctx context.Context, resultURL string) (map[string]interface{}, error) {
	resp, err := c.httpClient.GetURL(ctx, resultURL)
	if err != nil {
		return nil, fmt.Errorf("fetching context %s: %w", resultURL, err)
	}

	var payload map[string]interface{}

	err = json.Unmarshal(resp.Body, &payload)
	if err != nil {
		return nil, fmt.Errorf("parsing context payload: %w", err)
	}

	return payload, nil
}

// pageGetter adapts the transport to the page iterator. Page traversal follows
// absolute 'next' URLs handed back by the service.
func (c *ContextsClient) pageGetter() nexus.PageGetter {
	return nexus.PageGetterFunc(func(ctx context.Context, pageURL string) ([]byte, error) {
		resp, err := c.httpClient.GetURL(ctx, pageURL)
		if err != nil {
			return nil, err
		}

		return resp.Body, nil
	})
}
