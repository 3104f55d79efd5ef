// Package client implements the nexus.Client interface against a catalog
// deployment.
package client

import (
	"fmt"
	"time"

	"github.com/nexus-tools/nexus-cli/internal/constants"
	"github.com/nexus-tools/nexus-cli/internal/http"
	"github.com/nexus-tools/nexus-cli/pkg/nexus"
)

// Client implements the nexus.Client interface.
type Client struct {
	httpClient    *http.Client
	organizations nexus.OrganizationsClient
	contexts      nexus.ContextsClient
}

// New creates a catalog client from a deployment configuration.
func New(config *nexus.Config) (*Client, error) {
	if config.Endpoint == "" {
		return nil, nexus.ErrEndpointRequired
	}

	httpOpts, err := buildHTTPOptions(config)
	if err != nil {
		return nil, err
	}

	httpClient := http.NewClient(config.Endpoint, config.Token, httpOpts...)

	client := &Client{httpClient: httpClient}
	client.organizations = NewOrganizationsClient(httpClient)
	client.contexts = NewContextsClient(httpClient)

	return client, nil
}

// buildHTTPOptions translates the deployment config into transport options.
func buildHTTPOptions(config *nexus.Config) ([]http.Option, error) {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.RetryMax > 0 {
		retryWaitMin := 1 * time.Second
		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		retryWaitMax := constants.DefaultRetryWaitMax
		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	if config.Cache != nil && config.Cache.Type != nexus.CacheTypeNone {
		cache, err := nexus.NewCacheFromConfig(config.Cache)
		if err != nil {
			return nil, fmt.Errorf("building response cache: %w", err)
		}

		httpOpts = append(httpOpts, http.WithCache(cache, constants.DefaultCacheTTL))
	}

	return httpOpts, nil
}

// Organizations implements nexus.Client.Organizations.
func (c *Client) Organizations() nexus.OrganizationsClient {
	return c.organizations
}

// Contexts implements nexus.Client.Contexts.
func (c *Client) Contexts() nexus.ContextsClient {
	return c.contexts
}
