package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/nexus-tools/nexus-cli/internal/http"
	"github.com/nexus-tools/nexus-cli/pkg/nexus"
)

const orgsPath = "/v1/orgs"

// OrganizationsClient implements nexus.OrganizationsClient.
type OrganizationsClient struct {
	httpClient *http.Client
}

// NewOrganizationsClient creates a new organizations client.
func NewOrganizationsClient(httpClient *http.Client) *OrganizationsClient {
	return &OrganizationsClient{
		httpClient: httpClient,
	}
}

// Fetch implements nexus.OrganizationsClient.Fetch.
func (c *OrganizationsClient) Fetch(ctx context.Context, label string, rev int) (*nexus.Resource, error) {
	query := url.Values{}
	if rev > 0 {
		query.Set("rev", strconv.Itoa(rev))
	}

	resp, err := c.httpClient.Get(ctx, orgsPath+"/"+label, query)
	if err != nil {
		return nil, fmt.Errorf("fetching organization '%s': %w", label, err)
	}

	resource, err := parseResource(resp.Body)
	if err != nil {
		return nil, err
	}

	// The service answers a request for a nonexistent revision with the
	// latest state rather than an error; surface the mismatch here.
	if rev > 0 && resource.Rev != rev {
		return nil, &nexus.RevisionMismatchError{
			Label:     label,
			Requested: rev,
			Actual:    resource.Rev,
		}
	}

	return resource, nil
}

// Create implements nexus.OrganizationsClient.Create.
func (c *OrganizationsClient) Create(ctx context.Context, label, name, description string) (*nexus.Resource, error) {
	payload := map[string]interface{}{}
	if name != "" {
		payload[nexus.FieldName] = name
	}

	if description != "" {
		payload[nexus.FieldDescription] = description
	}

	resp, err := c.httpClient.Post(ctx, orgsPath+"/"+label, payload)
	if err != nil {
		return nil, fmt.Errorf("creating organization '%s': %w", label, err)
	}

	return parseResource(resp.Body)
}

// Update implements nexus.OrganizationsClient.Update. The payload is the full
// replacement state; prevRev is the revision guard.
func (c *OrganizationsClient) Update(ctx context.Context, resource *nexus.Resource, prevRev int) (*nexus.Resource, error) {
	query := url.Values{}
	query.Set("rev", strconv.Itoa(prevRev))

	resp, err := c.httpClient.Put(ctx, orgsPath+"/"+resource.Label, query, resource)
	if err != nil {
		return nil, fmt.Errorf("updating organization '%s': %w", resource.Label, err)
	}

	return parseResource(resp.Body)
}

// Deprecate implements nexus.OrganizationsClient.Deprecate.
func (c *OrganizationsClient) Deprecate(ctx context.Context, label string, prevRev int) (*nexus.Resource, error) {
	query := url.Values{}
	query.Set("rev", strconv.Itoa(prevRev))

	resp, err := c.httpClient.Delete(ctx, orgsPath+"/"+label, query)
	if err != nil {
		return nil, fmt.Errorf("deprecating organization '%s': %w", label, err)
	}

	return parseResource(resp.Body)
}

// List implements nexus.OrganizationsClient.List.
func (c *OrganizationsClient) List(ctx context.Context) (*nexus.OrganizationList, error) {
	resp, err := c.httpClient.Get(ctx, orgsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("listing organizations: %w", err)
	}

	var list nexus.OrganizationList

	err = json.Unmarshal(resp.Body, &list)
	if err != nil {
		return nil, fmt.Errorf("parsing organization list: %w", err)
	}

	return &list, nil
}

func parseResource(body []byte) (*nexus.Resource, error) {
	var resource nexus.Resource

	err := json.Unmarshal(body, &resource)
	if err != nil {
		return nil, fmt.Errorf("parsing resource: %w", err)
	}

	return &resource, nil
}
