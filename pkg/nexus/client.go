package nexus

import (
	"context"
	"time"
)

// Client is the top-level interface to a catalog deployment.
type Client interface {
	// Organizations returns the organizations client.
	Organizations() OrganizationsClient

	// Contexts returns the contexts client.
	Contexts() ContextsClient
}

// OrganizationsClient manages organization resources. Mutations follow the
// optimistic-concurrency protocol: each write carries the revision the caller
// last observed, and the service rejects the write if the resource has moved on.
type OrganizationsClient interface {
	// Fetch retrieves an organization by label. When rev is non-zero the
	// resource is requested at that revision; a response whose revision does
	// not match fails with a *RevisionMismatchError.
	Fetch(ctx context.Context, label string, rev int) (*Resource, error)

	// Create creates a new organization. Name and description are optional.
	Create(ctx context.Context, label, name, description string) (*Resource, error)

	// Update submits a full replacement payload guarded by prevRev.
	Update(ctx context.Context, resource *Resource, prevRev int) (*Resource, error)

	// Deprecate marks the organization deprecated, guarded by prevRev.
	Deprecate(ctx context.Context, label string, prevRev int) (*Resource, error)

	// List retrieves all organizations.
	List(ctx context.Context) (*OrganizationList, error)
}

// ContextsClient reads context entries, which are served through
// cursor-paginated collection endpoints and are read-only.
type ContextsClient interface {
	// List returns an iterator over all registered contexts.
	List(ctx context.Context) *PageIterator

	// Search returns an iterator over contexts matching a free-text term.
	Search(ctx context.Context, term string) *PageIterator

	// Fetch dereferences a result URL and returns the full representation.
	Fetch(ctx context.Context, url string) (map[string]interface{}, error)
}

// Config holds the settings needed to build a client for one deployment.
type Config struct {
	// Endpoint is the base URL of the catalog deployment.
	Endpoint string

	// Token is an optional bearer token attached to every request.
	Token string

	// Logger receives transport-level debug logs when Debug is set.
	Logger Logger

	// Debug enables request/response logging.
	Debug bool

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// RetryMax is the number of transport-level retries. Zero (the default)
	// means requests fail fast, matching the traversal contract.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// Cache configures an optional GET response cache.
	Cache *CacheConfig
}

// Logger is the minimal logging interface consumed by the transport.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}
