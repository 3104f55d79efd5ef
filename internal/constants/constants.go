package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600

	// EditFilePerm is the permission for temporary edit files.
	EditFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second
)

// Retry limits. Retries are disabled by default: a transient failure inside a
// paginated traversal must abort the whole command rather than resume silently.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 0

	// DefaultRetryWaitMax is the maximum wait time between retries when enabled.
	DefaultRetryWaitMax = 10 * time.Second
)

// Cache defaults.
const (
	// DefaultCacheSize is the default maximum number of cached responses.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is the default lifetime of a cached response.
	DefaultCacheTTL = 1 * time.Minute
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)
