package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// Upstream API.
const (
	// DefaultBaseURL is the public Deezer API endpoint.
	DefaultBaseURL = "https://api.deezer.com"

	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "deezer-go-client/1.0"

	// DefaultAPIKeyHeader carries Config.APIKey when set.
	DefaultAPIKeyHeader = "X-API-Key"

	// AccessTokenParam is the query parameter Deezer reads OAuth tokens from.
	AccessTokenParam = "access_token"

	// RequestIDHeader carries the per-call request id.
	RequestIDHeader = "X-Request-ID"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default per-attempt timeout.
	DefaultHTTPTimeout = 10 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 5 * time.Second

	// DefaultBatchTimeout bounds a single batch lookup.
	DefaultBatchTimeout = 30 * time.Second
)

// Retry limits.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 3

	// DefaultRetryWaitMin is the first backoff step.
	DefaultRetryWaitMin = 300 * time.Millisecond

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second

	// ExponentialBackoffBase is the base for exponential backoff.
	ExponentialBackoffBase = 2
)

// Rate limiting. Deezer allows 50 requests every 5 seconds.
const (
	// DefaultRateLimitQuota is the number of calls per window.
	DefaultRateLimitQuota = 50

	// DefaultRateLimitWindow is the quota window.
	DefaultRateLimitWindow = 5 * time.Second
)

// Concurrency limits.
const (
	// DefaultConcurrencyLimit limits concurrent batch lookups.
	DefaultConcurrencyLimit = 5

	// BufferSize is the default buffer size for channels.
	BufferSize = 10
)

// Pagination.
const (
	// DefaultPageSize is the page size Deezer uses when none is requested.
	DefaultPageSize = 25

	// MaxPageSize is the largest limit Deezer honours.
	MaxPageSize = 100

	// MaxPages guards against runaway pagination.
	MaxPages = 50
)

// Cache defaults, mirroring the starter's deezer.cache.* properties.
const (
	// DefaultCacheSize is the default cache size limit.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is the default cache time-to-live.
	DefaultCacheTTL = 60 * time.Second

	// DefaultCacheCleanupInterval is how often expired entries are dropped.
	DefaultCacheCleanupInterval = 60 * time.Second

	// MaxCacheValueSize is the maximum size for cached values (1MB).
	MaxCacheValueSize = 1024 * 1024

	// ChartCacheTTL is the TTL for chart responses.
	ChartCacheTTL = 10 * time.Minute

	// SearchCacheTTL is the TTL for search responses.
	SearchCacheTTL = 30 * time.Second
)

// Circuit breaker.
const (
	// CircuitBreakerThreshold is the failure threshold for circuit breaker.
	CircuitBreakerThreshold = 5

	// CircuitBreakerSuccessThreshold is the success threshold for circuit breaker.
	CircuitBreakerSuccessThreshold = 2

	// CircuitBreakerTimeout is the timeout for circuit breaker.
	CircuitBreakerTimeout = 30 * time.Second
)

// State constants.
const (
	// StatusClosed indicates a closed circuit.
	StatusClosed = "closed"

	// StatusOpen indicates an open state.
	StatusOpen = "open"

	// StatusHalfOpen indicates a half-open state.
	StatusHalfOpen = "half-open"
)

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for table output format.
	FormatTable = "table"
)

// Display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// TitleDisplayLength truncates long titles in tables.
	TitleDisplayLength = 40

	// SecondsPerMinute formats track durations.
	SecondsPerMinute = 60
)
