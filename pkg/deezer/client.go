package deezer

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fivetwenty-io/deezer/internal/constants"
)

// TracksClient provides access to tracks.
type TracksClient interface {
	Get(ctx context.Context, id int64) (*Track, error)
}

// AlbumsClient provides access to albums.
type AlbumsClient interface {
	Get(ctx context.Context, id int64) (*Album, error)
	Tracks(id int64, params *QueryParams) *Pager[Track]
	Fans(id int64, params *QueryParams) *Pager[User]
}

// ArtistsClient provides access to artists.
type ArtistsClient interface {
	Get(ctx context.Context, id int64) (*Artist, error)
	Top(id int64, params *QueryParams) *Pager[Track]
	Albums(id int64, params *QueryParams) *Pager[Album]
	Related(id int64, params *QueryParams) *Pager[Artist]
	Playlists(id int64, params *QueryParams) *Pager[Playlist]
	Radio(id int64, params *QueryParams) *Pager[Track]
}

// PlaylistsClient provides access to playlists.
type PlaylistsClient interface {
	Get(ctx context.Context, id int64) (*Playlist, error)
	Tracks(id int64, params *QueryParams) *Pager[Track]
	Fans(id int64, params *QueryParams) *Pager[User]
}

// GenresClient provides access to genres.
type GenresClient interface {
	Get(ctx context.Context, id int64) (*Genre, error)
	List(params *QueryParams) *Pager[Genre]
	Artists(id int64, params *QueryParams) *Pager[Artist]
	Radios(id int64, params *QueryParams) *Pager[Radio]
}

// RadiosClient provides access to radios.
type RadiosClient interface {
	Get(ctx context.Context, id int64) (*Radio, error)
	List(params *QueryParams) *Pager[Radio]
	Top(params *QueryParams) *Pager[Radio]
	Tracks(id int64, params *QueryParams) *Pager[Track]
}

// UsersClient provides access to users. User id 0 is not valid; use Me for the token owner.
type UsersClient interface {
	Get(ctx context.Context, id int64) (*User, error)
	Me(ctx context.Context) (*User, error)
	Playlists(id int64, params *QueryParams) *Pager[Playlist]
	Artists(id int64, params *QueryParams) *Pager[Artist]
	Albums(id int64, params *QueryParams) *Pager[Album]
	Tracks(id int64, params *QueryParams) *Pager[Track]
	Followings(id int64, params *QueryParams) *Pager[User]
	Followers(id int64, params *QueryParams) *Pager[User]
}

// EditorialsClient provides access to editorial sections.
type EditorialsClient interface {
	Get(ctx context.Context, id int64) (*Editorial, error)
	List(params *QueryParams) *Pager[Editorial]
	Releases(id int64, params *QueryParams) *Pager[Album]
}

// PodcastsClient provides access to podcasts.
type PodcastsClient interface {
	Get(ctx context.Context, id int64) (*Podcast, error)
	Episodes(id int64, params *QueryParams) *Pager[Episode]
}

// ChartsClient provides access to charts. Genre 0 means all genres.
type ChartsClient interface {
	Get(ctx context.Context, genreID int64) (*Chart, error)
	Tracks(genreID int64, params *QueryParams) *Pager[Track]
	Albums(genreID int64, params *QueryParams) *Pager[Album]
	Artists(genreID int64, params *QueryParams) *Pager[Artist]
	Playlists(genreID int64, params *QueryParams) *Pager[Playlist]
	Podcasts(genreID int64, params *QueryParams) *Pager[Podcast]
}

// SearchClient provides access to the search endpoints.
type SearchClient interface {
	// Run returns the first page of a track search.
	Run(ctx context.Context, opts *SearchOptions) (*SearchResult, error)
	// Query is Run with a plain free text query.
	Query(ctx context.Context, query string) (*SearchResult, error)

	Tracks(opts *SearchOptions) *Pager[Track]
	Albums(opts *SearchOptions) *Pager[Album]
	Artists(opts *SearchOptions) *Pager[Artist]
	Playlists(opts *SearchOptions) *Pager[Playlist]
	Radios(opts *SearchOptions) *Pager[Radio]
	Users(opts *SearchOptions) *Pager[User]
	Podcasts(opts *SearchOptions) *Pager[Podcast]
}

// CatalogClients provides access to the public catalog.
type CatalogClients interface {
	Tracks() TracksClient
	Albums() AlbumsClient
	Artists() ArtistsClient
	Playlists() PlaylistsClient
	Genres() GenresClient
	Radios() RadiosClient
	Editorials() EditorialsClient
	Podcasts() PodcastsClient
	Charts() ChartsClient
}

// InfoClient provides access to service information endpoints.
type InfoClient interface {
	GetInfos(ctx context.Context) (*Infos, error)
	GetOptions(ctx context.Context) (*UserOptions, error)
}

// Client is the Deezer API facade. It is safe for concurrent use.
type Client interface {
	CatalogClients
	InfoClient

	Users() UsersClient
	Search() SearchClient
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// AttemptOutcome summarizes a single HTTP attempt.
type AttemptOutcome string

// Attempt outcomes.
const (
	OutcomeSuccess     AttemptOutcome = "success"
	OutcomeRateLimited AttemptOutcome = "rate-limited"
	OutcomeServerError AttemptOutcome = "server-error"
	OutcomeClientError AttemptOutcome = "client-error"
	OutcomeNetworkErr  AttemptOutcome = "network-error"
)

// AttemptEvent is emitted once per HTTP attempt, retries included.
type AttemptEvent struct {
	RequestID  string
	Method     string
	Path       string
	Attempt    int
	StatusCode int
	Outcome    AttemptOutcome
	Latency    time.Duration
	Err        error
	At         time.Time
}

// Config represents client configuration for building a deezer.Client.
//
// # Authentication
//
// The public catalog needs no credentials. AccessToken is an OAuth token
// obtained through Deezer Connect; it is sent as a Bearer header, or as the
// access_token query parameter when TokenInQuery is set. APIKey is sent under
// APIKeyHeader for gateways that front the API.
//
// # Timeouts, retries, and rate limiting
//
// HTTPTimeout bounds each attempt; the context bounds the whole call. Every
// attempt first takes a slot from a budget of RateLimitQuota calls per
// RateLimitWindow. A rate-limited response empties the budget until the
// upstream reset hint.
type Config struct {
	// BaseURL of the API. Defaults to https://api.deezer.com.
	BaseURL string

	// AccessToken: OAuth access token for user scoped endpoints.
	AccessToken string
	// TokenInQuery sends AccessToken as the access_token query parameter.
	TokenInQuery bool
	// APIKey: optional key sent under APIKeyHeader.
	APIKey string
	// APIKeyHeader defaults to X-API-Key.
	APIKeyHeader string

	// AppID, AppSecret and AuthCode exchange a Deezer Connect authorization
	// code for an access token on the first authenticated call.
	AppID     string
	AppSecret string
	AuthCode  string
	// ConnectTokenURL overrides the Deezer Connect token endpoint.
	ConnectTokenURL string

	// HTTPTimeout bounds a single attempt. Defaults to 10s.
	HTTPTimeout time.Duration
	// RetryMax: maximum number of retries for transient failures. 0 selects
	// the default, a negative value disables retries.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries.
	RetryWaitMax time.Duration

	// RateLimitQuota: calls allowed per window. Defaults to 50.
	RateLimitQuota int
	// RateLimitWindow: quota window. Defaults to 5s.
	RateLimitWindow time.Duration
	// RequestsPerSecond smooths bursts when positive.
	RequestsPerSecond float64

	// Cache configures the response cache. Nil selects an in-memory cache;
	// use CacheTypeNone to disable caching.
	Cache *CacheConfig

	// Debug: enables verbose HTTP request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger.
	Logger Logger
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
	// OnAttempt receives one event per HTTP attempt. It must not block.
	OnAttempt func(AttemptEvent)
	// Interceptors run around every call.
	Interceptors *InterceptorChain
}

// WithDefaults returns a copy of the configuration with every unset field defaulted.
func (c *Config) WithDefaults() *Config {
	out := *c

	out.BaseURL = NormalizeBaseURL(out.BaseURL)

	if out.APIKeyHeader == "" {
		out.APIKeyHeader = constants.DefaultAPIKeyHeader
	}

	if out.HTTPTimeout <= 0 {
		out.HTTPTimeout = constants.DefaultHTTPTimeout
	}

	switch {
	case out.RetryMax == 0:
		out.RetryMax = constants.DefaultRetryMax
	case out.RetryMax < 0:
		out.RetryMax = 0
	}

	if out.RetryWaitMin <= 0 {
		out.RetryWaitMin = constants.DefaultRetryWaitMin
	}

	if out.RetryWaitMax <= 0 {
		out.RetryWaitMax = constants.DefaultRetryWaitMax
	}

	if out.RetryWaitMax < out.RetryWaitMin {
		out.RetryWaitMax = out.RetryWaitMin
	}

	if out.RateLimitQuota == 0 {
		out.RateLimitQuota = constants.DefaultRateLimitQuota
	}

	if out.RateLimitWindow == 0 {
		out.RateLimitWindow = constants.DefaultRateLimitWindow
	}

	if out.UserAgent == "" {
		out.UserAgent = constants.DefaultUserAgent
	}

	return &out
}

// Validate checks a defaulted configuration.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrBaseURLRequired
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.BaseURL)
	}

	if c.RateLimitQuota < 0 {
		return ErrInvalidQuota
	}

	if c.RateLimitWindow < 0 {
		return ErrInvalidWindow
	}

	if c.Cache != nil {
		err = c.Cache.Validate()
		if err != nil {
			return err
		}
	}

	return nil
}

// NormalizeBaseURL trims a trailing slash and adds https:// when no scheme is present.
func NormalizeBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return constants.DefaultBaseURL
	}

	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	return strings.TrimRight(raw, "/")
}
