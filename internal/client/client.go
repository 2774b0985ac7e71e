package client

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"net/url"

	"github.com/fivetwenty-io/deezer/internal/auth"
	"github.com/fivetwenty-io/deezer/internal/http"
	"github.com/fivetwenty-io/deezer/internal/ratelimit"
	"github.com/fivetwenty-io/deezer/pkg/deezer"
)

// Static errors for err113 compliance.
var (
	ErrNoTokenManagerConfigured = errors.New("no token manager configured")
)

// Client implements the deezer.Client interface.
type Client struct {
	api          *api
	tokenManager auth.TokenManager
	limiter      *ratelimit.Budget

	// Resource clients
	tracks     *TracksClient
	albums     *AlbumsClient
	artists    *ArtistsClient
	playlists  *PlaylistsClient
	genres     *GenresClient
	radios     *RadiosClient
	users      *UsersClient
	editorials *EditorialsClient
	podcasts   *PodcastsClient
	charts     *ChartsClient
	search     *SearchClient
}

// api is the request path shared by every resource client:
// cache, then limiter and transport, then mapper.
type api struct {
	http   *http.Client
	cache  *deezer.CacheManager
	logger deezer.Logger
}

// createTokenManager picks a token manager for the configured credentials.
// Anonymous access to the public catalog needs none.
func createTokenManager(config *deezer.Config) auth.TokenManager {
	if config.AuthCode != "" {
		return auth.NewConnectTokenManager(&auth.ConnectConfig{
			TokenURL:    config.ConnectTokenURL,
			AppID:       config.AppID,
			Secret:      config.AppSecret,
			Code:        config.AuthCode,
			AccessToken: config.AccessToken,
		})
	}

	if config.AccessToken != "" {
		return auth.NewStaticTokenManager(config.AccessToken)
	}

	return nil
}

func createHTTPClientOptions(config *deezer.Config, limiter *ratelimit.Budget, chain *deezer.InterceptorChain) []http.Option {
	httpOpts := []http.Option{
		http.WithRetryConfig(config.RetryMax, config.RetryWaitMin, config.RetryWaitMax),
		http.WithTimeout(config.HTTPTimeout),
		http.WithLimiter(limiter, config.RateLimitWindow),
		http.WithUserAgent(config.UserAgent),
		http.WithInterceptors(chain),
		http.WithTokenInQuery(config.TokenInQuery),
	}

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.APIKey != "" {
		httpOpts = append(httpOpts, http.WithAPIKey(config.APIKeyHeader, config.APIKey))
	}

	if config.OnAttempt != nil {
		httpOpts = append(httpOpts, http.WithOnAttempt(config.OnAttempt))
	}

	return httpOpts
}

// New creates a new Deezer API client.
func New(ctx context.Context, config *deezer.Config) (*Client, error) {
	if config == nil {
		return nil, deezer.ErrConfigRequired
	}

	return NewWithTokenManager(ctx, config, createTokenManager(config))
}

// NewWithTokenManager creates a new client with a custom token manager.
// The configuration is defaulted and validated like New does.
func NewWithTokenManager(ctx context.Context, config *deezer.Config, tokenManager auth.TokenManager) (*Client, error) {
	if config == nil {
		return nil, deezer.ErrConfigRequired
	}

	config = config.WithDefaults()

	err := config.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	limiter, err := ratelimit.New(config.RateLimitQuota, config.RateLimitWindow)
	if err != nil {
		return nil, fmt.Errorf("creating rate limiter: %w", err)
	}

	cacheConfig := config.Cache
	if cacheConfig == nil {
		cacheConfig = deezer.DefaultCacheConfig()
	}

	cache, err := deezer.NewCacheFromConfig(ctx, cacheConfig)
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}

	// The caller's chain is never mutated.
	chain := config.Interceptors.Clone()
	if config.RequestsPerSecond > 0 {
		chain.AddRequestInterceptor(deezer.RateLimitInterceptor(deezer.NewPacingLimiter(config.RequestsPerSecond, 1)))
	}

	var logger deezer.Logger = deezer.NoopLogger{}
	if config.Logger != nil {
		logger = config.Logger
	}

	httpClient := http.NewClient(config.BaseURL, tokenManager, createHTTPClientOptions(config, limiter, chain)...)

	client := &Client{
		api: &api{
			http:   httpClient,
			cache:  deezer.NewCacheManager(cache, cacheConfig.Options),
			logger: logger,
		},
		tokenManager: tokenManager,
		limiter:      limiter,
	}

	client.initializeResourceClients()

	return client, nil
}

// GetTokenManager returns the token manager, nil for anonymous clients.
func (c *Client) GetTokenManager() auth.TokenManager {
	return c.tokenManager
}

// GetToken returns the current access token from the token manager.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	if c.tokenManager == nil {
		return "", ErrNoTokenManagerConfigured
	}

	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}

	return token, nil
}

// RateLimit reports the state of the shared call budget.
func (c *Client) RateLimit() ratelimit.Snapshot {
	return c.limiter.Snapshot()
}

// CacheStats reports response cache activity.
func (c *Client) CacheStats() *deezer.CacheStats {
	return c.api.cache.GetStats()
}

// GetInfos implements deezer.Client.GetInfos.
func (c *Client) GetInfos(ctx context.Context) (*deezer.Infos, error) {
	infos, err := getRecord(ctx, c.api, "/infos", nil, identity[deezer.Infos])
	if err != nil {
		return nil, fmt.Errorf("getting infos: %w", err)
	}

	return infos, nil
}

// GetOptions implements deezer.Client.GetOptions. It needs an access token.
func (c *Client) GetOptions(ctx context.Context) (*deezer.UserOptions, error) {
	options, err := getRecord(ctx, c.api, "/options", nil, identity[deezer.UserOptions])
	if err != nil {
		return nil, fmt.Errorf("getting options: %w", err)
	}

	return options, nil
}

// Tracks implements deezer.Client.Tracks.
func (c *Client) Tracks() deezer.TracksClient {
	return c.tracks
}

// Albums implements deezer.Client.Albums.
func (c *Client) Albums() deezer.AlbumsClient {
	return c.albums
}

// Artists implements deezer.Client.Artists.
func (c *Client) Artists() deezer.ArtistsClient {
	return c.artists
}

// Playlists implements deezer.Client.Playlists.
func (c *Client) Playlists() deezer.PlaylistsClient {
	return c.playlists
}

// Genres implements deezer.Client.Genres.
func (c *Client) Genres() deezer.GenresClient {
	return c.genres
}

// Radios implements deezer.Client.Radios.
func (c *Client) Radios() deezer.RadiosClient {
	return c.radios
}

// Users implements deezer.Client.Users.
func (c *Client) Users() deezer.UsersClient {
	return c.users
}

// Editorials implements deezer.Client.Editorials.
func (c *Client) Editorials() deezer.EditorialsClient {
	return c.editorials
}

// Podcasts implements deezer.Client.Podcasts.
func (c *Client) Podcasts() deezer.PodcastsClient {
	return c.podcasts
}

// Charts implements deezer.Client.Charts.
func (c *Client) Charts() deezer.ChartsClient {
	return c.charts
}

// Search implements deezer.Client.Search.
func (c *Client) Search() deezer.SearchClient {
	return c.search
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.tracks = newTracksClient(c.api)
	c.albums = newAlbumsClient(c.api)
	c.artists = newArtistsClient(c.api)
	c.playlists = newPlaylistsClient(c.api)
	c.genres = newGenresClient(c.api)
	c.radios = newRadiosClient(c.api)
	c.users = newUsersClient(c.api)
	c.editorials = newEditorialsClient(c.api)
	c.podcasts = newPodcastsClient(c.api)
	c.charts = newChartsClient(c.api)
	c.search = newSearchClient(c.api)
}

// fetch runs one GET through the cache and the transport and hands the body
// to decode. A cached body that no longer decodes is evicted and refetched;
// only bodies that decoded are stored.
func (a *api) fetch(ctx context.Context, path string, query url.Values, decode func(body []byte) error) error {
	key := a.cache.KeyForQuery(nethttp.MethodGet, path, query)
	cacheable := a.cache.ShouldCache(nethttp.MethodGet, path, nethttp.StatusOK)

	if cacheable {
		body, err := a.cache.Get(ctx, key)
		if err == nil {
			if decode(body) == nil {
				return nil
			}

			_ = a.cache.Delete(ctx, key)
		}
	}

	resp, err := a.http.Get(ctx, path, query)
	if err != nil {
		return err
	}

	err = decode(resp.Body)
	if err != nil {
		var apiErr *deezer.APIError
		if errors.As(err, &apiErr) && apiErr.RequestID == "" {
			apiErr.RequestID = resp.RequestID
		}

		return err
	}

	if cacheable {
		err = a.cache.Set(ctx, key, resp.Body, a.cache.TTLFor(path))
		if err != nil {
			a.logger.Warn("Response not cached", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
		}
	}

	return nil
}

func getRecord[W, R any](ctx context.Context, a *api, path string, query url.Values, convert func(*W) *R) (*R, error) {
	var record *R

	err := a.fetch(ctx, path, query, func(body []byte) error {
		decoded, err := decodeRecord(nethttp.MethodGet, path, body, convert)
		if err != nil {
			return err
		}

		record = decoded

		return nil
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

func listPage[W, R any](ctx context.Context, a *api, path string, query url.Values, convert func(*W) *R) (*deezer.ListResponse[R], error) {
	var page *deezer.ListResponse[R]

	err := a.fetch(ctx, path, query, func(body []byte) error {
		decoded, err := decodeList(nethttp.MethodGet, path, body, convert)
		if err != nil {
			return err
		}

		page = decoded

		return nil
	})
	if err != nil {
		return nil, err
	}

	return page, nil
}

// pager returns a lazy sequence over a list path. Every page is a separate
// call through the cache, limiter and transport.
func pager[W, R any](a *api, path string, params *deezer.QueryParams, convert func(*W) *R) *deezer.Pager[R] {
	fetch := func(ctx context.Context, page *deezer.QueryParams) (*deezer.ListResponse[R], error) {
		return listPage(ctx, a, path, page.ToValues(), convert)
	}

	return deezer.NewPager(fetch, params)
}

// requireID rejects the zero id before any call is made. Resources whose
// id 0 is meaningful, such as genre "All", skip this check.
func requireID(kind string, id int64, path string) error {
	if id != 0 {
		return nil
	}

	return invalidRequest(path, fmt.Errorf("%w: %s id must not be 0", deezer.ErrInvalidID, kind))
}

// invalidRequest wraps a local validation failure of a GET on path.
func invalidRequest(path string, err error) error {
	return &deezer.APIError{
		Kind:    deezer.KindInvalidRequest,
		Method:  nethttp.MethodGet,
		Path:    path,
		Message: err.Error(),
		Err:     err,
	}
}
