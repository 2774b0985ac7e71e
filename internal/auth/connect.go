package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/deezer/internal/constants"
)

// DefaultConnectTokenURL is the Deezer Connect token endpoint.
const DefaultConnectTokenURL = "https://connect.deezer.com/oauth/access_token.php"

// DefaultConnectAuthURL is the Deezer Connect authorization endpoint.
const DefaultConnectAuthURL = "https://connect.deezer.com/oauth/auth.php"

// Static errors for err113 compliance.
var (
	ErrAppIDRequired      = errors.New("application id is required")
	ErrSecretRequired     = errors.New("application secret is required")
	ErrCodeExchangeFailed = errors.New("authorization code exchange failed")
)

// ConnectConfig configures the Deezer Connect code exchange.
type ConnectConfig struct {
	TokenURL string
	AppID    string
	Secret   string
	// Code is the single-use authorization code returned to the redirect URI.
	Code string
	// AccessToken and ExpiresAt seed the manager with a previously issued token.
	AccessToken string
	ExpiresAt   time.Time
	HTTPClient  *http.Client
}

// AuthorizeURL builds the URL a user visits to grant perms to appID.
func AuthorizeURL(appID, redirectURI string, perms []string) string {
	values := url.Values{}
	values.Set("app_id", appID)
	values.Set("redirect_uri", redirectURI)
	values.Set("perms", strings.Join(perms, ","))

	return DefaultConnectAuthURL + "?" + values.Encode()
}

// ConnectTokenManager exchanges a Deezer Connect authorization code for an
// access token on first use and serves the token until it expires.
// Deezer Connect has no refresh grant: an expired token requires a new code.
type ConnectTokenManager struct {
	config     *ConnectConfig
	store      *TokenStore
	httpClient *http.Client

	mu   sync.Mutex
	code string
}

// NewConnectTokenManager creates a code exchanging token manager.
func NewConnectTokenManager(config *ConnectConfig) *ConnectTokenManager {
	httpClient := config.HTTPClient
	if httpClient == nil {
		retryClient := retryablehttp.NewClient()
		retryClient.Logger = nil
		retryClient.RetryMax = constants.DefaultRetryMax
		retryClient.HTTPClient.Timeout = constants.ShortHTTPTimeout
		httpClient = retryClient.StandardClient()
	}

	if config.TokenURL == "" {
		config.TokenURL = DefaultConnectTokenURL
	}

	manager := &ConnectTokenManager{
		config:     config,
		store:      NewTokenStore(),
		httpClient: httpClient,
		code:       config.Code,
	}

	if config.AccessToken != "" {
		manager.store.Set(&Token{
			AccessToken: config.AccessToken,
			TokenType:   "bearer",
			ExpiresAt:   config.ExpiresAt,
		})
	}

	return manager
}

// GetToken returns a valid access token, exchanging the authorization code if needed.
func (m *ConnectTokenManager) GetToken(ctx context.Context) (string, error) {
	if token := m.store.Get(); token.Valid() {
		return token.AccessToken, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Another caller may have exchanged the code while we waited.
	if token := m.store.Get(); token.Valid() {
		return token.AccessToken, nil
	}

	if m.code == "" {
		if m.store.Get() != nil {
			return "", ErrTokenExpired
		}

		return "", ErrNoToken
	}

	token, err := m.exchange(ctx, m.code)
	if err != nil {
		return "", err
	}

	m.code = ""
	m.store.Set(token)

	return token.AccessToken, nil
}

// Token returns the current token, or nil.
func (m *ConnectTokenManager) Token() *Token {
	return m.store.Get()
}

// SetToken manually sets the access token.
func (m *ConnectTokenManager) SetToken(token string, expiresAt time.Time) {
	m.store.Set(&Token{AccessToken: token, TokenType: "bearer", ExpiresAt: expiresAt})
}

func (m *ConnectTokenManager) exchange(ctx context.Context, code string) (*Token, error) {
	if m.config.AppID == "" {
		return nil, ErrAppIDRequired
	}

	if m.config.Secret == "" {
		return nil, ErrSecretRequired
	}

	values := url.Values{}
	values.Set("app_id", m.config.AppID)
	values.Set("secret", m.config.Secret)
	values.Set("code", code)
	values.Set("output", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.config.TokenURL+"?"+values.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating token request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting access token: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrCodeExchangeFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var token Token

	// Deezer answers invalid codes with a plain text body such as "wrong code".
	err = json.Unmarshal(body, &token)
	if err != nil || token.AccessToken == "" {
		return nil, fmt.Errorf("%w: %s", ErrCodeExchangeFailed, strings.TrimSpace(string(body)))
	}

	token.TokenType = "bearer"
	if token.ExpiresIn > 0 {
		token.ExpiresAt = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	}

	return &token, nil
}
