package deezerclient

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/deezer/internal/client"
	"github.com/fivetwenty-io/deezer/pkg/deezer"
)

// New creates a new Deezer API client. A nil config is rejected; an empty
// one targets the public API anonymously with default limits.
func New(ctx context.Context, config *deezer.Config) (deezer.Client, error) {
	if config == nil {
		return nil, deezer.ErrConfigRequired
	}

	client, err := client.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return client, nil
}

// NewWithEndpoint creates a new client with just a base URL (no auth).
func NewWithEndpoint(ctx context.Context, endpoint string) (deezer.Client, error) {
	return New(ctx, &deezer.Config{
		BaseURL: endpoint,
	})
}

// NewWithToken creates a new client with a base URL and access token.
func NewWithToken(ctx context.Context, endpoint, token string) (deezer.Client, error) {
	return New(ctx, &deezer.Config{
		BaseURL:     endpoint,
		AccessToken: token,
	})
}

// NewWithConnectCode creates a client that exchanges a Deezer Connect
// authorization code for an access token on the first authenticated call.
func NewWithConnectCode(ctx context.Context, endpoint, appID, appSecret, code string) (deezer.Client, error) {
	return New(ctx, &deezer.Config{
		BaseURL:   endpoint,
		AppID:     appID,
		AppSecret: appSecret,
		AuthCode:  code,
	})
}
