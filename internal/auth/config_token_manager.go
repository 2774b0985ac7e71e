package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrNoConfigPersister = errors.New("no config persister configured")
)

// ConfigPersister defines the interface for persisting config changes.
type ConfigPersister interface {
	SaveAccessToken(token string, expiresAt time.Time) error
}

// ConfigTokenManager wraps a ConnectTokenManager and persists every newly
// issued token, so a code exchanged once survives process restarts.
type ConfigTokenManager struct {
	connect         *ConnectTokenManager
	configPersister ConfigPersister

	mu        sync.Mutex
	persisted string
}

// NewConfigTokenManager creates a config-persisting token manager.
func NewConfigTokenManager(config *ConnectConfig, configPersister ConfigPersister) *ConfigTokenManager {
	return &ConfigTokenManager{
		connect:         NewConnectTokenManager(config),
		configPersister: configPersister,
		persisted:       config.AccessToken,
	}
}

// GetToken returns a valid access token and persists it if it is new.
func (m *ConfigTokenManager) GetToken(ctx context.Context) (string, error) {
	token, err := m.connect.GetToken(ctx)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if token == m.persisted {
		return token, nil
	}

	err = m.persistToken(m.connect.Token())
	if err != nil {
		return "", err
	}

	m.persisted = token

	return token, nil
}

// GetTokenExpiry returns the current token's expiration time.
func (m *ConfigTokenManager) GetTokenExpiry() time.Time {
	token := m.connect.Token()
	if token == nil {
		return time.Time{}
	}

	return token.ExpiresAt
}

func (m *ConfigTokenManager) persistToken(token *Token) error {
	if m.configPersister == nil {
		return ErrNoConfigPersister
	}

	err := m.configPersister.SaveAccessToken(token.AccessToken, token.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to persist access token: %w", err)
	}

	return nil
}
