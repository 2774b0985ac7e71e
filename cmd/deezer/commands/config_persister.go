package commands

import (
	"sync"
	"time"

	"github.com/spf13/viper"
)

// ConfigPersister implements the auth.ConfigPersister interface.
type ConfigPersister struct {
	mutex sync.Mutex
}

// NewConfigPersister creates a new config persister.
func NewConfigPersister() *ConfigPersister {
	return &ConfigPersister{}
}

// SaveAccessToken stores a newly issued access token and its expiry in the config file.
func (p *ConfigPersister) SaveAccessToken(token string, expiresAt time.Time) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	config := loadConfig()
	config.Token = token
	config.TokenExpiresAt = nil

	if !expiresAt.IsZero() {
		config.TokenExpiresAt = &expiresAt
	}

	err := saveConfigStruct(config)
	if err != nil {
		return err
	}

	viper.Set("token", token)

	if config.TokenExpiresAt != nil {
		viper.Set("token_expires_at", expiresAt)
	} else {
		viper.Set("token_expires_at", time.Time{})
	}

	return nil
}
