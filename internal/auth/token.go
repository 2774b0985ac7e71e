// Package auth provides access token sources for the Deezer client.
package auth

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrNoToken      = errors.New("no access token available")
	ErrTokenExpired = errors.New("access token expired and cannot be renewed")
)

// expiryBuffer treats tokens about to expire as already expired.
const expiryBuffer = 30 * time.Second

// Token is an OAuth access token issued by Deezer Connect.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type,omitempty"`
	ExpiresIn   int64     `json:"expires,omitempty"`
	ExpiresAt   time.Time `json:"expires_at,omitzero"`
}

// Valid reports whether the token can be used. Tokens without an expiry
// (the offline_access permission) never expire.
func (t *Token) Valid() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}

	if t.ExpiresAt.IsZero() {
		return true
	}

	return time.Now().Add(expiryBuffer).Before(t.ExpiresAt)
}

// TokenManager supplies the access token for a request. An empty token with a
// nil error means the request is sent without credentials.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
}

// TokenStore holds a token for concurrent readers.
type TokenStore struct {
	mu    sync.RWMutex
	token *Token
}

// NewTokenStore creates an empty store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the stored token, or nil.
func (s *TokenStore) Get() *Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// Set replaces the stored token.
func (s *TokenStore) Set(token *Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
}

// Clear removes the stored token.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
}

// StaticTokenManager always returns the same token.
type StaticTokenManager struct {
	store *TokenStore
}

// NewStaticTokenManager creates a token manager for a fixed token. An empty
// token makes every request anonymous.
func NewStaticTokenManager(token string) *StaticTokenManager {
	store := NewTokenStore()
	if token != "" {
		store.Set(&Token{AccessToken: token, TokenType: "bearer"})
	}

	return &StaticTokenManager{store: store}
}

// GetToken returns the configured token.
func (m *StaticTokenManager) GetToken(ctx context.Context) (string, error) {
	token := m.store.Get()
	if token == nil {
		return "", nil
	}

	return token.AccessToken, nil
}

// SetToken replaces the token.
func (m *StaticTokenManager) SetToken(token string, expiresAt time.Time) {
	if token == "" {
		m.store.Clear()

		return
	}

	m.store.Set(&Token{AccessToken: token, TokenType: "bearer", ExpiresAt: expiresAt})
}
