package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fivetwenty-io/deezer/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConnectServer(t *testing.T, calls *atomic.Int32, body string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		assert.Equal(t, "/oauth/access_token.php", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "app-id", r.URL.Query().Get("app_id"))
		assert.Equal(t, "app-secret", r.URL.Query().Get("secret"))
		assert.Equal(t, "auth-code", r.URL.Query().Get("code"))
		assert.Equal(t, "json", r.URL.Query().Get("output"))

		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server
}

func TestConnectTokenManager_GetToken(t *testing.T) {
	t.Parallel()

	t.Run("returns seeded valid token without exchanging", func(t *testing.T) {
		t.Parallel()

		manager := auth.NewConnectTokenManager(&auth.ConnectConfig{
			AccessToken: "existing-token",
			Code:        "unused",
		})

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "existing-token", token)
	})

	t.Run("exchanges the code once", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		server := newConnectServer(t, &calls, `{"access_token":"fresh-token","expires":3600}`)

		manager := auth.NewConnectTokenManager(&auth.ConnectConfig{
			TokenURL: server.URL + "/oauth/access_token.php",
			AppID:    "app-id",
			Secret:   "app-secret",
			Code:     "auth-code",
		})

		var wg sync.WaitGroup

		for range 5 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				token, err := manager.GetToken(context.Background())
				assert.NoError(t, err)
				assert.Equal(t, "fresh-token", token)
			}()
		}

		wg.Wait()

		assert.Equal(t, int32(1), calls.Load())
		assert.WithinDuration(t, time.Now().Add(time.Hour), manager.Token().ExpiresAt, time.Minute)
	})

	t.Run("offline access tokens never expire", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		server := newConnectServer(t, &calls, `{"access_token":"offline-token","expires":0}`)

		manager := auth.NewConnectTokenManager(&auth.ConnectConfig{
			TokenURL: server.URL + "/oauth/access_token.php",
			AppID:    "app-id",
			Secret:   "app-secret",
			Code:     "auth-code",
		})

		_, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.True(t, manager.Token().ExpiresAt.IsZero())
		assert.True(t, manager.Token().Valid())
	})

	t.Run("wrong code", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		server := newConnectServer(t, &calls, "wrong code")

		manager := auth.NewConnectTokenManager(&auth.ConnectConfig{
			TokenURL: server.URL + "/oauth/access_token.php",
			AppID:    "app-id",
			Secret:   "app-secret",
			Code:     "auth-code",
		})

		_, err := manager.GetToken(context.Background())
		require.ErrorIs(t, err, auth.ErrCodeExchangeFailed)
		assert.Contains(t, err.Error(), "wrong code")
	})

	t.Run("expired token without code", func(t *testing.T) {
		t.Parallel()

		manager := auth.NewConnectTokenManager(&auth.ConnectConfig{
			AccessToken: "stale",
			ExpiresAt:   time.Now().Add(-time.Hour),
		})

		_, err := manager.GetToken(context.Background())
		require.ErrorIs(t, err, auth.ErrTokenExpired)
	})

	t.Run("nothing configured", func(t *testing.T) {
		t.Parallel()

		manager := auth.NewConnectTokenManager(&auth.ConnectConfig{})

		_, err := manager.GetToken(context.Background())
		require.ErrorIs(t, err, auth.ErrNoToken)
	})

	t.Run("missing secret", func(t *testing.T) {
		t.Parallel()

		manager := auth.NewConnectTokenManager(&auth.ConnectConfig{AppID: "app-id", Code: "auth-code"})

		_, err := manager.GetToken(context.Background())
		require.ErrorIs(t, err, auth.ErrSecretRequired)
	})
}

type recordingPersister struct {
	mu     sync.Mutex
	tokens []string
}

func (p *recordingPersister) SaveAccessToken(token string, _ time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.tokens = append(p.tokens, token)

	return nil
}

func TestConfigTokenManager_PersistsNewTokensOnce(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := newConnectServer(t, &calls, `{"access_token":"fresh-token","expires":3600}`)
	persister := &recordingPersister{}

	manager := auth.NewConfigTokenManager(&auth.ConnectConfig{
		TokenURL: server.URL + "/oauth/access_token.php",
		AppID:    "app-id",
		Secret:   "app-secret",
		Code:     "auth-code",
	}, persister)

	for range 3 {
		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "fresh-token", token)
	}

	assert.Equal(t, []string{"fresh-token"}, persister.tokens)
	assert.False(t, manager.GetTokenExpiry().IsZero())
}

func TestConfigTokenManager_NoPersister(t *testing.T) {
	t.Parallel()

	manager := auth.NewConfigTokenManager(&auth.ConnectConfig{AccessToken: "seeded"}, nil)

	token, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "seeded", token, "the seeded token is already persisted")
}

func TestAuthorizeURL(t *testing.T) {
	t.Parallel()

	link := auth.AuthorizeURL("123", "https://example.com/cb", []string{"basic_access", "offline_access"})

	assert.True(t, strings.HasPrefix(link, auth.DefaultConnectAuthURL+"?"))
	assert.Contains(t, link, "app_id=123")
	assert.Contains(t, link, "perms=basic_access%2Coffline_access")
}
