package commands

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/deezer/internal/auth"
)

const tokenPath = "/oauth/access_token.php"

func newLoginServer(t *testing.T) *cliServer {
	t.Helper()

	server := newCLIServer(t)
	server.Handle(tokenPath, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("code") != "good-code" {
			_, _ = w.Write([]byte("wrong code"))

			return
		}

		_, _ = w.Write([]byte(`{"access_token":"fresh-token","expires":3600}`))
	})
	server.JSON("/user/me", `{"id": 5, "name": "listener"}`)

	return server
}

func TestLoginCommand(t *testing.T) { //nolint:funlen
	t.Run("exchanges the code and stores the token", func(t *testing.T) {
		server := newLoginServer(t)
		configFile := setupCLI(t, server.URL)

		out, err := executeCommand(NewLoginCommand(), "",
			"--app-id", "123", "--app-secret", "secret", "--code", "good-code",
			"--token-url", server.URL+tokenPath)
		require.NoError(t, err)
		assert.Contains(t, out, "Logged in as listener (5)")

		exchanges := server.Queries(tokenPath)
		require.Len(t, exchanges, 1)
		assert.Equal(t, "123", exchanges[0].Get("app_id"))
		assert.Equal(t, "secret", exchanges[0].Get("secret"))

		me := server.Queries("/user/me")
		require.Len(t, me, 1)
		assert.Equal(t, "fresh-token", me[0].Get("access_token"))

		config := readConfigFile(t, configFile)
		assert.Equal(t, "fresh-token", config.Token)
		assert.Equal(t, "123", config.AppID)
		require.NotNil(t, config.TokenExpiresAt)
	})

	t.Run("prompts for the code", func(t *testing.T) {
		server := newLoginServer(t)
		configFile := setupCLI(t, server.URL)

		out, err := executeCommand(NewLoginCommand(), "good-code\n",
			"--app-id", "123", "--app-secret", "secret", "--token-url", server.URL+tokenPath)
		require.NoError(t, err)

		assert.Contains(t, out, "https://connect.deezer.com/oauth/auth.php?")
		assert.Contains(t, out, "app_id=123")
		assert.Contains(t, out, "Logged in as listener")
		assert.Equal(t, "fresh-token", readConfigFile(t, configFile).Token)
	})

	t.Run("prompts for every missing value", func(t *testing.T) {
		server := newLoginServer(t)
		configFile := setupCLI(t, server.URL)

		_, err := executeCommand(NewLoginCommand(), "123\nsecret\ngood-code\n", "--token-url", server.URL+tokenPath)
		require.NoError(t, err)
		assert.Equal(t, "fresh-token", readConfigFile(t, configFile).Token)
	})

	t.Run("rejected code stores nothing", func(t *testing.T) {
		server := newLoginServer(t)
		configFile := setupCLI(t, server.URL)

		_, err := executeCommand(NewLoginCommand(), "",
			"--app-id", "123", "--app-secret", "secret", "--code", "stale-code",
			"--token-url", server.URL+tokenPath)
		require.Error(t, err)
		require.ErrorIs(t, err, auth.ErrCodeExchangeFailed)

		assert.NoFileExists(t, configFile)
		assert.Equal(t, 0, server.Hits("/user/me"))
	})

	t.Run("missing code", func(t *testing.T) {
		server := newLoginServer(t)
		setupCLI(t, server.URL)

		_, err := executeCommand(NewLoginCommand(), "",
			"--app-id", "123", "--app-secret", "secret", "--token-url", server.URL+tokenPath)
		require.ErrorIs(t, err, auth.ErrCodeExchangeFailed)
		assert.Equal(t, 0, server.Hits(tokenPath))
	})
}
