package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/deezer/internal/auth"
	"github.com/fivetwenty-io/deezer/internal/client"
)

const defaultRedirectURI = "http://localhost:8080/callback"

var defaultPerms = []string{"basic_access", "email", "offline_access", "listening_history"}

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		appID       string
		appSecret   string
		code        string
		redirectURI string
		perms       []string
		tokenURL    string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login with Deezer Connect",
		Long: `Exchange a Deezer Connect authorization code for an access token.

Without --code the authorization URL is printed and the code returned to the
redirect URI is read from the prompt. The token is stored in the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			if appID == "" {
				appID = config.AppID
			}

			if appID == "" {
				prompted, err := promptLine(cmd, "Application id: ")
				if err != nil {
					return err
				}

				appID = prompted
			}

			if appSecret == "" {
				appSecret = config.AppSecret
			}

			if appSecret == "" {
				prompted, err := promptSecret(cmd, "Application secret: ")
				if err != nil {
					return err
				}

				appSecret = prompted
			}

			if code == "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Open this URL to authorize the application:\n\n  %s\n\n",
					auth.AuthorizeURL(appID, redirectURI, perms))

				prompted, err := promptLine(cmd, "Authorization code: ")
				if err != nil {
					return err
				}

				code = prompted
			}

			if code == "" {
				return fmt.Errorf("authorization code is required: %w", auth.ErrCodeExchangeFailed)
			}

			// The persister saves the whole config, app id included.
			viper.Set("app_id", appID)

			tokenManager := auth.NewConfigTokenManager(&auth.ConnectConfig{
				TokenURL: tokenURL,
				AppID:    appID,
				Secret:   appSecret,
				Code:     strings.TrimSpace(code),
			}, NewConfigPersister())

			// Drop any stored token so the fresh one is used.
			config.Token = ""

			clientConfig, err := buildClientConfig(config)
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)

			deezerClient, err := client.NewWithTokenManager(ctx, clientConfig, tokenManager)
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			user, err := deezerClient.Users().Me(ctx)
			if err != nil {
				return fmt.Errorf("failed to verify login: %w", err)
			}

			logger.Debug().Int64("user_id", user.ID).Msg("Access token stored")

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%d)\n", user.Name, user.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&appID, "app-id", "", "Deezer application id")
	cmd.Flags().StringVar(&appSecret, "app-secret", "", "Deezer application secret")
	cmd.Flags().StringVar(&code, "code", "", "authorization code returned to the redirect URI")
	cmd.Flags().StringVar(&redirectURI, "redirect-uri", defaultRedirectURI, "redirect URI registered for the application")
	cmd.Flags().StringSliceVar(&perms, "perms", defaultPerms, "permissions to request")
	cmd.Flags().StringVar(&tokenURL, "token-url", auth.DefaultConnectTokenURL, "Deezer Connect token endpoint")
	_ = cmd.Flags().MarkHidden("token-url")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Long:  "Remove the access token from the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			config.Token = ""
			config.TokenExpiresAt = nil

			err := saveConfigStruct(config)
			if err != nil {
				return err
			}

			viper.Set("token", "")

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")

			return nil
		},
	}
}
