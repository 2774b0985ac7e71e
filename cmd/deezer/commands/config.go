package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/deezer/internal/constants"
	"github.com/fivetwenty-io/deezer/pkg/deezer"
)

// Config represents the CLI configuration.
type Config struct {
	API            string     `json:"api,omitempty"              yaml:"api,omitempty"`
	Token          string     `json:"token,omitempty"            yaml:"token,omitempty"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty" yaml:"token_expires_at,omitempty"`
	AppID          string     `json:"app_id,omitempty"           yaml:"app_id,omitempty"`
	AppSecret      string     `json:"app_secret,omitempty"       yaml:"app_secret,omitempty"`

	// Global settings
	Output  string `json:"output"   yaml:"output"`
	NoColor bool   `json:"no_color" yaml:"no_color"`

	// Response cache and pacing
	Cache             string  `json:"cache,omitempty"               yaml:"cache,omitempty"`
	RedisAddr         string  `json:"redis_addr,omitempty"          yaml:"redis_addr,omitempty"`
	NATSURL           string  `json:"nats_url,omitempty"            yaml:"nats_url,omitempty"`
	RequestsPerSecond float64 `json:"requests_per_second,omitempty" yaml:"requests_per_second,omitempty"`
}

// configSetters maps settable keys to the field they update.
var configSetters = map[string]func(config *Config, value string) error{
	"api": func(config *Config, value string) error {
		config.API = value

		return nil
	},
	"app_id": func(config *Config, value string) error {
		config.AppID = value

		return nil
	},
	"app_secret": func(config *Config, value string) error {
		config.AppSecret = value

		return nil
	},
	"output": func(config *Config, value string) error {
		format, err := parseOutputFormat(value)
		if err != nil {
			return err
		}

		config.Output = format

		return nil
	},
	"no_color": func(config *Config, value string) error {
		config.NoColor = parseBoolValue(value)

		return nil
	},
	"cache": func(config *Config, value string) error {
		switch deezer.CacheType(value) {
		case "", deezer.CacheTypeMemory, deezer.CacheTypeNone, deezer.CacheTypeRedis, deezer.CacheTypeNATS:
			config.Cache = value

			return nil
		default:
			return fmt.Errorf("%w: %s", deezer.ErrUnsupportedCacheType, value)
		}
	},
	"redis_addr": func(config *Config, value string) error {
		config.RedisAddr = value

		return nil
	},
	"nats_url": func(config *Config, value string) error {
		config.NATSURL = value

		return nil
	},
	"requests_per_second": func(config *Config, value string) error {
		if value == "" {
			config.RequestsPerSecond = 0

			return nil
		}

		rps, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid requests_per_second %q: %w", value, err)
		}

		config.RequestsPerSecond = rps

		return nil
	},
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage Deezer CLI configuration including credentials, cache and output settings",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())
	cmd.AddCommand(newConfigSetTokenCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current CLI configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig().masked()

			out := cmd.OutOrStdout()

			switch outputFormat() {
			case constants.FormatJSON:
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")

				return encoder.Encode(config)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(out)

				return encoder.Encode(config)
			default:
				return displayConfigTable(cmd, config)
			}
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. Keys: " + strings.Join(configKeys(), ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			config := loadConfig()

			err := setConfigValue(config, key, value)
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", key)

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Reset a configuration value to its default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			config := loadConfig()

			if key == "token" {
				config.Token = ""
				config.TokenExpiresAt = nil
			} else {
				err := setConfigValue(config, key, "")
				if err != nil {
					return err
				}
			}

			err := saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", key)

			return nil
		},
	}
}

func newConfigSetTokenCommand() *cobra.Command {
	var expiresIn time.Duration

	cmd := &cobra.Command{
		Use:   "set-token [TOKEN]",
		Short: "Store an access token",
		Long:  "Store an OAuth access token. When TOKEN is omitted it is read from a hidden prompt.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var token string
			if len(args) == 1 {
				token = args[0]
			} else {
				prompted, err := promptSecret(cmd, "Access token: ")
				if err != nil {
					return err
				}

				token = prompted
			}

			token = strings.TrimSpace(token)
			if token == "" {
				return constants.ErrEmptyToken
			}

			var expiresAt time.Time
			if expiresIn > 0 {
				expiresAt = time.Now().Add(expiresIn)
			}

			err := NewConfigPersister().SaveAccessToken(token, expiresAt)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Access token saved")

			return nil
		},
	}

	cmd.Flags().DurationVar(&expiresIn, "expires-in", 0, "token lifetime, 0 for a token that does not expire")

	return cmd
}

// loadConfig reads the effective configuration: flags, DEEZER_* environment
// variables and the config file, in that order of precedence.
func loadConfig() *Config {
	config := &Config{
		API:               viper.GetString("api"),
		Token:             viper.GetString("token"),
		AppID:             viper.GetString("app_id"),
		AppSecret:         viper.GetString("app_secret"),
		Output:            viper.GetString("output"),
		NoColor:           viper.GetBool("no_color"),
		Cache:             viper.GetString("cache"),
		RedisAddr:         viper.GetString("redis_addr"),
		NATSURL:           viper.GetString("nats_url"),
		RequestsPerSecond: viper.GetFloat64("requests_per_second"),
	}

	if config.Output == "" {
		config.Output = constants.FormatTable
	}

	if expiresAt := viper.GetTime("token_expires_at"); !expiresAt.IsZero() {
		config.TokenExpiresAt = &expiresAt
	}

	return config
}

func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ".deezer", "config.yml"), nil
}

func saveConfigStruct(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	viper.SetConfigFile(configFile)

	return nil
}

func setConfigValue(config *Config, key, value string) error {
	setter, ok := configSetters[key]
	if !ok {
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	err := setter(config, value)
	if err != nil {
		return err
	}

	viper.Set(key, value)

	return nil
}

func configKeys() []string {
	keys := make([]string, 0, len(configSetters))
	for key := range configSetters {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

func parseBoolValue(value string) bool {
	parsed, err := strconv.ParseBool(value)

	return err == nil && parsed
}

func (c *Config) masked() *Config {
	out := *c
	out.Token = maskSecret(c.Token)
	out.AppSecret = maskSecret(c.AppSecret)

	return &out
}

func maskSecret(value string) string {
	if value == "" {
		return ""
	}

	return constants.MaskedSecret
}

func displayConfigTable(cmd *cobra.Command, config *Config) error {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header("Property", "Value")

	_ = table.Append([]string{"API", formatConfigValue(config.API)})
	_ = table.Append([]string{"Token", formatConfigValue(config.Token)})

	if config.TokenExpiresAt != nil {
		_ = table.Append([]string{"Token Expires", config.TokenExpiresAt.Format(time.RFC3339)})
	}

	_ = table.Append([]string{"App ID", formatConfigValue(config.AppID)})
	_ = table.Append([]string{"App Secret", formatConfigValue(config.AppSecret)})
	_ = table.Append([]string{"Output", config.Output})
	_ = table.Append([]string{"No Color", strconv.FormatBool(config.NoColor)})
	_ = table.Append([]string{"Cache", formatConfigValue(config.Cache)})

	if config.RedisAddr != "" {
		_ = table.Append([]string{"Redis Address", config.RedisAddr})
	}

	if config.NATSURL != "" {
		_ = table.Append([]string{"NATS URL", config.NATSURL})
	}

	if config.RequestsPerSecond > 0 {
		_ = table.Append([]string{"Requests/Second", strconv.FormatFloat(config.RequestsPerSecond, 'f', -1, 64)})
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func formatConfigValue(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}
