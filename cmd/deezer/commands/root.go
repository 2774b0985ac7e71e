package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/fivetwenty-io/deezer/internal/constants"
	"github.com/fivetwenty-io/deezer/pkg/deezer"
	"github.com/fivetwenty-io/deezer/pkg/deezerclient"
)

// logger is shared by every command and handed to the library.
var logger = zerolog.Nop()

// AddCommands registers every command on root.
func AddCommands(root *cobra.Command, version, commit, date string) {
	root.AddCommand(NewVersionCommand(version, commit, date))
	root.AddCommand(NewConfigCommand())
	root.AddCommand(NewLoginCommand())
	root.AddCommand(NewLogoutCommand())
	root.AddCommand(NewInfosCommand())
	root.AddCommand(NewSearchCommand())
	root.AddCommand(NewTrackCommand())
	root.AddCommand(NewAlbumCommand())
	root.AddCommand(NewArtistCommand())
	root.AddCommand(NewPlaylistCommand())
	root.AddCommand(NewGenreCommand())
	root.AddCommand(NewRadioCommand())
	root.AddCommand(NewUserCommand())
	root.AddCommand(NewEditorialCommand())
	root.AddCommand(NewPodcastCommand())
	root.AddCommand(NewChartCommand())
}

// SetupLogger configures console logging on stderr. Verbose output also
// turns on request logging in the client. Colors are off when stderr is not
// a terminal.
func SetupLogger(verbose, noColor bool) {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    noColor || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	logger = zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// buildClientConfig maps the CLI configuration onto a client configuration.
func buildClientConfig(config *Config) (*deezer.Config, error) {
	clientConfig := &deezer.Config{
		BaseURL:           config.API,
		AccessToken:       config.Token,
		TokenInQuery:      true,
		RequestsPerSecond: config.RequestsPerSecond,
		Logger:            deezer.NewZerologLogger(logger),
		Debug:             viper.GetBool("verbose"),
	}

	cacheConfig, err := buildCacheConfig(config)
	if err != nil {
		return nil, err
	}

	clientConfig.Cache = cacheConfig

	return clientConfig, nil
}

// buildCacheConfig selects the response cache. A single CLI run gains little
// from an in-process cache, so only an explicit backend enables one.
func buildCacheConfig(config *Config) (*deezer.CacheConfig, error) {
	switch deezer.CacheType(config.Cache) {
	case "", deezer.CacheTypeNone:
		return &deezer.CacheConfig{Type: deezer.CacheTypeNone}, nil
	case deezer.CacheTypeMemory:
		return deezer.DefaultCacheConfig(), nil
	case deezer.CacheTypeRedis:
		return &deezer.CacheConfig{
			Type:  deezer.CacheTypeRedis,
			Redis: &deezer.RedisCacheConfig{Addr: config.RedisAddr},
		}, nil
	case deezer.CacheTypeNATS:
		return &deezer.CacheConfig{
			Type: deezer.CacheTypeNATS,
			NATS: &deezer.NATSKVConfig{URL: config.NATSURL},
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", deezer.ErrUnsupportedCacheType, config.Cache)
	}
}

// createClient builds a client from the effective configuration.
func createClient(ctx context.Context) (deezer.Client, error) {
	clientConfig, err := buildClientConfig(loadConfig())
	if err != nil {
		return nil, err
	}

	if clientConfig.AccessToken != "" {
		logger.Debug().Msg("Using stored access token")
	}

	client, err := deezerclient.New(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", constants.ErrInvalidID, raw)
	}

	return id, nil
}

// promptLine reads one line from the command input. It reads byte by byte so
// that consecutive prompts on a piped stdin do not lose buffered input.
func promptLine(cmd *cobra.Command, label string) (string, error) {
	_, _ = fmt.Fprint(cmd.ErrOrStderr(), label)

	var (
		line strings.Builder
		buf  [1]byte
	)

	in := cmd.InOrStdin()

	for {
		n, err := in.Read(buf[:])
		if n == 1 {
			if buf[0] == '\n' {
				break
			}

			line.WriteByte(buf[0])
		}

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
	}

	return strings.TrimSpace(line.String()), nil
}

// promptSecret reads a value without echo when stdin is a terminal.
func promptSecret(cmd *cobra.Command, label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if cmd.InOrStdin() != os.Stdin || !term.IsTerminal(fd) {
		return promptLine(cmd, label)
	}

	_, _ = fmt.Fprint(cmd.ErrOrStderr(), label)

	secret, err := term.ReadPassword(fd)

	_, _ = fmt.Fprintln(cmd.ErrOrStderr())

	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}

	return strings.TrimSpace(string(secret)), nil
}
