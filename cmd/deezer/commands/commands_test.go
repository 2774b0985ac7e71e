package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCommands(t *testing.T) {
	t.Parallel()

	root := &cobra.Command{Use: "deezer"}
	AddCommands(root, "1.0.0", "abc123", "2026-10-19")

	expected := []string{
		"version", "config", "login", "logout", "infos", "search",
		"track", "album", "artist", "playlist", "genre", "radio",
		"user", "editorial", "podcast", "chart",
	}

	for _, name := range expected {
		assert.NotNil(t, findSubcommand(root, name), "command %s should be registered", name)
	}
}

func TestResourceCommands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		cmd         *cobra.Command
		use         string
		subcommands []string
	}{
		{name: "track", cmd: NewTrackCommand(), use: "track TRACK_ID"},
		{name: "album", cmd: NewAlbumCommand(), use: "album ALBUM_ID", subcommands: []string{"tracks", "fans"}},
		{name: "artist", cmd: NewArtistCommand(), use: "artist ARTIST_ID", subcommands: []string{"top", "albums", "related", "playlists", "radio"}},
		{name: "playlist", cmd: NewPlaylistCommand(), use: "playlist PLAYLIST_ID", subcommands: []string{"tracks", "fans"}},
		{name: "genre", cmd: NewGenreCommand(), use: "genre GENRE_ID", subcommands: []string{"list", "artists", "radios"}},
		{name: "radio", cmd: NewRadioCommand(), use: "radio RADIO_ID", subcommands: []string{"list", "top", "tracks"}},
		{name: "user", cmd: NewUserCommand(), use: "user USER_ID", subcommands: []string{"me", "playlists", "artists", "albums", "tracks", "followings", "followers"}},
		{name: "editorial", cmd: NewEditorialCommand(), use: "editorial EDITORIAL_ID", subcommands: []string{"list", "releases"}},
		{name: "podcast", cmd: NewPodcastCommand(), use: "podcast PODCAST_ID", subcommands: []string{"episodes"}},
		{name: "chart", cmd: NewChartCommand(), use: "chart [GENRE_ID]", subcommands: []string{"tracks", "albums", "artists", "playlists", "podcasts"}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.use, testCase.cmd.Use)
			assert.NotEmpty(t, testCase.cmd.Short)
			assert.NotNil(t, testCase.cmd.RunE)
			assert.NotNil(t, testCase.cmd.Args)
			assert.Len(t, testCase.cmd.Commands(), len(testCase.subcommands))

			for _, name := range testCase.subcommands {
				sub := findSubcommand(testCase.cmd, name)
				require.NotNil(t, sub, "subcommand %s should exist", name)
				assert.NotNil(t, sub.RunE)

				if sub.Name() != "me" {
					assert.NotNil(t, sub.Flags().Lookup("limit"), "%s should have --limit", name)
					assert.NotNil(t, sub.Flags().Lookup("all"), "%s should have --all", name)
				}
			}
		})
	}
}

func TestNewSearchCommand(t *testing.T) {
	t.Parallel()

	cmd := NewSearchCommand()
	assert.Equal(t, "search [QUERY...]", cmd.Use)
	assert.Equal(t, "Search the catalog", cmd.Short)
	assert.NotNil(t, cmd.RunE)

	flags := []string{"artist", "album", "track", "label", "dur-min", "dur-max", "bpm-min", "bpm-max", "strict", "order", "type", "limit", "where"}
	for _, flagName := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flagName), "Flag %s should exist", flagName)
	}

	assert.Equal(t, "track", cmd.Flags().Lookup("type").DefValue)
	assert.Equal(t, "25", cmd.Flags().Lookup("limit").DefValue)
}

func TestNewConfigCommand(t *testing.T) {
	t.Parallel()

	cmd := NewConfigCommand()
	assert.Equal(t, "config", cmd.Use)

	for _, name := range []string{"show", "set", "unset", "set-token"} {
		assert.NotNil(t, findSubcommand(cmd, name), "subcommand %s should exist", name)
	}
}

func TestNewLoginCommand(t *testing.T) {
	t.Parallel()

	cmd := NewLoginCommand()
	assert.Equal(t, "login", cmd.Use)

	for _, flagName := range []string{"app-id", "app-secret", "code", "redirect-uri", "perms", "token-url"} {
		assert.NotNil(t, cmd.Flags().Lookup(flagName), "Flag %s should exist", flagName)
	}

	assert.True(t, cmd.Flags().Lookup("token-url").Hidden)
}
