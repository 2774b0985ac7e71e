package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/deezer/pkg/deezer"
)

// NewTrackCommand creates the track command.
func NewTrackCommand() *cobra.Command {
	return createGetCommand(GetConfig[deezer.Track]{
		Use:   "track TRACK_ID",
		Short: "Get track details",
		Long:  "Display detailed information about a specific track",
		Get: func(ctx context.Context, client deezer.Client, id int64) (*deezer.Track, error) {
			return client.Tracks().Get(ctx, id)
		},
		Detail: trackDetail,
	})
}

// NewAlbumCommand creates the album command group.
func NewAlbumCommand() *cobra.Command {
	cmd := createGetCommand(GetConfig[deezer.Album]{
		Use:   "album ALBUM_ID",
		Short: "Get album details",
		Long:  "Display detailed information about a specific album, or list its tracks and fans",
		Get: func(ctx context.Context, client deezer.Client, id int64) (*deezer.Album, error) {
			return client.Albums().Get(ctx, id)
		},
		Detail: albumDetail,
	})

	cmd.AddCommand(createListCommand(ListConfig[deezer.Track]{
		Use:   "tracks ALBUM_ID",
		Short: "List album tracks",
		List: func(client deezer.Client, id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Track] {
			return client.Albums().Tracks(id, params)
		},
		View: trackColumns,
	}))
	cmd.AddCommand(createListCommand(ListConfig[deezer.User]{
		Use:   "fans ALBUM_ID",
		Short: "List album fans",
		List: func(client deezer.Client, id int64, params *deezer.QueryParams) *deezer.Pager[deezer.User] {
			return client.Albums().Fans(id, params)
		},
		View: userColumns,
	}))

	return cmd
}

// NewArtistCommand creates the artist command group.
func NewArtistCommand() *cobra.Command {
	cmd := createGetCommand(GetConfig[deezer.Artist]{
		Use:   "artist ARTIST_ID",
		Short: "Get artist details",
		Long:  "Display detailed information about a specific artist, or list its top tracks, albums and related artists",
		Get: func(ctx context.Context, client deezer.Client, id int64) (*deezer.Artist, error) {
			return client.Artists().Get(ctx, id)
		},
		Detail: artistDetail,
	})

	cmd.AddCommand(createListCommand(ListConfig[deezer.Track]{
		Use:   "top ARTIST_ID",
		Short: "List the artist's top tracks",
		List: func(client deezer.Client, id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Track] {
			return client.Artists().Top(id, params)
		},
		View: trackColumns,
	}))
	cmd.AddCommand(createListCommand(ListConfig[deezer.Album]{
		Use:   "albums ARTIST_ID",
		Short: "List the artist's albums",
		List: func(client deezer.Client, id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Album] {
			return client.Artists().Albums(id, params)
		},
		View: albumColumns,
	}))
	cmd.AddCommand(createListCommand(ListConfig[deezer.Artist]{
		Use:   "related ARTIST_ID",
		Short: "List related artists",
		List: func(client deezer.Client, id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Artist] {
			return client.Artists().Related(id, params)
		},
		View: artistColumns,
	}))
	cmd.AddCommand(createListCommand(ListConfig[deezer.Playlist]{
		Use:   "playlists ARTIST_ID",
		Short: "List playlists featuring the artist",
		List: func(client deezer.Client, id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Playlist] {
			return client.Artists().Playlists(id, params)
		},
		View: playlistColumns,
	}))
	cmd.AddCommand(createListCommand(ListConfig[deezer.Track]{
		Use:   "radio ARTIST_ID",
		Short: "List the artist's radio tracks",
		List: func(client deezer.Client, id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Track] {
			return client.Artists().Radio(id, params)
		},
		View: trackColumns,
	}))

	return cmd
}

// NewPlaylistCommand creates the playlist command group.
func NewPlaylistCommand() *cobra.Command {
	cmd := createGetCommand(GetConfig[deezer.Playlist]{
		Use:   "playlist PLAYLIST_ID",
		Short: "Get playlist details",
		Long:  "Display detailed information about a specific playlist, or list its tracks and fans",
		Get: func(ctx context.Context, client deezer.Client, id int64) (*deezer.Playlist, error) {
			return client.Playlists().Get(ctx, id)
		},
		Detail: playlistDetail,
	})

	cmd.AddCommand(createListCommand(ListConfig[deezer.Track]{
		Use:   "tracks PLAYLIST_ID",
		Short: "List playlist tracks",
		List: func(client deezer.Client, id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Track] {
			return client.Playlists().Tracks(id, params)
		},
		View: trackColumns,
	}))
	cmd.AddCommand(createListCommand(ListConfig[deezer.User]{
		Use:   "fans PLAYLIST_ID",
		Short: "List playlist fans",
		List: func(client deezer.Client, id int64, params *deezer.QueryParams) *deezer.Pager[deezer.User] {
			return client.Playlists().Fans(id, params)
		},
		View: userColumns,
	}))

	return cmd
}
