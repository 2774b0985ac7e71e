package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/deezer/pkg/deezer"
)

// NewUserCommand creates the user command group.
func NewUserCommand() *cobra.Command {
	cmd := createGetCommand(GetConfig[deezer.User]{
		Use:   "user USER_ID",
		Short: "Get user details",
		Long:  "Display a user's public profile, or list their favourites and social graph",
		Get: func(ctx context.Context, client deezer.Client, id int64) (*deezer.User, error) {
			return client.Users().Get(ctx, id)
		},
		Detail: userDetail,
	})

	cmd.AddCommand(newUserMeCommand())
	cmd.AddCommand(createListCommand(ListConfig[deezer.Playlist]{
		Use:   "playlists USER_ID",
		Short: "List the user's playlists",
		List: func(client deezer.Client, id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Playlist] {
			return client.Users().Playlists(id, params)
		},
		View: playlistColumns,
	}))
	cmd.AddCommand(createListCommand(ListConfig[deezer.Artist]{
		Use:   "artists USER_ID",
		Short: "List the user's favourite artists",
		List: func(client deezer.Client, id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Artist] {
			return client.Users().Artists(id, params)
		},
		View: artistColumns,
	}))
	cmd.AddCommand(createListCommand(ListConfig[deezer.Album]{
		Use:   "albums USER_ID",
		Short: "List the user's favourite albums",
		List: func(client deezer.Client, id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Album] {
			return client.Users().Albums(id, params)
		},
		View: albumColumns,
	}))
	cmd.AddCommand(createListCommand(ListConfig[deezer.Track]{
		Use:   "tracks USER_ID",
		Short: "List the user's favourite tracks",
		List: func(client deezer.Client, id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Track] {
			return client.Users().Tracks(id, params)
		},
		View: trackColumns,
	}))
	cmd.AddCommand(createListCommand(ListConfig[deezer.User]{
		Use:   "followings USER_ID",
		Short: "List the users this user follows",
		List: func(client deezer.Client, id int64, params *deezer.QueryParams) *deezer.Pager[deezer.User] {
			return client.Users().Followings(id, params)
		},
		View: userColumns,
	}))
	cmd.AddCommand(createListCommand(ListConfig[deezer.User]{
		Use:   "followers USER_ID",
		Short: "List the user's followers",
		List: func(client deezer.Client, id int64, params *deezer.QueryParams) *deezer.Pager[deezer.User] {
			return client.Users().Followers(id, params)
		},
		View: userColumns,
	}))

	return cmd
}

func newUserMeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the token owner",
		Long:  "Display the profile of the user the access token belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			user, err := client.Users().Me(ctx)
			if err != nil {
				return err
			}

			return renderDetail(cmd, user, userDetail(user))
		},
	}
}
