package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/deezer/pkg/deezer"
)

// UsersClient implements deezer.UsersClient.
type UsersClient struct {
	api *api
}

func newUsersClient(a *api) *UsersClient {
	return &UsersClient{api: a}
}

// Get implements deezer.UsersClient.Get.
func (c *UsersClient) Get(ctx context.Context, id int64) (*deezer.User, error) {
	path := fmt.Sprintf("/user/%d", id)

	err := requireID("user", id, path)
	if err != nil {
		return nil, err
	}

	user, err := getRecord(ctx, c.api, path, nil, (*wireUser).record)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	return user, nil
}

// Me implements deezer.UsersClient.Me. It needs an access token and is never cached.
func (c *UsersClient) Me(ctx context.Context) (*deezer.User, error) {
	user, err := getRecord(ctx, c.api, "/user/me", nil, (*wireUser).record)
	if err != nil {
		return nil, fmt.Errorf("getting current user: %w", err)
	}

	return user, nil
}

// Playlists implements deezer.UsersClient.Playlists.
func (c *UsersClient) Playlists(id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Playlist] {
	return userPager(c, id, "playlists", params, (*wirePlaylist).record)
}

// Artists implements deezer.UsersClient.Artists. These are the user's favorite artists.
func (c *UsersClient) Artists(id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Artist] {
	return userPager(c, id, "artists", params, (*wireArtist).record)
}

// Albums implements deezer.UsersClient.Albums.
func (c *UsersClient) Albums(id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Album] {
	return userPager(c, id, "albums", params, (*wireAlbum).record)
}

// Tracks implements deezer.UsersClient.Tracks.
func (c *UsersClient) Tracks(id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Track] {
	return userPager(c, id, "tracks", params, (*wireTrack).record)
}

// Followings implements deezer.UsersClient.Followings.
func (c *UsersClient) Followings(id int64, params *deezer.QueryParams) *deezer.Pager[deezer.User] {
	return userPager(c, id, "followings", params, (*wireUser).record)
}

// Followers implements deezer.UsersClient.Followers.
func (c *UsersClient) Followers(id int64, params *deezer.QueryParams) *deezer.Pager[deezer.User] {
	return userPager(c, id, "followers", params, (*wireUser).record)
}

func userPager[W, R any](c *UsersClient, id int64, connection string, params *deezer.QueryParams, convert func(*W) *R) *deezer.Pager[R] {
	path := fmt.Sprintf("/user/%d/%s", id, connection)

	err := requireID("user", id, path)
	if err != nil {
		return deezer.NewFailedPager[R](err)
	}

	return pager(c.api, path, params, convert)
}
