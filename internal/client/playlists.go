package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/deezer/pkg/deezer"
)

// PlaylistsClient implements deezer.PlaylistsClient.
type PlaylistsClient struct {
	api *api
}

func newPlaylistsClient(a *api) *PlaylistsClient {
	return &PlaylistsClient{api: a}
}

// Get implements deezer.PlaylistsClient.Get.
func (c *PlaylistsClient) Get(ctx context.Context, id int64) (*deezer.Playlist, error) {
	path := fmt.Sprintf("/playlist/%d", id)

	err := requireID("playlist", id, path)
	if err != nil {
		return nil, err
	}

	playlist, err := getRecord(ctx, c.api, path, nil, (*wirePlaylist).record)
	if err != nil {
		return nil, fmt.Errorf("getting playlist: %w", err)
	}

	return playlist, nil
}

// Tracks implements deezer.PlaylistsClient.Tracks.
func (c *PlaylistsClient) Tracks(id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Track] {
	path := fmt.Sprintf("/playlist/%d/tracks", id)

	err := requireID("playlist", id, path)
	if err != nil {
		return deezer.NewFailedPager[deezer.Track](err)
	}

	return pager(c.api, path, params, (*wireTrack).record)
}

// Fans implements deezer.PlaylistsClient.Fans.
func (c *PlaylistsClient) Fans(id int64, params *deezer.QueryParams) *deezer.Pager[deezer.User] {
	path := fmt.Sprintf("/playlist/%d/fans", id)

	err := requireID("playlist", id, path)
	if err != nil {
		return deezer.NewFailedPager[deezer.User](err)
	}

	return pager(c.api, path, params, (*wireUser).record)
}
