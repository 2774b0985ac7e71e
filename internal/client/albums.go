package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/deezer/pkg/deezer"
)

// AlbumsClient implements deezer.AlbumsClient.
type AlbumsClient struct {
	api *api
}

func newAlbumsClient(a *api) *AlbumsClient {
	return &AlbumsClient{api: a}
}

// Get implements deezer.AlbumsClient.Get.
func (c *AlbumsClient) Get(ctx context.Context, id int64) (*deezer.Album, error) {
	path := fmt.Sprintf("/album/%d", id)

	err := requireID("album", id, path)
	if err != nil {
		return nil, err
	}

	album, err := getRecord(ctx, c.api, path, nil, (*wireAlbum).record)
	if err != nil {
		return nil, fmt.Errorf("getting album: %w", err)
	}

	return album, nil
}

// Tracks implements deezer.AlbumsClient.Tracks.
func (c *AlbumsClient) Tracks(id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Track] {
	path := fmt.Sprintf("/album/%d/tracks", id)

	err := requireID("album", id, path)
	if err != nil {
		return deezer.NewFailedPager[deezer.Track](err)
	}

	return pager(c.api, path, params, (*wireTrack).record)
}

// Fans implements deezer.AlbumsClient.Fans.
func (c *AlbumsClient) Fans(id int64, params *deezer.QueryParams) *deezer.Pager[deezer.User] {
	path := fmt.Sprintf("/album/%d/fans", id)

	err := requireID("album", id, path)
	if err != nil {
		return deezer.NewFailedPager[deezer.User](err)
	}

	return pager(c.api, path, params, (*wireUser).record)
}
