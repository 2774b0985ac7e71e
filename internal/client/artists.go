package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/deezer/pkg/deezer"
)

// ArtistsClient implements deezer.ArtistsClient.
type ArtistsClient struct {
	api *api
}

func newArtistsClient(a *api) *ArtistsClient {
	return &ArtistsClient{api: a}
}

// Get implements deezer.ArtistsClient.Get.
func (c *ArtistsClient) Get(ctx context.Context, id int64) (*deezer.Artist, error) {
	path := fmt.Sprintf("/artist/%d", id)

	err := requireID("artist", id, path)
	if err != nil {
		return nil, err
	}

	artist, err := getRecord(ctx, c.api, path, nil, (*wireArtist).record)
	if err != nil {
		return nil, fmt.Errorf("getting artist: %w", err)
	}

	return artist, nil
}

// Top implements deezer.ArtistsClient.Top.
func (c *ArtistsClient) Top(id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Track] {
	return artistPager(c, id, "top", params, (*wireTrack).record)
}

// Albums implements deezer.ArtistsClient.Albums.
func (c *ArtistsClient) Albums(id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Album] {
	return artistPager(c, id, "albums", params, (*wireAlbum).record)
}

// Related implements deezer.ArtistsClient.Related.
func (c *ArtistsClient) Related(id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Artist] {
	return artistPager(c, id, "related", params, (*wireArtist).record)
}

// Playlists implements deezer.ArtistsClient.Playlists.
func (c *ArtistsClient) Playlists(id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Playlist] {
	return artistPager(c, id, "playlists", params, (*wirePlaylist).record)
}

// Radio implements deezer.ArtistsClient.Radio.
func (c *ArtistsClient) Radio(id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Track] {
	return artistPager(c, id, "radio", params, (*wireTrack).record)
}

func artistPager[W, R any](c *ArtistsClient, id int64, connection string, params *deezer.QueryParams, convert func(*W) *R) *deezer.Pager[R] {
	path := fmt.Sprintf("/artist/%d/%s", id, connection)

	err := requireID("artist", id, path)
	if err != nil {
		return deezer.NewFailedPager[R](err)
	}

	return pager(c.api, path, params, convert)
}
