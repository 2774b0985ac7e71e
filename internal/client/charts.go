package client

import (
	"context"
	"fmt"
	nethttp "net/http"

	"github.com/fivetwenty-io/deezer/pkg/deezer"
)

// ChartsClient implements deezer.ChartsClient.
type ChartsClient struct {
	api *api
}

func newChartsClient(a *api) *ChartsClient {
	return &ChartsClient{api: a}
}

// Get implements deezer.ChartsClient.Get. Genre 0 is the chart of all genres.
func (c *ChartsClient) Get(ctx context.Context, genreID int64) (*deezer.Chart, error) {
	path := fmt.Sprintf("/chart/%d", genreID)

	var chart *deezer.Chart

	err := c.api.fetch(ctx, path, nil, func(body []byte) error {
		decoded, err := decodeChart(nethttp.MethodGet, path, genreID, body)
		if err != nil {
			return err
		}

		chart = decoded

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("getting chart: %w", err)
	}

	return chart, nil
}

// Tracks implements deezer.ChartsClient.Tracks.
func (c *ChartsClient) Tracks(genreID int64, params *deezer.QueryParams) *deezer.Pager[deezer.Track] {
	return pager(c.api, chartPath(genreID, "tracks"), params, (*wireTrack).record)
}

// Albums implements deezer.ChartsClient.Albums.
func (c *ChartsClient) Albums(genreID int64, params *deezer.QueryParams) *deezer.Pager[deezer.Album] {
	return pager(c.api, chartPath(genreID, "albums"), params, (*wireAlbum).record)
}

// Artists implements deezer.ChartsClient.Artists.
func (c *ChartsClient) Artists(genreID int64, params *deezer.QueryParams) *deezer.Pager[deezer.Artist] {
	return pager(c.api, chartPath(genreID, "artists"), params, (*wireArtist).record)
}

// Playlists implements deezer.ChartsClient.Playlists.
func (c *ChartsClient) Playlists(genreID int64, params *deezer.QueryParams) *deezer.Pager[deezer.Playlist] {
	return pager(c.api, chartPath(genreID, "playlists"), params, (*wirePlaylist).record)
}

// Podcasts implements deezer.ChartsClient.Podcasts.
func (c *ChartsClient) Podcasts(genreID int64, params *deezer.QueryParams) *deezer.Pager[deezer.Podcast] {
	return pager(c.api, chartPath(genreID, "podcasts"), params, (*wirePodcast).record)
}

func chartPath(genreID int64, section string) string {
	return fmt.Sprintf("/chart/%d/%s", genreID, section)
}
