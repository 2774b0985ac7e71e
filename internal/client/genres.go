package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/deezer/pkg/deezer"
)

// GenresClient implements deezer.GenresClient. Genre 0 is "All".
type GenresClient struct {
	api *api
}

func newGenresClient(a *api) *GenresClient {
	return &GenresClient{api: a}
}

// Get implements deezer.GenresClient.Get.
func (c *GenresClient) Get(ctx context.Context, id int64) (*deezer.Genre, error) {
	genre, err := getRecord(ctx, c.api, fmt.Sprintf("/genre/%d", id), nil, (*wireGenre).record)
	if err != nil {
		return nil, fmt.Errorf("getting genre: %w", err)
	}

	return genre, nil
}

// List implements deezer.GenresClient.List.
func (c *GenresClient) List(params *deezer.QueryParams) *deezer.Pager[deezer.Genre] {
	return pager(c.api, "/genre", params, (*wireGenre).record)
}

// Artists implements deezer.GenresClient.Artists.
func (c *GenresClient) Artists(id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Artist] {
	return pager(c.api, fmt.Sprintf("/genre/%d/artists", id), params, (*wireArtist).record)
}

// Radios implements deezer.GenresClient.Radios.
func (c *GenresClient) Radios(id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Radio] {
	return pager(c.api, fmt.Sprintf("/genre/%d/radios", id), params, (*wireRadio).record)
}
