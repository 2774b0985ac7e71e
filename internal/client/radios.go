package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/deezer/pkg/deezer"
)

// RadiosClient implements deezer.RadiosClient.
type RadiosClient struct {
	api *api
}

func newRadiosClient(a *api) *RadiosClient {
	return &RadiosClient{api: a}
}

// Get implements deezer.RadiosClient.Get.
func (c *RadiosClient) Get(ctx context.Context, id int64) (*deezer.Radio, error) {
	path := fmt.Sprintf("/radio/%d", id)

	err := requireID("radio", id, path)
	if err != nil {
		return nil, err
	}

	radio, err := getRecord(ctx, c.api, path, nil, (*wireRadio).record)
	if err != nil {
		return nil, fmt.Errorf("getting radio: %w", err)
	}

	return radio, nil
}

// List implements deezer.RadiosClient.List.
func (c *RadiosClient) List(params *deezer.QueryParams) *deezer.Pager[deezer.Radio] {
	return pager(c.api, "/radio", params, (*wireRadio).record)
}

// Top implements deezer.RadiosClient.Top.
func (c *RadiosClient) Top(params *deezer.QueryParams) *deezer.Pager[deezer.Radio] {
	return pager(c.api, "/radio/top", params, (*wireRadio).record)
}

// Tracks implements deezer.RadiosClient.Tracks.
func (c *RadiosClient) Tracks(id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Track] {
	path := fmt.Sprintf("/radio/%d/tracks", id)

	err := requireID("radio", id, path)
	if err != nil {
		return deezer.NewFailedPager[deezer.Track](err)
	}

	return pager(c.api, path, params, (*wireTrack).record)
}
