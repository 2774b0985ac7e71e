package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/deezer/pkg/deezer"
)

// EditorialsClient implements deezer.EditorialsClient. Editorial 0 is "All".
type EditorialsClient struct {
	api *api
}

func newEditorialsClient(a *api) *EditorialsClient {
	return &EditorialsClient{api: a}
}

// Get implements deezer.EditorialsClient.Get.
func (c *EditorialsClient) Get(ctx context.Context, id int64) (*deezer.Editorial, error) {
	editorial, err := getRecord(ctx, c.api, fmt.Sprintf("/editorial/%d", id), nil, (*wireGenre).editorial)
	if err != nil {
		return nil, fmt.Errorf("getting editorial: %w", err)
	}

	return editorial, nil
}

// List implements deezer.EditorialsClient.List.
func (c *EditorialsClient) List(params *deezer.QueryParams) *deezer.Pager[deezer.Editorial] {
	return pager(c.api, "/editorial", params, (*wireGenre).editorial)
}

// Releases implements deezer.EditorialsClient.Releases.
func (c *EditorialsClient) Releases(id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Album] {
	return pager(c.api, fmt.Sprintf("/editorial/%d/releases", id), params, (*wireAlbum).record)
}
