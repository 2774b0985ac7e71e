package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/deezer/pkg/deezer"
)

// TracksClient implements deezer.TracksClient.
type TracksClient struct {
	api *api
}

func newTracksClient(a *api) *TracksClient {
	return &TracksClient{api: a}
}

// Get implements deezer.TracksClient.Get.
func (c *TracksClient) Get(ctx context.Context, id int64) (*deezer.Track, error) {
	path := fmt.Sprintf("/track/%d", id)

	err := requireID("track", id, path)
	if err != nil {
		return nil, err
	}

	track, err := getRecord(ctx, c.api, path, nil, (*wireTrack).record)
	if err != nil {
		return nil, fmt.Errorf("getting track: %w", err)
	}

	return track, nil
}
