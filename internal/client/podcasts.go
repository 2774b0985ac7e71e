package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/deezer/pkg/deezer"
)

// PodcastsClient implements deezer.PodcastsClient.
type PodcastsClient struct {
	api *api
}

func newPodcastsClient(a *api) *PodcastsClient {
	return &PodcastsClient{api: a}
}

// Get implements deezer.PodcastsClient.Get.
func (c *PodcastsClient) Get(ctx context.Context, id int64) (*deezer.Podcast, error) {
	path := fmt.Sprintf("/podcast/%d", id)

	err := requireID("podcast", id, path)
	if err != nil {
		return nil, err
	}

	podcast, err := getRecord(ctx, c.api, path, nil, (*wirePodcast).record)
	if err != nil {
		return nil, fmt.Errorf("getting podcast: %w", err)
	}

	return podcast, nil
}

// Episodes implements deezer.PodcastsClient.Episodes.
func (c *PodcastsClient) Episodes(id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Episode] {
	path := fmt.Sprintf("/podcast/%d/episodes", id)

	err := requireID("podcast", id, path)
	if err != nil {
		return deezer.NewFailedPager[deezer.Episode](err)
	}

	return pager(c.api, path, params, (*wireEpisode).record)
}
