package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/deezer/pkg/deezer"
)

// SearchClient implements deezer.SearchClient.
type SearchClient struct {
	api *api
}

func newSearchClient(a *api) *SearchClient {
	return &SearchClient{api: a}
}

// Run implements deezer.SearchClient.Run.
func (c *SearchClient) Run(ctx context.Context, opts *deezer.SearchOptions) (*deezer.SearchResult, error) {
	err := checkSearch(opts, "/search")
	if err != nil {
		return nil, err
	}

	params := opts.ToQueryParams()

	page, err := listPage(ctx, c.api, "/search", params.ToValues(), (*wireTrack).record)
	if err != nil {
		return nil, fmt.Errorf("searching tracks: %w", err)
	}

	return &deezer.SearchResult{
		Query:  params.Query,
		Total:  page.Total,
		Next:   page.Next,
		Tracks: page.Data,
	}, nil
}

// Query implements deezer.SearchClient.Query.
func (c *SearchClient) Query(ctx context.Context, query string) (*deezer.SearchResult, error) {
	return c.Run(ctx, deezer.NewSearchOptions(query))
}

// Tracks implements deezer.SearchClient.Tracks.
func (c *SearchClient) Tracks(opts *deezer.SearchOptions) *deezer.Pager[deezer.Track] {
	return searchPager(c, "/search", opts, (*wireTrack).record)
}

// Albums implements deezer.SearchClient.Albums.
func (c *SearchClient) Albums(opts *deezer.SearchOptions) *deezer.Pager[deezer.Album] {
	return searchPager(c, "/search/album", opts, (*wireAlbum).record)
}

// Artists implements deezer.SearchClient.Artists.
func (c *SearchClient) Artists(opts *deezer.SearchOptions) *deezer.Pager[deezer.Artist] {
	return searchPager(c, "/search/artist", opts, (*wireArtist).record)
}

// Playlists implements deezer.SearchClient.Playlists.
func (c *SearchClient) Playlists(opts *deezer.SearchOptions) *deezer.Pager[deezer.Playlist] {
	return searchPager(c, "/search/playlist", opts, (*wirePlaylist).record)
}

// Radios implements deezer.SearchClient.Radios.
func (c *SearchClient) Radios(opts *deezer.SearchOptions) *deezer.Pager[deezer.Radio] {
	return searchPager(c, "/search/radio", opts, (*wireRadio).record)
}

// Users implements deezer.SearchClient.Users.
func (c *SearchClient) Users(opts *deezer.SearchOptions) *deezer.Pager[deezer.User] {
	return searchPager(c, "/search/user", opts, (*wireUser).record)
}

// Podcasts implements deezer.SearchClient.Podcasts.
func (c *SearchClient) Podcasts(opts *deezer.SearchOptions) *deezer.Pager[deezer.Podcast] {
	return searchPager(c, "/search/podcast", opts, (*wirePodcast).record)
}

func searchPager[W, R any](c *SearchClient, path string, opts *deezer.SearchOptions, convert func(*W) *R) *deezer.Pager[R] {
	err := checkSearch(opts, path)
	if err != nil {
		return deezer.NewFailedPager[R](err)
	}

	return pager(c.api, path, opts.ToQueryParams(), convert)
}

func checkSearch(opts *deezer.SearchOptions, path string) error {
	if opts == nil {
		return invalidRequest(path, deezer.ErrEmptySearch)
	}

	err := opts.Validate()
	if err != nil {
		return invalidRequest(path, err)
	}

	return nil
}
