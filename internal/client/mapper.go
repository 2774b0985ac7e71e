package client

import (
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/deezer/pkg/deezer"
)

type validator interface {
	Validate() error
}

// validate runs the record's own checks when it has any.
func validate(record any) error {
	if v, ok := record.(validator); ok {
		return v.Validate()
	}

	return nil
}

// decodeRecord maps a single object body to a record. Unknown fields are
// ignored; malformed JSON and missing required fields are decode failures.
func decodeRecord[W, R any](method, path string, body []byte, convert func(*W) *R) (*R, error) {
	var wire W

	err := json.Unmarshal(body, &wire)
	if err != nil {
		return nil, deezer.NewDecodeError(method, path, fmt.Errorf("decoding record: %w", err))
	}

	record := convert(&wire)

	err = validate(record)
	if err != nil {
		return nil, deezer.NewDecodeError(method, path, err)
	}

	return record, nil
}

// decodeList maps one page of a paginated endpoint.
func decodeList[W, R any](method, path string, body []byte, convert func(*W) *R) (*deezer.ListResponse[R], error) {
	var wire wireList[W]

	err := json.Unmarshal(body, &wire)
	if err != nil {
		return nil, deezer.NewDecodeError(method, path, fmt.Errorf("decoding list: %w", err))
	}

	page, err := mapList(&wire, convert)
	if err != nil {
		return nil, deezer.NewDecodeError(method, path, err)
	}

	return page, nil
}

func mapList[W, R any](wire *wireList[W], convert func(*W) *R) (*deezer.ListResponse[R], error) {
	if wire == nil || wire.Data == nil {
		return nil, fmt.Errorf("%w: data", deezer.ErrMissingField)
	}

	items := *wire.Data
	page := &deezer.ListResponse[R]{
		Data:  make([]R, 0, len(items)),
		Total: wire.Total,
		Next:  wire.Next,
		Prev:  wire.Prev,
	}

	for i := range items {
		record := convert(&items[i])

		err := validate(record)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}

		page.Data = append(page.Data, *record)
	}

	return page, nil
}

// decodeChart maps the chart object, whose sections are list envelopes.
// Sections Deezer leaves out stay empty.
func decodeChart(method, path string, genreID int64, body []byte) (*deezer.Chart, error) {
	var wire wireChart

	err := json.Unmarshal(body, &wire)
	if err != nil {
		return nil, deezer.NewDecodeError(method, path, fmt.Errorf("decoding chart: %w", err))
	}

	chart := &deezer.Chart{GenreID: genreID}

	if chart.Tracks, err = chartSection(wire.Tracks, (*wireTrack).record); err != nil {
		return nil, deezer.NewDecodeError(method, path, fmt.Errorf("tracks: %w", err))
	}

	if chart.Albums, err = chartSection(wire.Albums, (*wireAlbum).record); err != nil {
		return nil, deezer.NewDecodeError(method, path, fmt.Errorf("albums: %w", err))
	}

	if chart.Artists, err = chartSection(wire.Artists, (*wireArtist).record); err != nil {
		return nil, deezer.NewDecodeError(method, path, fmt.Errorf("artists: %w", err))
	}

	if chart.Playlists, err = chartSection(wire.Playlists, (*wirePlaylist).record); err != nil {
		return nil, deezer.NewDecodeError(method, path, fmt.Errorf("playlists: %w", err))
	}

	if chart.Podcasts, err = chartSection(wire.Podcasts, (*wirePodcast).record); err != nil {
		return nil, deezer.NewDecodeError(method, path, fmt.Errorf("podcasts: %w", err))
	}

	return chart, nil
}

func chartSection[W, R any](wire *wireList[W], convert func(*W) *R) ([]R, error) {
	if wire == nil {
		return []R{}, nil
	}

	page, err := mapList(wire, convert)
	if err != nil {
		return nil, err
	}

	return page.Data, nil
}

func identity[T any](value *T) *T {
	return value
}
