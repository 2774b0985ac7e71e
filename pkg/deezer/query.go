package deezer

import (
	"fmt"
	"maps"
	"net/url"
	"strconv"
	"strings"
)

// QueryParams represents query parameters for list and search requests.
type QueryParams struct {
	Index   int
	Limit   int
	Query   string
	Strict  bool
	Order   SearchOrder
	Filters map[string]string
}

// NewQueryParams creates new query parameters.
func NewQueryParams() *QueryParams {
	return &QueryParams{
		Filters: make(map[string]string),
	}
}

// WithIndex sets the offset of the first returned item.
func (q *QueryParams) WithIndex(index int) *QueryParams {
	q.Index = index

	return q
}

// WithLimit sets the page size.
func (q *QueryParams) WithLimit(limit int) *QueryParams {
	q.Limit = limit

	return q
}

// WithQuery sets the search query.
func (q *QueryParams) WithQuery(query string) *QueryParams {
	q.Query = query

	return q
}

// WithStrict disables fuzzy matching.
func (q *QueryParams) WithStrict(strict bool) *QueryParams {
	q.Strict = strict

	return q
}

// WithOrder sets the search sort order.
func (q *QueryParams) WithOrder(order SearchOrder) *QueryParams {
	q.Order = order

	return q
}

// WithFilter adds an arbitrary query parameter.
func (q *QueryParams) WithFilter(key, value string) *QueryParams {
	if q.Filters == nil {
		q.Filters = make(map[string]string)
	}

	q.Filters[key] = value

	return q
}

// Clone returns a deep copy, so pages never share mutable state.
func (q *QueryParams) Clone() *QueryParams {
	if q == nil {
		return NewQueryParams()
	}

	clone := *q
	clone.Filters = make(map[string]string, len(q.Filters))
	maps.Copy(clone.Filters, q.Filters)

	return &clone
}

// ToValues converts query parameters to URL values.
func (q *QueryParams) ToValues() url.Values {
	values := url.Values{}
	if q == nil {
		return values
	}

	for key, value := range q.Filters {
		values.Set(key, value)
	}

	if q.Query != "" {
		values.Set("q", q.Query)
	}

	if q.Index > 0 {
		values.Set("index", strconv.Itoa(q.Index))
	}

	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}

	if q.Strict {
		values.Set("strict", "on")
	}

	if q.Order != "" {
		values.Set("order", string(q.Order))
	}

	return values
}

// SearchOrder is a Deezer search sort order.
type SearchOrder string

// Search orders accepted by Deezer.
const (
	OrderRanking      SearchOrder = "RANKING"
	OrderTrackAsc     SearchOrder = "TRACK_ASC"
	OrderTrackDesc    SearchOrder = "TRACK_DESC"
	OrderArtistAsc    SearchOrder = "ARTIST_ASC"
	OrderArtistDesc   SearchOrder = "ARTIST_DESC"
	OrderAlbumAsc     SearchOrder = "ALBUM_ASC"
	OrderAlbumDesc    SearchOrder = "ALBUM_DESC"
	OrderRatingAsc    SearchOrder = "RATING_ASC"
	OrderRatingDesc   SearchOrder = "RATING_DESC"
	OrderDurationAsc  SearchOrder = "DURATION_ASC"
	OrderDurationDesc SearchOrder = "DURATION_DESC"
)

// ParseSearchOrder validates a user supplied order, case-insensitively.
func ParseSearchOrder(raw string) (SearchOrder, error) {
	if raw == "" {
		return "", nil
	}

	order := SearchOrder(strings.ToUpper(raw))
	switch order {
	case OrderRanking, OrderTrackAsc, OrderTrackDesc, OrderArtistAsc, OrderArtistDesc,
		OrderAlbumAsc, OrderAlbumDesc, OrderRatingAsc, OrderRatingDesc,
		OrderDurationAsc, OrderDurationDesc:
		return order, nil
	default:
		return "", fmt.Errorf("%w: unknown search order %q", ErrInvalidRequest, raw)
	}
}

// SearchOptions describes a Deezer search, including the advanced filters
// Deezer accepts inside the q parameter. Zero numeric filters are unset.
type SearchOptions struct {
	Query       string
	Strict      bool
	Order       SearchOrder
	Artist      string
	Album       string
	Track       string
	Label       string
	DurationMin int
	DurationMax int
	BPMMin      int
	BPMMax      int
	Index       int
	Limit       int
}

// NewSearchOptions creates search options for a free text query.
func NewSearchOptions(query string) *SearchOptions {
	return &SearchOptions{Query: query}
}

// WithArtist filters by artist name.
func (o *SearchOptions) WithArtist(artist string) *SearchOptions {
	o.Artist = artist

	return o
}

// WithAlbum filters by album title.
func (o *SearchOptions) WithAlbum(album string) *SearchOptions {
	o.Album = album

	return o
}

// WithTrack filters by track title.
func (o *SearchOptions) WithTrack(track string) *SearchOptions {
	o.Track = track

	return o
}

// WithLabel filters by label name.
func (o *SearchOptions) WithLabel(label string) *SearchOptions {
	o.Label = label

	return o
}

// WithDuration filters by track duration in seconds.
func (o *SearchOptions) WithDuration(minSeconds, maxSeconds int) *SearchOptions {
	o.DurationMin = minSeconds
	o.DurationMax = maxSeconds

	return o
}

// WithBPM filters by beats per minute.
func (o *SearchOptions) WithBPM(minBPM, maxBPM int) *SearchOptions {
	o.BPMMin = minBPM
	o.BPMMax = maxBPM

	return o
}

// WithStrict disables fuzzy matching.
func (o *SearchOptions) WithStrict(strict bool) *SearchOptions {
	o.Strict = strict

	return o
}

// WithOrder sets the sort order.
func (o *SearchOptions) WithOrder(order SearchOrder) *SearchOptions {
	o.Order = order

	return o
}

// WithLimit sets the page size.
func (o *SearchOptions) WithLimit(limit int) *SearchOptions {
	o.Limit = limit

	return o
}

// HasAdvancedOptions reports whether any field filter is set.
func (o *SearchOptions) HasAdvancedOptions() bool {
	return o.Artist != "" || o.Album != "" || o.Track != "" || o.Label != "" ||
		o.DurationMin > 0 || o.DurationMax > 0 || o.BPMMin > 0 || o.BPMMax > 0
}

// Validate checks that the options describe a searchable query.
func (o *SearchOptions) Validate() error {
	if strings.TrimSpace(o.Query) == "" && !o.HasAdvancedOptions() {
		return ErrEmptySearch
	}

	if o.DurationMin > 0 && o.DurationMax > 0 && o.DurationMin > o.DurationMax {
		return ErrInvalidDurationFilter
	}

	if o.BPMMin > 0 && o.BPMMax > 0 && o.BPMMin > o.BPMMax {
		return ErrInvalidBPMFilter
	}

	return nil
}

// BuildQueryString renders the q parameter. A plain query without filters is
// returned untouched; otherwise filters follow the query as field:"value" terms.
func (o *SearchOptions) BuildQueryString() string {
	if !o.HasAdvancedOptions() {
		return o.Query
	}

	var terms []string

	if o.Query != "" {
		terms = append(terms, o.Query)
	}

	quoted := []struct {
		key   string
		value string
	}{
		{"artist", o.Artist},
		{"album", o.Album},
		{"track", o.Track},
		{"label", o.Label},
	}

	for _, term := range quoted {
		if term.value != "" {
			terms = append(terms, term.key+`:"`+strings.ReplaceAll(term.value, `"`, "")+`"`)
		}
	}

	numeric := []struct {
		key   string
		value int
	}{
		{"dur_min", o.DurationMin},
		{"dur_max", o.DurationMax},
		{"bpm_min", o.BPMMin},
		{"bpm_max", o.BPMMax},
	}

	for _, term := range numeric {
		if term.value > 0 {
			terms = append(terms, term.key+":"+strconv.Itoa(term.value))
		}
	}

	return strings.TrimSpace(strings.Join(terms, " "))
}

// ToQueryParams converts the options into list query parameters.
func (o *SearchOptions) ToQueryParams() *QueryParams {
	return NewQueryParams().
		WithQuery(o.BuildQueryString()).
		WithStrict(o.Strict).
		WithOrder(o.Order).
		WithIndex(o.Index).
		WithLimit(o.Limit)
}
