package deezer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/deezer/pkg/deezer"
)

func TestQueryParams_ToValues(t *testing.T) {
	t.Parallel()

	params := deezer.NewQueryParams().
		WithQuery("daft punk").
		WithIndex(25).
		WithLimit(10).
		WithStrict(true).
		WithOrder(deezer.OrderRanking).
		WithFilter("output", "json")

	values := params.ToValues()

	assert.Equal(t, "daft punk", values.Get("q"))
	assert.Equal(t, "25", values.Get("index"))
	assert.Equal(t, "10", values.Get("limit"))
	assert.Equal(t, "on", values.Get("strict"))
	assert.Equal(t, "RANKING", values.Get("order"))
	assert.Equal(t, "json", values.Get("output"))
}

func TestQueryParams_ToValuesOmitsDefaults(t *testing.T) {
	t.Parallel()

	assert.Empty(t, deezer.NewQueryParams().ToValues())

	var nilParams *deezer.QueryParams
	assert.Empty(t, nilParams.ToValues())
}

func TestQueryParams_Clone(t *testing.T) {
	t.Parallel()

	original := deezer.NewQueryParams().WithLimit(10).WithFilter("a", "1")
	clone := original.Clone()

	clone.Limit = 50
	clone.Filters["a"] = "2"
	clone.Filters["b"] = "3"

	assert.Equal(t, 10, original.Limit)
	assert.Equal(t, map[string]string{"a": "1"}, original.Filters)

	var nilParams *deezer.QueryParams
	assert.NotNil(t, nilParams.Clone())
}

func TestQueryParams_WithFilterOnZeroValue(t *testing.T) {
	t.Parallel()

	params := &deezer.QueryParams{}
	params.WithFilter("key", "value")

	assert.Equal(t, "value", params.ToValues().Get("key"))
}

func TestParseSearchOrder(t *testing.T) {
	t.Parallel()

	order, err := deezer.ParseSearchOrder("duration_desc")
	require.NoError(t, err)
	assert.Equal(t, deezer.OrderDurationDesc, order)

	order, err = deezer.ParseSearchOrder("")
	require.NoError(t, err)
	assert.Empty(t, order)

	_, err = deezer.ParseSearchOrder("popularity")
	require.ErrorIs(t, err, deezer.ErrInvalidRequest)
}

func TestSearchOptions_BuildQueryString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts *deezer.SearchOptions
		want string
	}{
		{
			name: "plain query untouched",
			opts: deezer.NewSearchOptions("  eminem  "),
			want: "  eminem  ",
		},
		{
			name: "query and artist",
			opts: deezer.NewSearchOptions("lose yourself").WithArtist("eminem"),
			want: `lose yourself artist:"eminem"`,
		},
		{
			name: "every filter",
			opts: deezer.NewSearchOptions("").
				WithArtist("aloe blacc").
				WithAlbum("good things").
				WithTrack("i need a dollar").
				WithLabel("stones throw").
				WithDuration(120, 300).
				WithBPM(90, 110),
			want: `artist:"aloe blacc" album:"good things" track:"i need a dollar" label:"stones throw" dur_min:120 dur_max:300 bpm_min:90 bpm_max:110`,
		},
		{
			name: "quotes are stripped from values",
			opts: deezer.NewSearchOptions("").WithTrack(`say "hello"`),
			want: `track:"say hello"`,
		},
		{
			name: "open ended duration",
			opts: deezer.NewSearchOptions("x").WithDuration(0, 200),
			want: `x dur_max:200`,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, testCase.opts.BuildQueryString())
		})
	}
}

func TestSearchOptions_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    *deezer.SearchOptions
		wantErr error
	}{
		{name: "query", opts: deezer.NewSearchOptions("eminem")},
		{name: "filter only", opts: deezer.NewSearchOptions("").WithLabel("warp")},
		{name: "empty", opts: deezer.NewSearchOptions("  "), wantErr: deezer.ErrEmptySearch},
		{name: "duration reversed", opts: deezer.NewSearchOptions("x").WithDuration(300, 100), wantErr: deezer.ErrInvalidDurationFilter},
		{name: "bpm reversed", opts: deezer.NewSearchOptions("x").WithBPM(140, 100), wantErr: deezer.ErrInvalidBPMFilter},
		{name: "open bounds", opts: deezer.NewSearchOptions("x").WithDuration(300, 0).WithBPM(0, 100)},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			err := testCase.opts.Validate()
			if testCase.wantErr != nil {
				require.ErrorIs(t, err, testCase.wantErr)

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestSearchOptions_ToQueryParams(t *testing.T) {
	t.Parallel()

	opts := deezer.NewSearchOptions("eminem").
		WithArtist("eminem").
		WithStrict(true).
		WithOrder(deezer.OrderRatingDesc).
		WithLimit(5)

	values := opts.ToQueryParams().ToValues()

	assert.Equal(t, `eminem artist:"eminem"`, values.Get("q"))
	assert.Equal(t, "on", values.Get("strict"))
	assert.Equal(t, "RATING_DESC", values.Get("order"))
	assert.Equal(t, "5", values.Get("limit"))
	assert.Empty(t, values.Get("index"))
}
