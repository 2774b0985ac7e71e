package filter_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/deezer/internal/filter"
	"github.com/fivetwenty-io/deezer/pkg/deezer"
)

func sampleTracks() []deezer.Track {
	return []deezer.Track{
		{
			ID:          1,
			Title:       "One More Time",
			Duration:    320,
			ArtistName:  "Daft Punk",
			Rank:        900000,
			ReleaseDate: deezer.Date{Time: time.Date(2000, 11, 13, 0, 0, 0, 0, time.UTC)},
		},
		{
			ID:             2,
			Title:          "Lose Yourself",
			Duration:       326,
			ArtistName:     "Eminem",
			Rank:           950000,
			ExplicitLyrics: true,
		},
		{
			ID:         3,
			Title:      "Around the World",
			Duration:   429,
			ArtistName: "Daft Punk",
			Rank:       700000,
		},
	}
}

func TestCompile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{name: "valid expression", expression: `duration > 300`},
		{name: "helpers", expression: `lower(artist_name) contains "punk" && year(release_date) >= 2000`},
		{name: "empty expression", expression: "  ", wantErr: true, errContains: "empty expression"},
		{name: "invalid syntax", expression: `title contains "unclosed`, wantErr: true},
		{name: "not boolean", expression: `1 + 2`, wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			compiled, err := filter.Compile(testCase.expression)
			if testCase.wantErr {
				require.Error(t, err)

				var compileErr *filter.CompilationError
				require.ErrorAs(t, err, &compileErr)

				if testCase.errContains != "" {
					assert.Contains(t, err.Error(), testCase.errContains)
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.expression, compiled.Expression())
		})
	}
}

func TestApply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		expression string
		wantIDs    []int64
	}{
		{name: "numeric field", expression: `duration > 325`, wantIDs: []int64{2, 3}},
		{name: "case insensitive contains", expression: `upper(artist_name) contains "DAFT"`, wantIDs: []int64{1, 3}},
		{name: "boolean field", expression: `explicit_lyrics`, wantIDs: []int64{2}},
		{name: "date helper", expression: `year(release_date) == 2000`, wantIDs: []int64{1}},
		{name: "minutes helper", expression: `minutes(duration) > 7`, wantIDs: []int64{3}},
		{name: "combined", expression: `lower(title) startsWith "a" or rank >= 950000`, wantIDs: []int64{2, 3}},
		{name: "nothing matches", expression: `artist_name == "Justice"`, wantIDs: []int64{}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			compiled, err := filter.Compile(testCase.expression)
			require.NoError(t, err)

			kept, err := filter.Apply(compiled, sampleTracks())
			require.NoError(t, err)

			ids := make([]int64, 0, len(kept))
			for _, track := range kept {
				ids = append(ids, track.ID)
			}

			assert.Equal(t, testCase.wantIDs, ids)
		})
	}
}

func TestApply_NilFilterKeepsEverything(t *testing.T) {
	t.Parallel()

	kept, err := filter.Apply[deezer.Track](nil, sampleTracks())
	require.NoError(t, err)
	assert.Len(t, kept, 3)
}

func TestMatch_EvaluationError(t *testing.T) {
	t.Parallel()

	compiled, err := filter.Compile(`lower(missing_field) == "x"`)
	require.NoError(t, err)

	_, err = compiled.Match(sampleTracks()[0])
	require.Error(t, err)

	var evalErr *filter.EvaluationError
	require.ErrorAs(t, err, &evalErr)
}

func TestCompile_RecordFieldsShadowBuiltins(t *testing.T) {
	t.Parallel()

	// duration is both an expr builtin and a track field.
	compiled, err := filter.Compile(`duration > 180 && minutes(duration) < 6`)
	require.NoError(t, err)

	matched, err := compiled.Match(deezer.Track{ID: 1, Title: "Digital Love", Duration: 301})
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = compiled.Match(deezer.Track{ID: 2, Title: "Short Circuit", Duration: 120})
	require.NoError(t, err)
	assert.False(t, matched)

	// Builtins without a matching field stay available.
	compiled, err = filter.Compile(`len(title) == 12 && abs(rank - 900000) < 1`)
	require.NoError(t, err)

	matched, err = compiled.Match(deezer.Track{ID: 3, Title: "Digital Love", Rank: 900000})
	require.NoError(t, err)
	assert.True(t, matched)
}
