package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/deezer/pkg/deezer"
)

// NewGenreCommand creates the genre command group.
func NewGenreCommand() *cobra.Command {
	cmd := createGetCommand(GetConfig[deezer.Genre]{
		Use:   "genre GENRE_ID",
		Short: "Get genre details",
		Long:  "Display a genre. Genre 0 is \"All\".",
		Get: func(ctx context.Context, client deezer.Client, id int64) (*deezer.Genre, error) {
			return client.Genres().Get(ctx, id)
		},
		Detail: genreDetail,
	})

	cmd.AddCommand(createListCommand(ListConfig[deezer.Genre]{
		Use:   "list",
		Short: "List genres",
		Args:  cobra.NoArgs,
		List: func(client deezer.Client, _ int64, params *deezer.QueryParams) *deezer.Pager[deezer.Genre] {
			return client.Genres().List(params)
		},
		View: genreColumns,
	}))
	cmd.AddCommand(createListCommand(ListConfig[deezer.Artist]{
		Use:   "artists [GENRE_ID]",
		Short: "List artists of a genre",
		Args:  cobra.MaximumNArgs(1),
		List: func(client deezer.Client, id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Artist] {
			return client.Genres().Artists(id, params)
		},
		View: artistColumns,
	}))
	cmd.AddCommand(createListCommand(ListConfig[deezer.Radio]{
		Use:   "radios [GENRE_ID]",
		Short: "List radios of a genre",
		Args:  cobra.MaximumNArgs(1),
		List: func(client deezer.Client, id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Radio] {
			return client.Genres().Radios(id, params)
		},
		View: radioColumns,
	}))

	return cmd
}

// NewRadioCommand creates the radio command group.
func NewRadioCommand() *cobra.Command {
	cmd := createGetCommand(GetConfig[deezer.Radio]{
		Use:   "radio RADIO_ID",
		Short: "Get radio details",
		Long:  "Display detailed information about a specific radio",
		Get: func(ctx context.Context, client deezer.Client, id int64) (*deezer.Radio, error) {
			return client.Radios().Get(ctx, id)
		},
		Detail: radioDetail,
	})

	cmd.AddCommand(createListCommand(ListConfig[deezer.Radio]{
		Use:   "list",
		Short: "List radios",
		Args:  cobra.NoArgs,
		List: func(client deezer.Client, _ int64, params *deezer.QueryParams) *deezer.Pager[deezer.Radio] {
			return client.Radios().List(params)
		},
		View: radioColumns,
	}))
	cmd.AddCommand(createListCommand(ListConfig[deezer.Radio]{
		Use:   "top",
		Short: "List the top radios",
		Args:  cobra.NoArgs,
		List: func(client deezer.Client, _ int64, params *deezer.QueryParams) *deezer.Pager[deezer.Radio] {
			return client.Radios().Top(params)
		},
		View: radioColumns,
	}))
	cmd.AddCommand(createListCommand(ListConfig[deezer.Track]{
		Use:   "tracks RADIO_ID",
		Short: "List radio tracks",
		List: func(client deezer.Client, id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Track] {
			return client.Radios().Tracks(id, params)
		},
		View: trackColumns,
	}))

	return cmd
}

// NewEditorialCommand creates the editorial command group.
func NewEditorialCommand() *cobra.Command {
	cmd := createGetCommand(GetConfig[deezer.Editorial]{
		Use:   "editorial EDITORIAL_ID",
		Short: "Get editorial details",
		Long:  "Display an editorial section. Editorial 0 is the global selection.",
		Get: func(ctx context.Context, client deezer.Client, id int64) (*deezer.Editorial, error) {
			return client.Editorials().Get(ctx, id)
		},
		Detail: editorialDetail,
	})

	cmd.AddCommand(createListCommand(ListConfig[deezer.Editorial]{
		Use:   "list",
		Short: "List editorial sections",
		Args:  cobra.NoArgs,
		List: func(client deezer.Client, _ int64, params *deezer.QueryParams) *deezer.Pager[deezer.Editorial] {
			return client.Editorials().List(params)
		},
		View: editorialColumns,
	}))
	cmd.AddCommand(createListCommand(ListConfig[deezer.Album]{
		Use:   "releases [EDITORIAL_ID]",
		Short: "List new releases of an editorial section",
		Args:  cobra.MaximumNArgs(1),
		List: func(client deezer.Client, id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Album] {
			return client.Editorials().Releases(id, params)
		},
		View: albumColumns,
	}))

	return cmd
}

// NewPodcastCommand creates the podcast command group.
func NewPodcastCommand() *cobra.Command {
	cmd := createGetCommand(GetConfig[deezer.Podcast]{
		Use:   "podcast PODCAST_ID",
		Short: "Get podcast details",
		Long:  "Display detailed information about a specific podcast, or list its episodes",
		Get: func(ctx context.Context, client deezer.Client, id int64) (*deezer.Podcast, error) {
			return client.Podcasts().Get(ctx, id)
		},
		Detail: podcastDetail,
	})

	cmd.AddCommand(createListCommand(ListConfig[deezer.Episode]{
		Use:   "episodes PODCAST_ID",
		Short: "List podcast episodes",
		List: func(client deezer.Client, id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Episode] {
			return client.Podcasts().Episodes(id, params)
		},
		View: episodeColumns,
	}))

	return cmd
}

// NewChartCommand creates the chart command group.
func NewChartCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart [GENRE_ID]",
		Short: "Show charts",
		Long:  "Display the top tracks, albums, artists, playlists and podcasts of a genre (0 or omitted for all genres)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			genreID, err := argID(args)
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			chart, err := client.Charts().Get(ctx, genreID)
			if err != nil {
				return err
			}

			return renderChart(cmd, chart)
		},
	}

	cmd.AddCommand(createListCommand(ListConfig[deezer.Track]{
		Use:   "tracks [GENRE_ID]",
		Short: "List chart tracks",
		Args:  cobra.MaximumNArgs(1),
		List: func(client deezer.Client, id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Track] {
			return client.Charts().Tracks(id, params)
		},
		View: trackColumns,
	}))
	cmd.AddCommand(createListCommand(ListConfig[deezer.Album]{
		Use:   "albums [GENRE_ID]",
		Short: "List chart albums",
		Args:  cobra.MaximumNArgs(1),
		List: func(client deezer.Client, id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Album] {
			return client.Charts().Albums(id, params)
		},
		View: albumColumns,
	}))
	cmd.AddCommand(createListCommand(ListConfig[deezer.Artist]{
		Use:   "artists [GENRE_ID]",
		Short: "List chart artists",
		Args:  cobra.MaximumNArgs(1),
		List: func(client deezer.Client, id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Artist] {
			return client.Charts().Artists(id, params)
		},
		View: artistColumns,
	}))
	cmd.AddCommand(createListCommand(ListConfig[deezer.Playlist]{
		Use:   "playlists [GENRE_ID]",
		Short: "List chart playlists",
		Args:  cobra.MaximumNArgs(1),
		List: func(client deezer.Client, id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Playlist] {
			return client.Charts().Playlists(id, params)
		},
		View: playlistColumns,
	}))
	cmd.AddCommand(createListCommand(ListConfig[deezer.Podcast]{
		Use:   "podcasts [GENRE_ID]",
		Short: "List chart podcasts",
		Args:  cobra.MaximumNArgs(1),
		List: func(client deezer.Client, id int64, params *deezer.QueryParams) *deezer.Pager[deezer.Podcast] {
			return client.Charts().Podcasts(id, params)
		},
		View: podcastColumns,
	}))

	return cmd
}

// renderChart prints every non-empty chart section under its own heading.
func renderChart(cmd *cobra.Command, chart *deezer.Chart) error {
	done, err := encode(cmd, chart)
	if done {
		return err
	}

	sections := []struct {
		name   string
		count  int
		render func() error
	}{
		{"tracks", len(chart.Tracks), func() error { return renderTable(cmd, chart.Tracks, trackColumns) }},
		{"albums", len(chart.Albums), func() error { return renderTable(cmd, chart.Albums, albumColumns) }},
		{"artists", len(chart.Artists), func() error { return renderTable(cmd, chart.Artists, artistColumns) }},
		{"playlists", len(chart.Playlists), func() error { return renderTable(cmd, chart.Playlists, playlistColumns) }},
		{"podcasts", len(chart.Podcasts), func() error { return renderTable(cmd, chart.Podcasts, podcastColumns) }},
	}

	for _, section := range sections {
		if section.count == 0 {
			continue
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\n%s (%d)\n", titleCaser.String(section.name), section.count)

		if err := section.render(); err != nil {
			return err
		}
	}

	return nil
}
