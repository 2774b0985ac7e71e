package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/deezer/internal/constants"
	"github.com/fivetwenty-io/deezer/internal/filter"
	"github.com/fivetwenty-io/deezer/pkg/deezer"
)

// SearchFlags holds the search command flags.
type SearchFlags struct {
	Artist      string
	Album       string
	Track       string
	Label       string
	DurationMin int
	DurationMax int
	BPMMin      int
	BPMMax      int
	Strict      bool
	Order       string
	Type        string
	Limit       int
	Where       string
}

// searchTypes lists the record types the search command can return.
var searchTypes = []string{"track", "album", "artist", "playlist", "radio", "user", "podcast"}

// NewSearchCommand creates the search command.
func NewSearchCommand() *cobra.Command {
	flags := &SearchFlags{}

	cmd := &cobra.Command{
		Use:   "search [QUERY...]",
		Short: "Search the catalog",
		Long: `Search the Deezer catalog. Field filters are combined with the free text
query into Deezer's advanced search syntax.

The --where flag filters the returned records with an expression evaluated
against their JSON fields, for example:

  deezer search daft punk --where 'duration > 300 && rank > 500000'
  deezer search --artist "daft punk" --type album --where 'year(release_date) < 2005'`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, strings.Join(args, " "), flags)
		},
	}

	cmd.Flags().StringVar(&flags.Artist, "artist", "", "artist name filter")
	cmd.Flags().StringVar(&flags.Album, "album", "", "album title filter")
	cmd.Flags().StringVar(&flags.Track, "track", "", "track title filter")
	cmd.Flags().StringVar(&flags.Label, "label", "", "label name filter")
	cmd.Flags().IntVar(&flags.DurationMin, "dur-min", 0, "minimum track duration in seconds")
	cmd.Flags().IntVar(&flags.DurationMax, "dur-max", 0, "maximum track duration in seconds")
	cmd.Flags().IntVar(&flags.BPMMin, "bpm-min", 0, "minimum beats per minute")
	cmd.Flags().IntVar(&flags.BPMMax, "bpm-max", 0, "maximum beats per minute")
	cmd.Flags().BoolVar(&flags.Strict, "strict", false, "disable fuzzy matching")
	cmd.Flags().StringVar(&flags.Order, "order", "", "sort order (RANKING, TRACK_ASC, DURATION_DESC, ...)")
	cmd.Flags().StringVar(&flags.Type, "type", "track", "record type: "+strings.Join(searchTypes, ", "))
	cmd.Flags().IntVarP(&flags.Limit, "limit", "l", constants.DefaultPageSize, "maximum number of records to fetch")
	cmd.Flags().StringVarP(&flags.Where, "where", "w", "", "filter expression applied to the results")

	return cmd
}

// Options converts the flags into search options for query.
func (f *SearchFlags) Options(query string) (*deezer.SearchOptions, error) {
	order, err := deezer.ParseSearchOrder(f.Order)
	if err != nil {
		return nil, err
	}

	opts := deezer.NewSearchOptions(strings.TrimSpace(query)).
		WithArtist(f.Artist).
		WithAlbum(f.Album).
		WithTrack(f.Track).
		WithLabel(f.Label).
		WithDuration(f.DurationMin, f.DurationMax).
		WithBPM(f.BPMMin, f.BPMMax).
		WithStrict(f.Strict).
		WithOrder(order)

	if f.Limit > 0 {
		opts = opts.WithLimit(min(f.Limit, constants.MaxPageSize))
	}

	if opts.Query == "" && !opts.HasAdvancedOptions() {
		return nil, constants.ErrQueryRequired
	}

	return opts, opts.Validate()
}

func runSearch(cmd *cobra.Command, query string, flags *SearchFlags) error {
	opts, err := flags.Options(query)
	if err != nil {
		return err
	}

	var where *filter.Filter

	if flags.Where != "" {
		where, err = filter.Compile(flags.Where)
		if err != nil {
			return fmt.Errorf("invalid --where expression: %w", err)
		}
	}

	ctx := commandContext(cmd)

	client, err := createClient(ctx)
	if err != nil {
		return err
	}

	logger.Debug().Str("q", opts.BuildQueryString()).Str("type", flags.Type).Msg("Searching catalog")

	search := client.Search()

	switch strings.ToLower(flags.Type) {
	case "track":
		return searchRecords(ctx, cmd, search.Tracks(opts), flags.Limit, where, trackColumns)
	case "album":
		return searchRecords(ctx, cmd, search.Albums(opts), flags.Limit, where, albumColumns)
	case "artist":
		return searchRecords(ctx, cmd, search.Artists(opts), flags.Limit, where, artistColumns)
	case "playlist":
		return searchRecords(ctx, cmd, search.Playlists(opts), flags.Limit, where, playlistColumns)
	case "radio":
		return searchRecords(ctx, cmd, search.Radios(opts), flags.Limit, where, radioColumns)
	case "user":
		return searchRecords(ctx, cmd, search.Users(opts), flags.Limit, where, userColumns)
	case "podcast":
		return searchRecords(ctx, cmd, search.Podcasts(opts), flags.Limit, where, podcastColumns)
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownEntity, flags.Type)
	}
}

// searchRecords fetches up to limit records, then keeps those matching where.
func searchRecords[T any](ctx context.Context, cmd *cobra.Command, pager *deezer.Pager[T], limit int, where *filter.Filter, view columns[T]) error {
	records, err := fetchRecords(ctx, pager, limit, false)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	matched, err := filter.Apply(where, records)
	if err != nil {
		return fmt.Errorf("failed to apply --where expression: %w", err)
	}

	if where != nil {
		logger.Debug().Int("fetched", len(records)).Int("matched", len(matched)).Msg("Filtered search results")
	}

	return renderList(cmd, matched, view)
}
