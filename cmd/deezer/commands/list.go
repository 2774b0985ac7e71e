package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/deezer/internal/constants"
	"github.com/fivetwenty-io/deezer/pkg/deezer"
)

// ListConfig describes a command that lists one Deezer connection.
type ListConfig[T any] struct {
	Use   string
	Short string
	Long  string
	// Args is cobra.ExactArgs(1) for connections of a record, or
	// cobra.MaximumNArgs(1) when the id defaults to 0.
	Args  cobra.PositionalArgs
	List  func(client deezer.Client, id int64, params *deezer.QueryParams) *deezer.Pager[T]
	View  columns[T]
}

// GetConfig describes a command that looks up one record by id.
type GetConfig[T any] struct {
	Use    string
	Short  string
	Long   string
	Get    func(ctx context.Context, client deezer.Client, id int64) (*T, error)
	Detail func(record *T) [][]string
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}

// argID parses the optional id argument. A missing id selects 0, the
// "all genres" id of charts and genre listings.
func argID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, nil
	}

	return parseID(args[0])
}

func createGetCommand[T any](config GetConfig[T]) *cobra.Command {
	return &cobra.Command{
		Use:   config.Use,
		Short: config.Short,
		Long:  config.Long,
		Args:  cobra.ExactArgs(1),
		RunE:  getRunE(config),
	}
}

func getRunE[T any](config GetConfig[T]) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id, err := argID(args)
		if err != nil {
			return err
		}

		ctx := commandContext(cmd)

		client, err := createClient(ctx)
		if err != nil {
			return err
		}

		record, err := config.Get(ctx, client, id)
		if err != nil {
			return err
		}

		return renderDetail(cmd, record, config.Detail(record))
	}
}

func createListCommand[T any](config ListConfig[T]) *cobra.Command {
	var (
		limit int
		all   bool
	)

	args := config.Args
	if args == nil {
		args = cobra.ExactArgs(1)
	}

	cmd := &cobra.Command{
		Use:   config.Use,
		Short: config.Short,
		Long:  config.Long,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := argID(args)
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			records, err := fetchRecords(ctx, config.List(client, id, pageParams(limit)), limit, all)
			if err != nil {
				return err
			}

			return renderList(cmd, records, config.View)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", constants.DefaultPageSize, "maximum number of records to show")
	cmd.Flags().BoolVar(&all, "all", false, "fetch every page")

	return cmd
}

func pageParams(limit int) *deezer.QueryParams {
	params := deezer.NewQueryParams()
	if limit > 0 {
		params = params.WithLimit(min(limit, constants.MaxPageSize))
	}

	return params
}

// fetchRecords walks the pager lazily and stops after limit records, or
// collects up to constants.MaxPages pages when all is set.
func fetchRecords[T any](ctx context.Context, pager *deezer.Pager[T], limit int, all bool) ([]T, error) {
	if all {
		records, err := deezer.FetchAllPages(ctx, pager, &deezer.PaginationOptions{MaxPages: constants.MaxPages})
		if err != nil {
			return nil, fmt.Errorf("failed to list records: %w", err)
		}

		return records, nil
	}

	records := make([]T, 0, max(limit, 0))

	for record, err := range pager.Seq(ctx) {
		if err != nil {
			return nil, fmt.Errorf("failed to list records: %w", err)
		}

		records = append(records, record)
		if limit > 0 && len(records) >= limit {
			break
		}
	}

	return records, nil
}
