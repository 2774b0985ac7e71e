package commands

import (
	"strconv"

	"github.com/spf13/cobra"
)

// NewInfosCommand creates the infos command.
func NewInfosCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "infos",
		Short: "Show API availability",
		Long:  "Display what the Deezer API offers in the current country",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			infos, err := client.GetInfos(ctx)
			if err != nil {
				return err
			}

			return renderDetail(cmd, infos, infosDetail(infos))
		},
	}

	cmd.AddCommand(newOptionsCommand())

	return cmd
}

func newOptionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "Show streaming options",
		Long:  "Display the streaming options of the token owner. Requires an access token.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			options, err := client.GetOptions(ctx)
			if err != nil {
				return err
			}

			return renderDetail(cmd, options, [][]string{
				{"Streaming", formatBool(options.Streaming)},
				{"Streaming Duration", strconv.Itoa(options.StreamingDuration)},
				{"Offline", formatBool(options.Offline)},
				{"HQ", formatBool(options.HQ)},
				{"Lossless", formatBool(options.Lossless)},
				{"Ads", formatBool(options.AdsDisplay || options.AdsAudio)},
				{"Radio Skips", strconv.Itoa(options.RadioSkips)},
			})
		},
	}
}
