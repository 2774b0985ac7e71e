package commands

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/deezer/internal/constants"
	"github.com/fivetwenty-io/deezer/pkg/deezer"
)

var titleCaser = cases.Title(language.English)

// columns renders a list of records as a table.
type columns[T any] struct {
	header []string
	row    func(record *T) []string
}

func parseOutputFormat(raw string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(raw))

	switch format {
	case "":
		return constants.FormatTable, nil
	case constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %s", constants.ErrUnknownOutput, raw)
	}
}

func outputFormat() string {
	format, err := parseOutputFormat(viper.GetString("output"))
	if err != nil {
		return viper.GetString("output")
	}

	return format
}

// encode writes data as JSON or YAML. It reports false for table output.
func encode(cmd *cobra.Command, data interface{}) (bool, error) {
	out := cmd.OutOrStdout()

	switch format := outputFormat(); format {
	case constants.FormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")

		return true, encoder.Encode(data)
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(out)
		defer func() { _ = encoder.Close() }()

		return true, encoder.Encode(data)
	case constants.FormatTable:
		return false, nil
	default:
		return true, fmt.Errorf("%w: %s", constants.ErrUnknownOutput, format)
	}
}

// renderDetail prints one record as a property table.
func renderDetail(cmd *cobra.Command, record interface{}, rows [][]string) error {
	done, err := encode(cmd, record)
	if done {
		return err
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header("Property", "Value")

	for _, row := range rows {
		_ = table.Append(row)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// renderList prints records as a table with one row per record.
func renderList[T any](cmd *cobra.Command, records []T, view columns[T]) error {
	if records == nil {
		records = []T{}
	}

	done, err := encode(cmd, records)
	if done {
		return err
	}

	if len(records) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No results")

		return nil
	}

	return renderTable(cmd, records, view)
}

func renderTable[T any](cmd *cobra.Command, records []T, view columns[T]) error {
	header := make([]interface{}, len(view.header))
	for i, name := range view.header {
		header[i] = name
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header(header...)

	for i := range records {
		_ = table.Append(view.row(&records[i]))
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func formatInt(value int) string {
	if value == 0 {
		return constants.NotAvailable
	}

	return strconv.Itoa(value)
}

// formatDuration renders seconds as m:ss.
func formatDuration(seconds int) string {
	if seconds <= 0 {
		return constants.NotAvailable
	}

	return fmt.Sprintf("%d:%02d", seconds/constants.SecondsPerMinute, seconds%constants.SecondsPerMinute)
}

func formatDate(date deezer.Date) string {
	if date.IsZero() {
		return constants.NotAvailable
	}

	return date.String()
}

func formatText(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}

func formatBool(value bool) string {
	if value {
		return "yes"
	}

	return "no"
}

func truncate(value string) string {
	runes := []rune(value)
	if len(runes) <= constants.TitleDisplayLength {
		return value
	}

	return string(runes[:constants.TitleDisplayLength-3]) + "..."
}

// formatKind title-cases a Deezer record type such as "album" or "single".
func formatKind(kind string) string {
	if kind == "" {
		return constants.NotAvailable
	}

	return titleCaser.String(kind)
}
