package commands

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/deezer/internal/constants"
	"github.com/fivetwenty-io/deezer/pkg/deezer"
)

func TestParseOutputFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "", want: constants.FormatTable},
		{raw: "table", want: constants.FormatTable},
		{raw: " JSON ", want: constants.FormatJSON},
		{raw: "Yaml", want: constants.FormatYAML},
		{raw: "csv", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.raw, func(t *testing.T) {
			t.Parallel()

			got, err := parseOutputFormat(testCase.raw)
			if testCase.wantErr {
				require.ErrorIs(t, err, constants.ErrUnknownOutput)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestFormatters(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "3:44", formatDuration(224))
	assert.Equal(t, "0:05", formatDuration(5))
	assert.Equal(t, "61:00", formatDuration(3660))
	assert.Equal(t, constants.NotAvailable, formatDuration(0))

	assert.Equal(t, "42", formatInt(42))
	assert.Equal(t, constants.NotAvailable, formatInt(0))
	assert.Equal(t, "0", formatID(0))

	assert.Equal(t, constants.NotAvailable, formatDate(deezer.Date{}))
	assert.Equal(t, "2001-03-12", formatDate(deezer.Date{Time: time.Date(2001, 3, 12, 0, 0, 0, 0, time.UTC)}))

	assert.Equal(t, "yes", formatBool(true))
	assert.Equal(t, "no", formatBool(false))
	assert.Equal(t, constants.NotAvailable, formatText(""))

	assert.Equal(t, "Single", formatKind("single"))
	assert.Equal(t, "Compile", formatKind("compile"))
	assert.Equal(t, constants.NotAvailable, formatKind(""))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	short := "Discovery"
	assert.Equal(t, short, truncate(short))

	long := strings.Repeat("é", constants.TitleDisplayLength+5)
	truncated := truncate(long)

	assert.Len(t, []rune(truncated), constants.TitleDisplayLength)
	assert.True(t, strings.HasSuffix(truncated, "..."))
}

func TestVersionCommand(t *testing.T) {
	setupCLI(t, "https://api.deezer.com")

	out, err := executeCommand(NewVersionCommand("1.2.3", "abc123", "2026-10-19"), "")
	require.NoError(t, err)

	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))

	assert.Equal(t, "1.2.3", info["version"])
	assert.Equal(t, "abc123", info["commit"])
	assert.Equal(t, "2026-10-19", info["built"])

	viper.Set("output", "table")

	out, err = executeCommand(NewVersionCommand("1.2.3", "abc123", "2026-10-19"), "")
	require.NoError(t, err)
	assert.Contains(t, out, "1.2.3")
}
