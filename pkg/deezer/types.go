package deezer

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ListResponse represents a paginated list response.
type ListResponse[T any] struct {
	Data  []T    `json:"data"           yaml:"data"`
	Total int    `json:"total"          yaml:"total"`
	Next  string `json:"next,omitempty" yaml:"next,omitempty"`
	Prev  string `json:"prev,omitempty" yaml:"prev,omitempty"`
}

// HasMore reports whether the upstream advertised a further page.
func (l *ListResponse[T]) HasMore() bool {
	return l != nil && l.Next != ""
}

// NextIndex returns the index parameter of the next page link.
func (l *ListResponse[T]) NextIndex() (int, bool) {
	if !l.HasMore() {
		return 0, false
	}

	u, err := url.Parse(l.Next)
	if err != nil {
		return 0, false
	}

	raw := u.Query().Get("index")
	if raw == "" {
		return 0, false
	}

	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 {
		return 0, false
	}

	return index, true
}

const dateLayout = "2006-01-02"

// Date is a calendar date as Deezer reports it ("2006-01-02").
// Deezer uses "0000-00-00" for unknown dates, which decodes to the zero value.
type Date struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return fmt.Errorf("decoding date: %w", err)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "0000-00-00") {
		d.Time = time.Time{}

		return nil
	}

	// Some endpoints append a time component.
	if len(raw) > len(dateLayout) {
		raw = raw[:len(dateLayout)]
	}

	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return fmt.Errorf("decoding date %q: %w", raw, err)
	}

	d.Time = parsed

	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}

	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// String returns the date in Deezer's layout, or an empty string when unknown.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}

	return d.Format(dateLayout)
}

// MarshalYAML implements yaml.Marshaler.
func (d Date) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// Images carries the picture URLs Deezer attaches to most records.
type Images struct {
	Small  string `json:"small,omitempty"  yaml:"small,omitempty"`
	Medium string `json:"medium,omitempty" yaml:"medium,omitempty"`
	Big    string `json:"big,omitempty"    yaml:"big,omitempty"`
	XL     string `json:"xl,omitempty"     yaml:"xl,omitempty"`
}

// Largest returns the biggest available picture URL.
func (i Images) Largest() string {
	for _, candidate := range []string{i.XL, i.Big, i.Medium, i.Small} {
		if candidate != "" {
			return candidate
		}
	}

	return ""
}
