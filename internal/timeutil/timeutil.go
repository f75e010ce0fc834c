package timeutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// isoLayouts are tried in order when parsing hint boundaries. Zone-less forms
// are interpreted as UTC so that a pinned reference clock stays comparable.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseISO parses an ISO-8601 date or datetime string.
func ParseISO(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty time string")
	}
	for _, layout := range isoLayouts {
		if layout == time.RFC3339 {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized ISO-8601 time: %q", s)
}

// FormatDateTime renders a timestamp the way ClickHouse and most SQL targets
// expect DateTime literals.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}
