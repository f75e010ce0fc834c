package timeutil

import (
	"testing"
	"time"
)

func TestParseISO(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2020-01-01T00:00:00", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2020-01-02 12:30:45", time.Date(2020, 1, 2, 12, 30, 45, 0, time.UTC)},
		{"2020-06-15", time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"2020-01-01T00:00:00Z", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		got, err := ParseISO(c.in)
		if err != nil {
			t.Fatalf("ParseISO(%q): %v", c.in, err)
		}
		if !got.Equal(c.want) {
			t.Fatalf("ParseISO(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseISORejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "  ", "not-a-date", "01/02/2020", "2020-13-40"} {
		if _, err := ParseISO(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestFormatDateTime(t *testing.T) {
	ts := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	if got := FormatDateTime(ts); got != "2021-03-04 05:06:07" {
		t.Fatalf("unexpected format: %q", got)
	}
}
