package cli

import (
	"fmt"
	"strings"
	"time"

	"mixerboard/pkg/tz"
)

// ParseDateTime parses "YYYY-MM-DD HH:MM" in JST.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date and time required (YYYY-MM-DD HH:MM)")
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", s, tz.Tokyo)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q (expected YYYY-MM-DD HH:MM, e.g. 2026-02-18 13:00)", s)
	}
	return t, nil
}

// ParseDeadline parses either "YYYY-MM-DD HH:MM" or a bare "YYYY-MM-DD",
// which means 23:59 of that day in JST.
func ParseDeadline(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("deadline required (YYYY-MM-DD or YYYY-MM-DD HH:MM)")
	}
	if d, err := time.ParseInLocation("2006-01-02", s, tz.Tokyo); err == nil {
		return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 0, 0, tz.Tokyo), nil
	}
	return ParseDateTime(s)
}

// FormatDateTime renders a timestamp in JST for display.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(tz.Tokyo).Format("1/2 15:04")
}
