package textutil

import (
	"strings"
	"time"
)

// dateTimeLayouts are tried in order. Go permits fractional seconds in the
// input even when the layout omits them, so "2024-07-01T18:58:59.277708"
// parses under the naive layout.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseAny parses s against the known ISO 8601 layouts. Layouts without a
// zone are taken as UTC.
func parseAny(s string) (time.Time, bool) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseCalendarDate parses an ISO 8601 calendar date such as "2025-01-01".
// Full timestamps are accepted and truncated to midnight UTC. Returns nil
// when the input is empty or unparseable.
func ParseCalendarDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	t, ok := parseAny(s)
	if !ok {
		return nil
	}

	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &day
}

// ParseDateTime parses an ISO 8601 timestamp such as "2025-01-01T00:00:01Z"
// and converts it to UTC. Bare calendar dates are accepted as midnight UTC.
// Returns nil when the input is empty or unparseable.
func ParseDateTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	t, ok := parseAny(s)
	if !ok {
		return nil
	}

	utc := t.UTC()
	return &utc
}
