package utils

import (
	"strings"
	"time"
)

// TimestampLayouts are the layouts ParseTimestamp tries when none are given.
var TimestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Now returns the current time in UTC timezone
func Now() time.Time {
	return time.Now().UTC()
}

// ParseTimestamp parses raw with the first matching layout and converts the
// result to UTC. Values without a zone are read as UTC.
func ParseTimestamp(raw string, layouts ...string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if len(layouts) == 0 {
		layouts = TimestampLayouts
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatISO8601 formats a time.Time to ISO8601 format in UTC
func FormatISO8601(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
