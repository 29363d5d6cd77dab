package gridquery

import (
	"strings"
	"time"
)

// Accepted input formats for date filters, tried in order; the first
// successful parse wins.
//
//	"2025-10-20"
//	"2025-10-20T08:12:45"
//	"2025-10-20T08:12:45.678"
//	"2025-10-20 08:12:45.678"
//	"2025-10-20 08:12:45"
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
}

// parseToDay parses s with the cascade above and truncates the result to
// the start of its UTC day. ok is false when no layout matches.
func parseToDay(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
