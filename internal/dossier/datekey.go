package dossier

import (
	"strings"
	"time"
)

// dateKeyLayouts are tried in order. Single digit layouts also accept the
// zero-padded form, so "02-03-2025" and "2-3-2025" name the same day.
var dateKeyLayouts = []string{
	"2-1-2006",
	"2/1/2006",
	"2006-01-02",
}

// ParseDateKey reads a day-month-year date key.
func ParseDateKey(key string) (time.Time, bool) {
	key = strings.TrimSpace(key)
	for _, layout := range dateKeyLayouts {
		if t, err := time.Parse(layout, key); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateKeyLess orders date keys chronologically. Keys that do not parse sort
// after every parsable key, lexically among themselves.
func DateKeyLess(a, b string) bool {
	ta, okA := ParseDateKey(a)
	tb, okB := ParseDateKey(b)
	switch {
	case okA && okB:
		if ta.Equal(tb) {
			return a < b
		}
		return ta.Before(tb)
	case okA:
		return true
	case okB:
		return false
	default:
		return a < b
	}
}

// newestFirst orders date keys for display: parsable keys most recent first,
// then unparsable keys in reverse lexical order. It reports 0 for keys that
// name the same day so callers can fall back to insertion order.
func newestFirst(a, b string) int {
	ta, okA := ParseDateKey(a)
	tb, okB := ParseDateKey(b)
	switch {
	case okA && okB:
		return tb.Compare(ta)
	case okA:
		return -1
	case okB:
		return 1
	default:
		return strings.Compare(b, a)
	}
}
