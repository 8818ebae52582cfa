// Package dateparse canonicalizes the timestamp strings found in wearable
// export tables. Exactly two layouts are accepted; anything else is a missing
// date, never an error.
package dateparse

import (
	"time"
)

const (
	// LayoutExport matches "2023-01-15 07:30:00".
	LayoutExport = "2006-01-02 15:04:05"
	// LayoutISOMicros matches "2023-01-15T07:30:00.123456".
	LayoutISOMicros = "2006-01-02T15:04:05.999999"
)

var layouts = []string{LayoutExport, LayoutISOMicros}

// Parse converts a timestamp string into an instant. The second return value
// is false for empty or unrecognized input, which downstream code treats as a
// missing date.
func Parse(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
