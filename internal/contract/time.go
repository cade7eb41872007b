package contract

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Timestamps outside the nanosecond int64 range are treated as unknown.
var (
	MinTimestamp = time.Unix(0, math.MinInt64).UTC()
	MaxTimestamp = time.Unix(0, math.MaxInt64).UTC()
)

// TimestampLayouts lists the accepted timestamp layouts, tried in order.
// Issue tracker exports come first since they are the common case.
var TimestampLayouts = []string{
	"02/Jan/06 3:04 PM",
	"2/Jan/06 3:04 PM",
	"02/Jan/2006 3:04 PM",
	"2/Jan/2006 3:04 PM",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
	"01/02/2006 15:04",
	"01/02/2006",
}

// ParseTimestamp parses a timestamp cell into UTC.
// Empty, unparsable and out of range values return ok=false instead of an
// error. "0" maps to the epoch sentinel; any other bare number is unknown.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if s == "0" {
		return time.Unix(0, 0).UTC(), true
	}
	for _, layout := range TimestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			if t.Before(MinTimestamp) || t.After(MaxTimestamp) {
				return time.Time{}, false
			}
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// IsZeroOrEpoch reports whether t is the zero time or the Unix epoch.
func IsZeroOrEpoch(t time.Time) bool {
	return t.IsZero() || t.Unix() == 0
}

// ParseWeekday parses a weekday name or its three letter abbreviation.
func ParseWeekday(s string) (time.Weekday, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if needle == name || needle == name[:3] {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("invalid anchor weekday '%s'. must be a day name like sunday or sun", s)
}
