package agg

import (
	"time"

	"github.com/huangsam/cadence/schema"
)

// Grid is a sequence of fixed-width, right-closed time buckets labelled by
// their right edge. Buckets cover whole calendar days in UTC.
type Grid struct {
	First time.Time // Label of the first bucket
	Days  int       // Bucket width in days
}

// NewGrid anchors a grid on the first anchor weekday on or after the earliest
// dated record. It returns false when no record carries a date.
func NewGrid(records []schema.IssueRecord, bucketDays int, anchor time.Weekday) (Grid, bool) {
	var earliest time.Time
	found := false
	for _, r := range records {
		if r.Date == nil {
			continue
		}
		d := dayOf(*r.Date)
		if !found || d.Before(earliest) {
			earliest = d
			found = true
		}
	}
	if !found {
		return Grid{}, false
	}
	return GridFrom(earliest, bucketDays, anchor), true
}

// GridFrom anchors a grid on the first anchor weekday on or after start.
func GridFrom(start time.Time, bucketDays int, anchor time.Weekday) Grid {
	if bucketDays <= 0 {
		bucketDays = 1
	}
	start = dayOf(start)
	offset := (int(anchor) - int(start.Weekday()) + 7) % 7
	return Grid{First: start.AddDate(0, 0, offset), Days: bucketDays}
}

// Index returns the bucket position of the calendar day holding t.
// A day belongs to the smallest label on or after it.
func (g Grid) Index(t time.Time) int {
	days := daysBetween(g.First, dayOf(t))
	if days <= 0 {
		return 0
	}
	return (days + g.Days - 1) / g.Days
}

// Label returns the bucket label of position i.
func (g Grid) Label(i int) time.Time {
	return g.First.AddDate(0, 0, i*g.Days)
}

// LabelOf returns the bucket label for t.
func (g Grid) LabelOf(t time.Time) time.Time {
	return g.Label(g.Index(t))
}

// dayOf truncates t to midnight UTC of its calendar day.
func dayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole calendar days from a to b. It counts civil
// days rather than subtracting times, since a Duration saturates near 292 years.
func daysBetween(a, b time.Time) int {
	return civilDays(b) - civilDays(a)
}

// civilDays returns the day number of t's UTC date counted from 1970-01-01.
func civilDays(t time.Time) int {
	t = t.UTC()
	y, m, d := t.Year(), int(t.Month()), t.Day()
	if m <= 2 {
		y--
	}
	era := y / 400
	if y < 0 && y%400 != 0 {
		era--
	}
	yoe := y - era*400
	mp := (m + 9) % 12
	doy := (153*mp+2)/5 + d - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}
