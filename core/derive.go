package core

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/cadence/internal/contract"
	"github.com/huangsam/cadence/schema"
)

const day = 24 * time.Hour

// DeriveRecords converts raw rows into issue records with cycle time and date.
// Parse failures never surface; they degrade to nulls and defaults.
func DeriveRecords(raw []schema.RawRecord) []schema.IssueRecord {
	records := make([]schema.IssueRecord, len(raw))
	for i, r := range raw {
		records[i] = DeriveRecord(r)
	}
	return records
}

// DeriveRecord converts a single raw row.
func DeriveRecord(r schema.RawRecord) schema.IssueRecord {
	created := parseTime(r.Created)
	updated := parseTime(r.Updated)
	resolved := parseTime(r.Resolved)

	rec := schema.IssueRecord{
		Project:     r.Project.Value,
		Summary:     r.Summary.Value,
		Created:     created,
		Updated:     updated,
		Resolved:    resolved,
		StoryPoints: ParseStoryPoints(r.StoryPoints),
		CycleTime:   CycleTime(created, resolved),
		Count:       1,
		Date:        CombineFirst(validResolution(resolved), updated),
	}
	if r.Description.Valid {
		desc := r.Description.Value
		rec.Description = &desc
	}
	return rec
}

// CycleTime returns the whole days between created and resolved.
//
// A missing, zero or epoch resolution yields +Inf (unresolved). A missing
// creation with a valid resolution yields 0 (missing input data). Negative
// spans are clamped to 0.
func CycleTime(created, resolved *time.Time) float64 {
	if resolved == nil || contract.IsZeroOrEpoch(*resolved) {
		return math.Inf(1)
	}
	if created == nil {
		return 0
	}
	// Seconds keep spans longer than a Duration exact to the day
	secs := float64(resolved.Unix()-created.Unix()) + float64(resolved.Nanosecond()-created.Nanosecond())/1e9
	days := math.Floor(secs / day.Seconds())
	if days < 0 {
		return 0
	}
	return days
}

// ParseStoryPoints reads a story point estimate, defaulting to 0 when the
// value is missing, unparsable, negative or not finite.
func ParseStoryPoints(ns schema.NullString) float64 {
	if !ns.Valid {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(ns.Value), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// CombineFirst returns primary when present, otherwise fallback.
func CombineFirst(primary, fallback *time.Time) *time.Time {
	if primary != nil {
		return primary
	}
	return fallback
}

// validResolution drops the zero and epoch sentinels so they do not date a record.
func validResolution(resolved *time.Time) *time.Time {
	if resolved == nil || contract.IsZeroOrEpoch(*resolved) {
		return nil
	}
	return resolved
}

// parseTime parses a nullable timestamp cell into a pointer, nil on failure.
func parseTime(ns schema.NullString) *time.Time {
	if !ns.Valid {
		return nil
	}
	t, ok := contract.ParseTimestamp(ns.Value)
	if !ok {
		return nil
	}
	return &t
}
