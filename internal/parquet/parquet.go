// Package parquet provides data structures and functions for exporting bucket
// tables to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/cadence/schema"
	"github.com/parquet-go/parquet-go"
)

// BucketRecord represents one (project, bucket) row with its change detection data.
type BucketRecord struct {
	// Project is the project name as exported by the issue tracker
	Project string `parquet:"project,snappy,dict"`

	// BucketEnd is the right edge label of the bucket (stored as TIMESTAMP)
	BucketEnd time.Time `parquet:"bucket_end,snappy"`

	// StoryPoints is the sum of story points in the bucket
	StoryPoints float64 `parquet:"story_points,snappy"`

	// CycleTime is the mean finite cycle time in days (nullable when all records are unresolved)
	CycleTime *float64 `parquet:"cycle_time,optional,snappy"`

	// Count is the number of records in the bucket
	Count int32 `parquet:"count,snappy"`

	// Unresolved is the number of records left out of the cycle time mean
	Unresolved int32 `parquet:"unresolved,snappy"`

	// Rolling standard deviations (nullable for the leading window)
	StoryPointsStd *float64 `parquet:"story_points_std,optional,snappy"`
	CycleTimeStd   *float64 `parquet:"cycle_time_std,optional,snappy"`
	CountStd       *float64 `parquet:"count_std,optional,snappy"`

	// Change flags per metric
	StoryPointsChange bool `parquet:"story_points_change"`
	CycleTimeChange   bool `parquet:"cycle_time_change"`
	CountChange       bool `parquet:"count_change"`
}

// ToBucketRecords flattens project reports into Parquet rows, in report order.
func ToBucketRecords(reports []schema.ProjectReport) []BucketRecord {
	var data []BucketRecord
	for _, report := range reports {
		for _, b := range schema.ToBucketOutputs(report) {
			data = append(data, BucketRecord{
				Project:           b.Project,
				BucketEnd:         b.BucketEnd,
				StoryPoints:       b.StoryPoints,
				CycleTime:         b.CycleTime,
				Count:             int32(b.Count),
				Unresolved:        int32(b.Unresolved),
				StoryPointsStd:    b.StoryPointsStd,
				CycleTimeStd:      b.CycleTimeStd,
				CountStd:          b.CountStd,
				StoryPointsChange: b.StoryPointsChange,
				CycleTimeChange:   b.CycleTimeChange,
				CountChange:       b.CountChange,
			})
		}
	}
	return data
}

// WriteBucketsParquet writes a slice of BucketRecord structs to a Parquet file.
func WriteBucketsParquet(data []BucketRecord, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the BucketRecord struct tags
	writer := parquet.NewGenericWriter[BucketRecord](file)

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	// Close flushes the row groups and the footer
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}
