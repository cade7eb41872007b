package parquet

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/cadence/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReports() []schema.ProjectReport {
	first := time.Date(2023, 1, 8, 0, 0, 0, 0, time.UTC)
	second := first.AddDate(0, 0, 14)
	return []schema.ProjectReport{
		{
			Project: "Platform",
			Buckets: []schema.BucketRow{
				{Project: "Platform", BucketEnd: first, StoryPoints: 3, CycleTime: 2, Count: 2},
				{Project: "Platform", BucketEnd: second, StoryPoints: 8, CycleTime: math.NaN(), Count: 1, Unresolved: 1},
			},
			Series: map[schema.Metric]schema.MetricSeries{
				schema.StoryPointsMetric: {RollingStd: []float64{math.NaN(), 3.5}, Changes: []float64{0, 1}},
				schema.CountMetric:       {RollingStd: []float64{math.NaN(), 0.7}, Changes: []float64{0, 0}},
			},
		},
		{
			Project: "Data",
			Buckets: []schema.BucketRow{{Project: "Data", BucketEnd: first, StoryPoints: 1, CycleTime: 4, Count: 1}},
		},
	}
}

func TestBucketRecordStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	s := parquet.SchemaOf(new(BucketRecord))
	require.NotNil(t, s)

	expectedColumns := []string{
		"project",
		"bucket_end",
		"story_points",
		"cycle_time",
		"count",
		"unresolved",
		"story_points_std",
		"cycle_time_std",
		"count_std",
		"story_points_change",
		"cycle_time_change",
		"count_change",
	}
	for _, colName := range expectedColumns {
		col, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestToBucketRecords(t *testing.T) {
	data := ToBucketRecords(sampleReports())
	require.Len(t, data, 3)

	assert.Equal(t, "Platform", data[0].Project)
	require.NotNil(t, data[0].CycleTime)
	assert.Equal(t, 2.0, *data[0].CycleTime)
	assert.Nil(t, data[0].StoryPointsStd)

	assert.Nil(t, data[1].CycleTime)
	assert.Equal(t, int32(1), data[1].Unresolved)
	assert.True(t, data[1].StoryPointsChange)
	assert.Nil(t, data[1].CycleTimeStd, "missing series should stay null")

	assert.Equal(t, "Data", data[2].Project)
}

func TestWriteBucketsParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "buckets.parquet")

	data := ToBucketRecords(sampleReports())
	require.NoError(t, WriteBucketsParquet(data, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[BucketRecord](file)
	defer reader.Close()

	readData := make([]BucketRecord, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	require.Equal(t, len(data), n, "Should read all records")

	for i := range data {
		assert.Equal(t, data[i].Project, readData[i].Project)
		assert.True(t, data[i].BucketEnd.Equal(readData[i].BucketEnd), "BucketEnd should match")
		assert.Equal(t, data[i].Count, readData[i].Count)
		assert.Equal(t, data[i].StoryPointsChange, readData[i].StoryPointsChange)
		if data[i].CycleTime == nil {
			assert.Nil(t, readData[i].CycleTime)
		} else {
			require.NotNil(t, readData[i].CycleTime)
			assert.Equal(t, *data[i].CycleTime, *readData[i].CycleTime)
		}
	}
}

func TestWriteBucketsParquet_EmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteBucketsParquet([]BucketRecord{}, outputPath))
	_, err := os.Stat(outputPath)
	assert.NoError(t, err)
}

func TestWriteBucketsParquet_InvalidPath(t *testing.T) {
	err := WriteBucketsParquet(nil, "/nonexistent/dir/out.parquet")
	assert.Error(t, err)
}
