package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/cadence/internal/contract"
	"github.com/huangsam/cadence/schema"
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
				schema.StoryPointsMetric: {RollingStd: []float64{math.NaN(), 3.5355}, Changes: []float64{0, 1}},
				schema.CycleTimeMetric:   {RollingStd: []float64{math.NaN(), math.NaN()}, Changes: []float64{0, 0}},
				schema.CountMetric:       {RollingStd: []float64{math.NaN(), 0.7071}, Changes: []float64{0, 0}},
			},
			Records: []schema.IssueRecord{
				{Project: "Platform", StoryPoints: 1, CycleTime: 2, Count: 1},
				{Project: "Platform", StoryPoints: 2, CycleTime: 2, Count: 1},
				{Project: "Platform", StoryPoints: 8, CycleTime: math.Inf(1), Count: 1},
			},
		},
	}
}

func bucketConfig(t *testing.T, output schema.OutputMode, file string) *contract.Config {
	t.Helper()
	return &contract.Config{
		Output:        output,
		OutputFile:    file,
		Precision:     2,
		Width:         200,
		BucketDays:    14,
		Anchor:        time.Sunday,
		SourceBackend: schema.NoneBackend,
	}
}

func TestWriteBucketsTable(t *testing.T) {
	cfg := bucketConfig(t, schema.TextOut, "")
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	require.NoError(t, writeBucketsTable(&buf, sampleReports(), cfg, fmtFloat, intFmt, time.Second))

	out := buf.String()
	assert.Contains(t, out, "Platform")
	assert.Contains(t, out, "2023-01-22")
	assert.Contains(t, out, "3.54")
	assert.Contains(t, out, contract.ChangeValue)
	assert.Contains(t, out, MissingValue)
	assert.Contains(t, out, "Showing 2 buckets across 1 projects (bucket: 14 days, anchor: Sunday)")
}

func TestWriteBucketsCSV(t *testing.T) {
	fmtFloat, _ := createFormatters(1)
	var buf bytes.Buffer
	require.NoError(t, writeBucketsCSV(&buf, sampleReports(), fmtFloat))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, bucketCSVHeader, rows[0])
	assert.Equal(t, []string{"Platform", "2023-01-08", "3.0", "2.0", "2", "0", "", "", "", "-", "-", "-"}, rows[1])
	assert.Equal(t, "", rows[2][3], "unresolved-only bucket has no cycle time")
	assert.Equal(t, "3.5", rows[2][6])
	assert.Equal(t, contract.ChangeValue, rows[2][9])
}

func TestWriteBucketsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeBucketsJSON(&buf, sampleReports()))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Platform", decoded[0]["project"])
	assert.Equal(t, float64(3), decoded[0]["records"])
	assert.Equal(t, float64(1), decoded[0]["changes"])

	buckets, ok := decoded[0]["buckets"].([]any)
	require.True(t, ok)
	require.Len(t, buckets, 2)
	second := buckets[1].(map[string]any)
	assert.Nil(t, second["cycle_time"])
	assert.Equal(t, true, second["story_points_change"])
}

func TestWriteBuckets_Files(t *testing.T) {
	dir := t.TempDir()
	for _, mode := range []schema.OutputMode{schema.TextOut, schema.CSVOut, schema.JSONOut, schema.ParquetOut} {
		t.Run(string(mode), func(t *testing.T) {
			path := filepath.Join(dir, "buckets."+string(mode))
			cfg := bucketConfig(t, mode, path)
			require.NoError(t, WriteBuckets(sampleReports(), cfg, time.Second))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Greater(t, info.Size(), int64(0))
		})
	}
}

func TestGetMaxTableProjectWidth(t *testing.T) {
	assert.Equal(t, 10, GetMaxTableProjectWidth(&contract.Config{Width: 60}))
	assert.Equal(t, 40, GetMaxTableProjectWidth(&contract.Config{Width: 400}))
	w := GetMaxTableProjectWidth(&contract.Config{Width: 140})
	assert.Equal(t, 140-12-30-30-24-30, w)
	assert.True(t, strings.HasPrefix(contract.TruncateText("A very long project name indeed", 10), "A very "))
}
