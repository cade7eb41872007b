package schema

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIssueRecordIsUnresolved(t *testing.T) {
	assert.True(t, IssueRecord{CycleTime: math.Inf(1)}.IsUnresolved())
	assert.False(t, IssueRecord{CycleTime: 0}.IsUnresolved())
	assert.False(t, IssueRecord{CycleTime: 12}.IsUnresolved())
	assert.False(t, IssueRecord{CycleTime: math.Inf(-1)}.IsUnresolved())
}

func TestIssueRecordDescriptionLength(t *testing.T) {
	text := "héllo"
	empty := ""
	assert.Equal(t, 0, IssueRecord{}.DescriptionLength())
	assert.Equal(t, 0, IssueRecord{Description: &empty}.DescriptionLength())
	assert.Equal(t, 5, IssueRecord{Description: &text}.DescriptionLength())
}

func TestMetricSeriesChangeIndices(t *testing.T) {
	s := MetricSeries{Changes: []float64{0, 1, 0, 0, 1}}
	assert.Equal(t, []int{1, 4}, s.ChangeIndices())
	assert.Empty(t, MetricSeries{Changes: []float64{0, 0}}.ChangeIndices())
}

func TestProjectReportTotalStoryPoints(t *testing.T) {
	p := ProjectReport{Records: []IssueRecord{{StoryPoints: 1}, {StoryPoints: 2.5}, {StoryPoints: 0}}}
	assert.InDelta(t, 3.5, p.TotalStoryPoints(), 1e-9)
}

func TestDescribeColumn(t *testing.T) {
	d := Describe{Columns: []ColumnStats{{Name: "count", Count: 3}, {Name: "length", Count: 2}}}
	c, ok := d.Column("length")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Count)
	_, ok = d.Column("missing")
	assert.False(t, ok)
}

func TestMetricTitle(t *testing.T) {
	assert.Equal(t, "Story Points", StoryPointsMetric.Title())
	assert.Equal(t, "Cycle Time", CycleTimeMetric.Title())
	assert.Equal(t, "Count", CountMetric.Title())
	assert.Equal(t, "other", Metric("other").Title())
}
