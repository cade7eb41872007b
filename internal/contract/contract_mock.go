package contract

import (
	"context"

	"github.com/huangsam/cadence/schema"
	"github.com/stretchr/testify/mock"
)

// MockRecordSource is a mock implementation of RecordSource for testing.
type MockRecordSource struct {
	mock.Mock
}

var _ RecordSource = &MockRecordSource{} // Compile-time check

// Load implements the RecordSource interface.
func (m *MockRecordSource) Load(ctx context.Context) ([]schema.RawRecord, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]schema.RawRecord)
	return records, args.Error(1)
}

// Name implements the RecordSource interface.
func (m *MockRecordSource) Name() string {
	return m.Called().String(0)
}

// MockChartRenderer is a mock implementation of ChartRenderer for testing.
type MockChartRenderer struct {
	mock.Mock
}

var _ ChartRenderer = &MockChartRenderer{} // Compile-time check

// RenderTimeseries implements the ChartRenderer interface.
func (m *MockChartRenderer) RenderTimeseries(report schema.ProjectReport, path string) error {
	return m.Called(report, path).Error(0)
}

// RenderHistogram implements the ChartRenderer interface.
func (m *MockChartRenderer) RenderHistogram(report schema.ProjectReport, path string) error {
	return m.Called(report, path).Error(0)
}

// MockSummarySink is a mock implementation of SummarySink for testing.
type MockSummarySink struct {
	mock.Mock
}

var _ SummarySink = &MockSummarySink{} // Compile-time check

// Append implements the SummarySink interface.
func (m *MockSummarySink) Append(report schema.ProjectReport) error {
	return m.Called(report).Error(0)
}
