package schema

// Custom string types for type safety.
type (
	// Metric names one of the bucketed series tracked per project.
	Metric string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the SQL record source.
	DatabaseBackend string

	// ImageFormat represents the encoding of rendered charts.
	ImageFormat string
)

// All tracked metrics.
const (
	StoryPointsMetric Metric = "story_points"
	CycleTimeMetric   Metric = "cycle_time"
	CountMetric       Metric = "count"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All source backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default, read CSV files
)

// All image formats supported.
const (
	PNGImage  ImageFormat = "png" // default
	JPEGImage ImageFormat = "jpg"
)

// Input column headers as exported by the issue tracker.
const (
	SummaryColumn     = "Summary"
	ProjectColumn     = "Project name"
	StoryPointsColumn = "Custom field (Story Points)"
	DescriptionColumn = "Description"
	UpdatedColumn     = "Updated"
	CreatedColumn     = "Created"
	ResolvedColumn    = "Resolved"
)

// Output file naming.
const (
	DefaultSummaryFile = "summary_data.txt"
	TimeseriesSuffix   = "-Timeseries"
	HistogramSuffix    = "-Hist"
)

// AllMetrics lists the tracked metrics in panel order.
var AllMetrics = []Metric{StoryPointsMetric, CycleTimeMetric, CountMetric}

// InputColumns lists the recognised input headers in canonical order.
var InputColumns = []string{
	SummaryColumn,
	ProjectColumn,
	StoryPointsColumn,
	DescriptionColumn,
	UpdatedColumn,
	CreatedColumn,
	ResolvedColumn,
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid source backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidImageFormats lists all valid chart encodings.
var ValidImageFormats = map[ImageFormat]struct{}{
	PNGImage:  {},
	JPEGImage: {},
}

// Title returns the human label used for chart panels and table headers.
func (m Metric) Title() string {
	switch m {
	case StoryPointsMetric:
		return "Story Points"
	case CycleTimeMetric:
		return "Cycle Time"
	case CountMetric:
		return "Count"
	default:
		return string(m)
	}
}
