package outwriter

import (
	"fmt"
	"io"
	"os"

	"github.com/huangsam/cadence/internal/contract"
	"github.com/huangsam/cadence/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// describeRows lists the statistics rows of a describe table, in order.
var describeRows = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// SummaryFile appends per-project statistics blocks to a text report.
type SummaryFile struct {
	path      string
	precision int
}

var _ contract.SummarySink = &SummaryFile{} // Compile-time check

// NewSummaryFile truncates the report at path and returns a sink for it.
func NewSummaryFile(path string, precision int) (*SummaryFile, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create summary report: %w", err)
	}
	if err := file.Close(); err != nil {
		return nil, err
	}
	return &SummaryFile{path: path, precision: precision}, nil
}

// Path returns the location of the report.
func (s *SummaryFile) Path() string {
	return s.path
}

// Append implements the SummarySink interface. The file is opened and closed
// for every block.
func (s *SummaryFile) Append(report schema.ProjectReport) error {
	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open summary report: %w", err)
	}
	if err := WriteSummaryBlock(file, report, s.precision); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteSummaryBlock writes the statistics block of one project.
func WriteSummaryBlock(w io.Writer, report schema.ProjectReport, precision int) error {
	if _, err := fmt.Fprintf(w, "*****%s*****\n", report.Project); err != nil {
		return err
	}
	if err := writeDescribeTable(w, report.RecordStats, precision); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "unresolved: %d\n\n", report.RecordStats.Unresolved); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "Descriptions"); err != nil {
		return err
	}
	if err := writeDescribeTable(w, report.DescriptionStats, precision); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

// writeDescribeTable renders one statistic per row and one column per variable.
func writeDescribeTable(w io.Writer, d schema.Describe, precision int) error {
	fmtFloat, intFmt := createFormatters(precision)

	table := tablewriter.NewWriter(w)
	headers := []string{""}
	for _, c := range d.Columns {
		headers = append(headers, c.Name)
	}
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, len(describeRows))
	for i, name := range describeRows {
		row := []string{name}
		for _, c := range d.Columns {
			row = append(row, describeCell(c, i, fmtFloat, intFmt))
		}
		data[i] = row
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// describeCell formats statistic i of a column.
func describeCell(c schema.ColumnStats, i int, fmtFloat func(float64) string, intFmt string) string {
	var v float64
	switch i {
	case 0:
		return fmt.Sprintf(intFmt, c.Count)
	case 1:
		v = c.Mean
	case 2:
		v = c.Std
	case 3:
		v = c.Min
	case 4:
		v = c.Q25
	case 5:
		v = c.Q50
	case 6:
		v = c.Q75
	default:
		v = c.Max
	}
	return formatOrMissing(fmtFloat, v, MissingValue)
}
