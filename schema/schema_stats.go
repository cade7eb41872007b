package schema

// ColumnStats is the describe row for one numeric column.
// Every field except Count is NaN when the column has no values.
type ColumnStats struct {
	Name  string
	Count int
	Mean  float64
	Std   float64 // Sample standard deviation, NaN below two values
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

// Describe is a block of descriptive statistics over several columns.
type Describe struct {
	Columns    []ColumnStats
	Unresolved int // Records left out of the cycle time column
}

// Column returns the stats for the named column, if present.
func (d Describe) Column(name string) (ColumnStats, bool) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnStats{}, false
}
