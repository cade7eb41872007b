// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/huangsam/cadence/internal/contract"
	"github.com/huangsam/cadence/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteBuckets prints bucket tables using the configured output format.
func (ow *OutWriter) WriteBuckets(reports []schema.ProjectReport, cfg *contract.Config, duration time.Duration) error {
	return WriteBuckets(reports, cfg, duration)
}

// NewSummary creates the summary report sink at the configured path.
func (ow *OutWriter) NewSummary(cfg *contract.Config) (*SummaryFile, error) {
	return NewSummaryFile(cfg.SummaryPath(), cfg.Precision)
}

// GetMaxTableProjectWidth calculates the maximum width for project names in
// table output based on terminal width and table configuration.
func GetMaxTableProjectWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Bucket End + three metrics + three std + three change labels
	baseWidth := 12 + 3*10 + 3*10 + 3*8

	// Reserve space for table borders, separators, and padding
	baseWidth += 30

	available := termWidth - baseWidth
	if available < 10 {
		return 10
	}
	if available > 40 {
		return 40
	}
	return available
}
