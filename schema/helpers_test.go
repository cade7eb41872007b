package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Platform", "Platform"},
		{"Data Team", "Data Team"},       // inner spaces survive
		{"ops/infra", "ops_infra"},       // separator
		{`win\path`, "win_path"},         // backslash
		{"a:b*c?d", "a_b_c_d"},           // reserved characters
		{"  padded  ", "padded"},         // whitespace
		{"..hidden..", "hidden"},         // dots at the ends
		{"tab\there", "tab_here"},        // control character
		{"", "project"},                  // empty
		{"...", "project"},               // only dots
		{"Équipe Données", "Équipe Données"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFileName(tt.name))
		})
	}
}

func TestChartFileName(t *testing.T) {
	assert.Equal(t, "Platform-Timeseries.png", ChartFileName("Platform", TimeseriesSuffix, PNGImage))
	assert.Equal(t, "ops_infra-Hist.jpg", ChartFileName("ops/infra", HistogramSuffix, JPEGImage))
}
