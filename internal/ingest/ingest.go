// Package ingest loads raw issue records from CSV exports or a SQL database.
package ingest

import (
	"fmt"
	"strings"

	"github.com/huangsam/cadence/internal/contract"
	"github.com/huangsam/cadence/schema"
)

// field identifies one recognised input column.
type field int

const (
	summaryField field = iota
	projectField
	storyPointsField
	descriptionField
	updatedField
	createdField
	resolvedField
	fieldCount
)

// columnAliases maps normalized header names to fields.
// Both the tracker export headers and snake_case database columns are accepted.
var columnAliases = map[string]field{
	"summary":                     summaryField,
	"project_name":                projectField,
	"project":                     projectField,
	"custom_field_(story_points)": storyPointsField,
	"story_points":                storyPointsField,
	"description":                 descriptionField,
	"updated":                     updatedField,
	"created":                     createdField,
	"resolved":                    resolvedField,
}

// nullTokens are cell values read as missing, matching common CSV readers.
var nullTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// NewSource builds the record source selected by the configuration.
func NewSource(cfg *contract.Config) (contract.RecordSource, error) {
	if cfg.UsesDatabase() {
		return NewSQLSource(cfg.SourceBackend, cfg.SourceDBConnect, cfg.SourceQuery)
	}
	if cfg.InputDir == "" {
		return nil, fmt.Errorf("input directory is required: %w", contract.ErrNoInput)
	}
	return NewCSVDirSource(cfg.InputDir), nil
}

// normalizeHeader lowercases a header and joins its words with underscores.
func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.Join(strings.Fields(strings.ToLower(h)), "_")
}

// mapColumns returns the column position of every recognised field, or -1.
// The first occurrence of a duplicated header wins.
func mapColumns(headers []string) [fieldCount]int {
	var idx [fieldCount]int
	for i := range idx {
		idx[i] = -1
	}
	for pos, h := range headers {
		f, ok := columnAliases[normalizeHeader(h)]
		if !ok || idx[f] >= 0 {
			continue
		}
		idx[f] = pos
	}
	return idx
}

// cell wraps a raw value as a NullString, treating null tokens as missing.
func cell(value string, present bool) schema.NullString {
	if !present {
		return schema.NullString{}
	}
	if _, isNull := nullTokens[strings.TrimSpace(value)]; isNull {
		return schema.NullString{}
	}
	return schema.NullString{Value: value, Valid: true}
}

// buildRecord assembles a raw record from one row using the column mapping.
func buildRecord(source string, idx [fieldCount]int, row []schema.NullString) schema.RawRecord {
	get := func(f field) schema.NullString {
		pos := idx[f]
		if pos < 0 || pos >= len(row) {
			return schema.NullString{}
		}
		return row[pos]
	}
	return schema.RawRecord{
		Source:      source,
		Summary:     get(summaryField),
		Project:     get(projectField),
		StoryPoints: get(storyPointsField),
		Description: get(descriptionField),
		Updated:     get(updatedField),
		Created:     get(createdField),
		Resolved:    get(resolvedField),
	}
}
