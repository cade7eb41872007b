package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/huangsam/cadence/internal/contract"
	mcp_internal "github.com/huangsam/cadence/internal/mcp"
	"github.com/huangsam/cadence/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func cell(s string) schema.NullString {
	return schema.NullString{Value: s, Valid: s != ""}
}

func sampleRows() []schema.RawRecord {
	row := func(project, points, created, resolved string) schema.RawRecord {
		return schema.RawRecord{
			Project:     cell(project),
			StoryPoints: cell(points),
			Created:     cell(created),
			Resolved:    cell(resolved),
			Updated:     cell(resolved),
		}
	}
	return []schema.RawRecord{
		row("Platform", "3", "2023-01-01", "2023-01-05"),
		row("Platform", "5", "2023-01-02", "2023-02-15"),
		row("Data", "1", "2023-01-03", "2023-01-06"),
	}
}

func newTestServer(t *testing.T, rows []schema.RawRecord, loadErr error) (*contract.MockRecordSource, func(name string, args map[string]any) *mcp.CallToolResult) {
	t.Helper()
	baseCfg := &contract.Config{
		InputDir:   "raw_data",
		BucketDays: contract.DefaultBucketDays,
		Window:     contract.DefaultWindow,
		Threshold:  contract.DefaultThreshold,
	}
	source := &contract.MockRecordSource{}
	source.On("Load", mock.Anything).Return(rows, loadErr)
	source.On("Name").Return("mock source").Maybe()

	s := mcp_internal.NewMCPServer(baseCfg, func(*contract.Config) (contract.RecordSource, error) {
		return source, nil
	})

	call := func(name string, args map[string]any) *mcp.CallToolResult {
		tool := s.GetTool(name)
		require.NotNil(t, tool, "Tool %s should exist", name)
		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{Name: name, Arguments: args},
		}
		res, err := tool.Handler(context.Background(), req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		require.NotNil(t, res)
		return res
	}
	return source, call
}

func text(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestListProjects(t *testing.T) {
	_, call := newTestServer(t, sampleRows(), nil)

	res := call("list_projects", map[string]any{})
	require.False(t, res.IsError, text(res))

	var summaries []schema.ProjectSummary
	require.NoError(t, json.Unmarshal([]byte(text(res)), &summaries))
	require.Len(t, summaries, 2)
	assert.Equal(t, "Data", summaries[0].Project)
	assert.Equal(t, "Platform", summaries[1].Project)
	assert.Equal(t, 8.0, summaries[1].TotalStoryPoints)
	assert.Equal(t, 2, summaries[1].Records)
}

func TestGetProjectBuckets(t *testing.T) {
	_, call := newTestServer(t, sampleRows(), nil)

	res := call("get_project_buckets", map[string]any{"project": "Platform", "bucket_days": 7.0, "anchor": "mon"})
	require.False(t, res.IsError, text(res))

	var payload struct {
		Project string                `json:"project"`
		Buckets []schema.BucketOutput `json:"buckets"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(res)), &payload))
	assert.Equal(t, "Platform", payload.Project)
	require.Len(t, payload.Buckets, 2)
	assert.Equal(t, "Monday", payload.Buckets[0].BucketEnd.Weekday().String())
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	_, call := newTestServer(t, sampleRows(), nil)

	tests := []struct {
		name     string
		tool     string
		args     map[string]any
		contains string
	}{
		{"missing project", "get_project_buckets", map[string]any{}, "project is required"},
		{"unknown project", "get_project_buckets", map[string]any{"project": "Nope"}, "no projects with dated records"},
		{"bad anchor", "list_projects", map[string]any{"anchor": "someday"}, "invalid anchor weekday"},
		{"negative bucket days", "list_projects", map[string]any{"bucket_days": -3.0}, "bucket_days must be greater than 0"},
		{"small window", "get_project_buckets", map[string]any{"project": "Platform", "window": 1.0}, "window must be at least 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := call(tt.tool, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, text(res), tt.contains)
		})
	}
}

func TestListProjects_LoadError(t *testing.T) {
	_, call := newTestServer(t, nil, contract.ErrNoInput)

	res := call("list_projects", map[string]any{})
	assert.True(t, res.IsError)
	assert.Contains(t, text(res), "no input records found")
}
