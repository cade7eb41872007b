// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/cadence/internal/contract"
	"github.com/huangsam/cadence/internal/ingest"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// SourceFactory opens the record source for a tool call's configuration.
type SourceFactory func(cfg *contract.Config) (contract.RecordSource, error)

// NewMCPServer initializes and configures the Cadence MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, newSource SourceFactory) *server.MCPServer {
	s := server.NewMCPServer(
		"Cadence Issue Metrics Server",
		"1.0.0",
		server.WithLogging(),
	)

	if newSource == nil {
		newSource = ingest.NewSource
	}
	h := &toolHandler{
		baseCfg:   baseCfg,
		newSource: newSource,
	}

	// --- 1. Tool: list_projects ---
	s.AddTool(mcp.NewTool("list_projects",
		mcp.WithDescription("List projects with dated issue records, with record totals and change point counts."),
		mcp.WithString("input_dir", mcp.Description("Directory of CSV exports (defaults to the configured input directory).")),
		mcp.WithNumber("bucket_days", mcp.Description("Bucket width in days. Defaults to the configured width.")),
		mcp.WithString("anchor", mcp.Description("Weekday the buckets end on (e.g., 'sunday').")),
	), h.handleListProjects)

	// --- 2. Tool: get_project_buckets ---
	s.AddTool(mcp.NewTool("get_project_buckets",
		mcp.WithDescription("Get the time buckets of one project with rolling standard deviation and change flags."),
		mcp.WithString("project", mcp.Description("Project name as exported by the issue tracker."), mcp.Required()),
		mcp.WithString("input_dir", mcp.Description("Directory of CSV exports.")),
		mcp.WithNumber("bucket_days", mcp.Description("Bucket width in days.")),
		mcp.WithString("anchor", mcp.Description("Weekday the buckets end on.")),
		mcp.WithNumber("window", mcp.Description("Rolling window size in buckets (at least 2).")),
		mcp.WithNumber("threshold", mcp.Description("Cusum step that marks a change point.")),
	), h.handleGetProjectBuckets)

	return s
}

// StartMCPServer starts the Cadence MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config) error {
	s := NewMCPServer(baseCfg, ingest.NewSource)
	return server.ServeStdio(s)
}
