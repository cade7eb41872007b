package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/huangsam/cadence/core"
	"github.com/huangsam/cadence/internal/contract"
	"github.com/huangsam/cadence/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg   *contract.Config
	newSource SourceFactory
}

// projectBuckets is the payload of get_project_buckets.
type projectBuckets struct {
	schema.ProjectSummary
	Buckets []schema.BucketOutput `json:"buckets"`
}

// configure applies the shared tool arguments on a copy of the base config.
func (h *toolHandler) configure(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if dir := request.GetString("input_dir", ""); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		cfg.InputDir = abs
	}
	if days := request.GetInt("bucket_days", 0); days != 0 {
		if days < 0 {
			return nil, fmt.Errorf("bucket_days must be greater than 0 (received %d)", days)
		}
		cfg.BucketDays = days
	}
	if a := request.GetString("anchor", ""); a != "" {
		anchor, err := contract.ParseWeekday(a)
		if err != nil {
			return nil, err
		}
		cfg.Anchor = anchor
	}
	if w := request.GetInt("window", 0); w != 0 {
		if w < 2 {
			return nil, fmt.Errorf("window must be at least 2 (received %d)", w)
		}
		cfg.Window = w
	}
	if th := request.GetFloat("threshold", -1); th >= 0 {
		cfg.Threshold = th
	}
	return cfg, nil
}

// reports loads and builds every project report for cfg.
func (h *toolHandler) reports(ctx context.Context, cfg *contract.Config) ([]schema.ProjectReport, error) {
	source, err := h.newSource(cfg)
	if err != nil {
		return nil, err
	}
	return core.GetBucketResults(ctx, cfg, source)
}

func (h *toolHandler) handleListProjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configure(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	cfg.ProjectFilter = ""

	reports, err := h.reports(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	summaries := make([]schema.ProjectSummary, len(reports))
	for i, r := range reports {
		summaries[i] = schema.Summarize(r)
	}
	jsonData, _ := json.MarshalIndent(summaries, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetProjectBuckets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := request.GetString("project", "")
	if project == "" {
		return mcp.NewToolResultError("project is required"), nil
	}
	cfg, err := h.configure(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	cfg.ProjectFilter = project

	reports, err := h.reports(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	result := projectBuckets{
		ProjectSummary: schema.Summarize(reports[0]),
		Buckets:        schema.ToBucketOutputs(reports[0]),
	}
	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
