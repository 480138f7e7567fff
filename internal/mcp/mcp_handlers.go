package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/qualgate/qualgate/core"
	"github.com/qualgate/qualgate/internal/contract"
	"github.com/qualgate/qualgate/internal/staterepo"
	"github.com/qualgate/qualgate/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	git     contract.GitClient
	runner  contract.ToolRunner
	mgr     contract.ArtifactManager
}

func (h *toolHandler) handleRunQualityGates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()

	req := schema.ScopeRequest{Mode: schema.AutoScope}
	if s := request.GetString("scope", ""); s != "" {
		mode, err := schema.ParseScopeMode(s)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid scope: %v", err)), nil
		}
		req.Mode = mode
	}
	req.Files = request.GetStringSlice("files", nil)

	if err := req.Validate(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid run parameters: %v", err)), nil
	}

	state := staterepo.NewFileStateStore(cfg.StateFilePath())
	orch := core.NewOrchestrator(cfg, h.git, state, h.runner, h.mgr.GetArtifactStore())

	result, err := orch.Run(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("gate run failed: %v", err)), nil
	}

	payload, err := core.BuildCompactPayload(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("gate run failed: %v", err)), nil
	}

	// Two-part response: a human-scannable verdict line first, then the
	// machine-readable payload.
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(core.BuildSummaryLine(result)),
			mcp.NewTextContent(string(payload)),
		},
	}, nil
}

func (h *toolHandler) handleGetBaselineStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()

	branch := request.GetString("branch", "")
	if branch == "" {
		current, err := h.git.GetCurrentBranch(ctx, cfg.RepoRoot)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("could not determine current branch: %v", err)), nil
		}
		branch = current
	}

	state := staterepo.NewFileStateStore(cfg.StateFilePath())
	record, err := state.LoadBaseline(branch)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("could not load baseline state: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(struct {
		Branch      string   `json:"branch"`
		HasBaseline bool     `json:"has_baseline"`
		BaselineSHA string   `json:"baseline_sha,omitempty"`
		FailedFiles []string `json:"failed_files"`
	}{
		Branch:      branch,
		HasBaseline: record.HasBaseline(),
		BaselineSHA: record.BaselineSHA,
		FailedFiles: record.FailedFiles,
	}, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}
