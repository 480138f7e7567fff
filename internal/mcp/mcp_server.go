// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/qualgate/qualgate/internal/contract"
)

// NewMCPServer initializes and configures the quality gate MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, git contract.GitClient, runner contract.ToolRunner, mgr contract.ArtifactManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Quality Gate Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		git:     git,
		runner:  runner,
		mgr:     mgr,
	}

	// --- 1. Tool: run_quality_gates ---
	s.AddTool(mcp.NewTool("run_quality_gates",
		mcp.WithDescription("Run the configured quality gates (lint, format, type checks) over the files in scope and report pass/fail with per-file violations."),
		mcp.WithString("scope", mcp.Description("Scope selection (auto, branch, project, files). Defaults to 'auto'."), mcp.Enum("auto", "branch", "project", "files")),
		mcp.WithArray("files", mcp.Description("Explicit files or directories to check. Required when scope is 'files'."), mcp.WithStringItems()),
	), h.handleRunQualityGates)

	// --- 2. Tool: get_baseline_status ---
	s.AddTool(mcp.NewTool("get_baseline_status",
		mcp.WithDescription("Report the stored baseline commit and carried-over failing files for a branch."),
		mcp.WithString("branch", mcp.Description("Branch to inspect (defaults to the current branch).")),
	), h.handleGetBaselineStatus)

	return s
}

// StartMCPServer starts the quality gate MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, git contract.GitClient, runner contract.ToolRunner, mgr contract.ArtifactManager) error {
	s := NewMCPServer(baseCfg, git, runner, mgr)
	return server.ServeStdio(s)
}
