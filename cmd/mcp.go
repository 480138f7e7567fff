package cmd

import (
	"github.com/qualgate/qualgate/internal/artifactlog"
	"github.com/qualgate/qualgate/internal/contract"
	"github.com/qualgate/qualgate/internal/mcp"
	"github.com/qualgate/qualgate/internal/toolenv"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the quality gate MCP server",
	Long:  `Launch an MCP server that allows AI agents to run quality gates and inspect baseline state via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Stdio carries the protocol, so setup must not print to stdout.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		git := contract.NewLocalGitClient(cfg.GitTimeout)
		runner := toolenv.NewLocalToolRunner(cfg.GateTimeout)
		return mcp.StartMCPServer(rootCtx, cfg, git, runner, artifactlog.Manager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
