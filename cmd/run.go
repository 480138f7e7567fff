package cmd

import (
	"os"

	"github.com/qualgate/qualgate/core"
	"github.com/qualgate/qualgate/internal/contract"
	"github.com/qualgate/qualgate/internal/outwriter"
	"github.com/qualgate/qualgate/internal/staterepo"
	"github.com/qualgate/qualgate/internal/toolenv"
	"github.com/qualgate/qualgate/schema"
	"github.com/spf13/cobra"
)

// runCmd executes every configured quality gate over the resolved scope.
var runCmd = &cobra.Command{
	Use:   "run [workspace-path]",
	Short: "Run the configured quality gates over the files in scope.",
	Long: `Resolve which files need checking, run every configured gate over them,
and report a single pass/fail verdict with per-file violations.

Scope selection:
  auto     - Files changed since the branch baseline, plus files that failed
             last time (default). Falls back to project scope on first run.
  branch   - Files changed relative to the parent branch.
  project  - Everything matching the configured project globs.
  files    - Exactly the files and directories given with --files.

Only auto-scope runs advance the baseline: a fully passing run records the
current commit, and a failing run carries the failing files into the next run.

Examples:
  # Check what changed since the last clean run
  qualgate run

  # Check everything in the project
  qualgate run --scope project

  # Check specific paths before committing
  qualgate run --scope files --files app/models.py,app/views/

  # Machine-readable output for tooling
  qualgate run --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		git := contract.NewLocalGitClient(cfg.GitTimeout)
		state := staterepo.NewFileStateStore(cfg.StateFilePath())
		runner := toolenv.NewLocalToolRunner(cfg.GateTimeout)
		var artifacts contract.ArtifactStore
		if artifactManager != nil {
			artifacts = artifactManager.GetArtifactStore()
		}

		orch := core.NewOrchestrator(cfg, git, state, runner, artifacts)
		result, err := orch.Run(rootCtx, schema.ScopeRequest{Mode: cfg.Scope, Files: cfg.Files})
		if err != nil {
			contract.LogFatal("Cannot run quality gates", err)
		}

		if err := outwriter.NewOutWriter().WriteRun(result, cfg); err != nil {
			contract.LogFatal("Cannot write results", err)
		}

		// Non-zero exit keeps CI and pre-commit hooks honest.
		if !result.Pass() {
			os.Exit(1)
		}
	},
}
