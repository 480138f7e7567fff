package cmd

import (
	"fmt"

	"github.com/qualgate/qualgate/internal/contract"
	"github.com/qualgate/qualgate/internal/outwriter"
	"github.com/qualgate/qualgate/internal/staterepo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// resolveBaselineBranch returns the branch to operate on, preferring the
// --branch flag over the checked-out branch.
func resolveBaselineBranch() (string, error) {
	if branch := viper.GetString("branch"); branch != "" {
		return branch, nil
	}
	git := contract.NewLocalGitClient(cfg.GitTimeout)
	branch, err := git.GetCurrentBranch(rootCtx, cfg.RepoRoot)
	if err != nil {
		return "", fmt.Errorf("could not determine current branch: %w", err)
	}
	return branch, nil
}

// baselineCmd manages the per-branch baseline state.
var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Inspect and manage per-branch baseline state",
	Long: `Inspect and manage the stored baseline for each branch.

The baseline records the last commit where every gate passed, plus the files
still failing from runs since then. Auto-scope runs use it to decide which
files need checking.

Subcommands:
  status - Show the stored baseline for a branch
  reset  - Forget the baseline so the next auto run checks the whole project

Examples:
  # See what the next auto run will diff against
  qualgate baseline status

  # Force a full re-check on the next auto run
  qualgate baseline reset`,
}

// baselineStatusCmd shows the stored baseline for a branch.
var baselineStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show the stored baseline commit and carried-over failing files",
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		branch, err := resolveBaselineBranch()
		if err != nil {
			contract.LogFatal("Cannot resolve branch", err)
		}

		state := staterepo.NewFileStateStore(cfg.StateFilePath())
		record, err := state.LoadBaseline(branch)
		if err != nil {
			contract.LogFatal("Cannot load baseline state", err)
		}

		if err := outwriter.NewOutWriter().WriteBaselineStatus(branch, record, cfg); err != nil {
			contract.LogFatal("Cannot write baseline status", err)
		}
	},
}

// baselineResetCmd removes the stored baseline for a branch.
var baselineResetCmd = &cobra.Command{
	Use:     "reset",
	Short:   "Forget the baseline so the next auto run checks the whole project",
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		branch, err := resolveBaselineBranch()
		if err != nil {
			contract.LogFatal("Cannot resolve branch", err)
		}

		state := staterepo.NewFileStateStore(cfg.StateFilePath())
		if err := state.ResetBaseline(branch); err != nil {
			contract.LogFatal("Cannot reset baseline state", err)
		}
		fmt.Printf("Baseline for branch %q cleared.\n", branch)
	},
}
