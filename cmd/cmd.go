// Package cmd defines the command-line interface for qualgate.
package cmd

import (
	"github.com/qualgate/qualgate/internal/contract"
	"github.com/qualgate/qualgate/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(baselineCmd)
	rootCmd.AddCommand(artifactsCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the baseline subcommands to the parent baseline command
	baselineCmd.AddCommand(baselineStatusCmd)
	baselineCmd.AddCommand(baselineResetCmd)

	// Add the artifacts subcommands to the parent artifacts command
	artifactsCmd.AddCommand(artifactsStatusCmd)
	artifactsCmd.AddCommand(artifactsClearCmd)
	artifactsCmd.AddCommand(artifactsExportCmd)
	artifactsCmd.AddCommand(artifactsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("scope", "s", string(schema.AutoScope), "Scope selection: auto or branch or project or files")
	rootCmd.PersistentFlags().StringSliceP("files", "f", nil, "Files or directories to check (only with --scope files)")
	rootCmd.PersistentFlags().StringSlice("project-globs", nil, "Glob patterns that define project scope")
	rootCmd.PersistentFlags().String("fallback-parent", contract.DefaultFallbackParent, "Parent branch when no workflow state declares one")
	rootCmd.PersistentFlags().String("gate-timeout", "", "Per-gate subprocess timeout (e.g. 2m, 90s)")
	rootCmd.PersistentFlags().String("git-timeout", "", "Per-git-command timeout (e.g. 30s)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or table or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("state-dir", contract.DefaultStateDir, "Workspace-relative directory holding workflow state")
	rootCmd.PersistentFlags().String("artifact-backend", "", "Artifact log backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("artifact-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable status emoji in the summary line (yes/no)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored output (yes/no)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of baselineStatusCmd and baselineResetCmd to Viper
	baselineCmd.PersistentFlags().String("branch", "", "Branch to inspect (defaults to the current branch)")
	if err := viper.BindPFlags(baselineCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding baseline flags", err)
	}

	// Bind all flags of artifactsMigrateCmd to Viper
	artifactsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(artifactsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding artifacts migrate flags", err)
	}
}
