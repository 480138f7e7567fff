package cmd

import (
	"fmt"

	"github.com/qualgate/qualgate/internal/artifactlog"
	"github.com/qualgate/qualgate/internal/contract"
	"github.com/qualgate/qualgate/internal/outwriter"
	"github.com/qualgate/qualgate/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// artifactsSetup loads minimal configuration needed for artifact operations.
// This is used by commands that need artifact access without full shared setup.
func artifactsSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get artifact-related config values
	backendStr := viper.GetString("artifact-backend")
	connStr := viper.GetString("artifact-db-connect")

	backend, ok := schema.ParseDatabaseBackend(backendStr)
	if !ok {
		return fmt.Errorf("unsupported artifact backend %q. Must be sqlite, mysql, postgresql, or none", backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Get output-related config values (used by export command)
	cfg.Output, _ = schema.ParseOutputMode(viper.GetString("output"))
	cfg.OutputFile = viper.GetString("output-file")
	cfg.ArtifactBackend = backend
	cfg.ArtifactDBConnect = connStr

	// Initialize the artifact log with the loaded config
	if err := artifactlog.InitArtifactLog(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize artifact log: %w", err)
	}

	return nil
}

// artifactsSetupWrapper wraps artifactsSetup to provide PreRunE for artifact commands.
func artifactsSetupWrapper(_ *cobra.Command, _ []string) error {
	return artifactsSetup()
}

// artifactsMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func artifactsMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backendStr := viper.GetString("artifact-backend")
	connStr := viper.GetString("artifact-db-connect")

	backend, ok := schema.ParseDatabaseBackend(backendStr)
	if !ok {
		return fmt.Errorf("unsupported artifact backend %q. Must be sqlite, mysql, postgresql, or none", backendStr)
	}

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetArtifactDBFilePath()
	}

	cfg.ArtifactBackend = backend
	cfg.ArtifactDBConnect = connStr

	return nil
}

// artifactsMigrateSetupWrapper wraps artifactsMigrateSetup to provide PreRunE for migrate command.
func artifactsMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return artifactsMigrateSetup()
}

// artifactsCmd focused on artifact log management.
//
// Note: Artifact subcommands use minimal initialization (artifactsSetup)
// instead of the full sharedSetup used by the run command. This avoids Git
// repo validation and gate catalog processing for simple log operations.
var artifactsCmd = &cobra.Command{
	Use:   "artifacts",
	Short: "Manage the gate run artifact log",
	Long: `Manage the artifact log that records every gate run.

When enabled, qualgate records for every run:
- Run metadata (timestamp, scope, file count, verdict)
- Every gate invocation with its full command line, exit code and raw output

Raw tool output lives only here; the agent-facing response stays compact.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show artifact log statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all recorded data
  migrate - Run database schema migrations

Examples:
  # Check what has been recorded
  qualgate artifacts status

  # Export for analysis in pandas/DuckDB
  qualgate artifacts export --output-file gate-runs.parquet`,
}

// artifactsStatusCmd shows artifact log status.
var artifactsStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display artifact log statistics and connection details",
	PreRunE: artifactsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := artifactlog.Manager.GetArtifactStore()
		if store == nil {
			fmt.Println("Artifact logging is disabled. Set --artifact-backend to enable it.")
			return
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get artifact status", err)
		}
		if err := outwriter.NewOutWriter().WriteArtifactStatus(status, cfg); err != nil {
			contract.LogFatal("Failed to write artifact status", err)
		}
	},
}

// artifactsClearCmd clears the artifact data.
var artifactsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded run and gate execution data",
	Long: `Delete all stored run records and raw gate output.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  qualgate artifacts export --output-file backup.parquet
  qualgate artifacts clear`,
	PreRunE: artifactsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := artifactlog.ClearArtifacts(cfg.ArtifactBackend, contract.GetArtifactDBFilePath(), cfg.ArtifactDBConnect); err != nil {
			contract.LogFatal("Failed to clear artifact data", err)
		}
		fmt.Println("Artifact data cleared successfully.")
	},
}

// artifactsExportCmd exports artifact data to Parquet files.
var artifactsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded runs to Parquet for analytics",
	Long: `Export all stored artifact data to Parquet format.

Exports two datasets:
- Run records - metadata about each gate run
- Gate executions - per-gate command lines, exit codes and raw output

Requires: --output-file parameter

Examples:
  # Export all data
  qualgate artifacts export --output-file gate-data.parquet

  # Use with DuckDB for analysis
  qualgate artifacts export --output-file data.parquet
  duckdb -c "SELECT * FROM read_parquet('data.parquet.runs.parquet') LIMIT 10"`,
	PreRunE: artifactsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := artifactlog.ExecuteArtifactExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export artifact data", err)
		}
	},
}

// artifactsMigrateCmd runs database migrations for the artifact log.
var artifactsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the artifact log.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  qualgate artifacts migrate

  # Migrate to specific version
  qualgate artifacts migrate --target-version 1

  # Rollback everything
  qualgate artifacts migrate --target-version 0`,
	PreRunE: artifactsMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := artifactlog.MigrateArtifactLog(cfg.ArtifactBackend, cfg.ArtifactDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
