package artifactlog

import (
	"errors"
	"fmt"

	"github.com/qualgate/qualgate/internal/parquet"
)

// ExecuteArtifactExport performs the actual export of artifact data to Parquet files.
func ExecuteArtifactExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Get the artifact store
	store := Manager.GetArtifactStore()
	if store == nil {
		return errors.New("artifact logging is disabled; nothing to export")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get artifact status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no artifact data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total gate executions: %d\n", status.TableSizes[gateExecutionsTable])

	// Retrieve all run records
	runRecords, err := store.GetAllRunRecords()
	if err != nil {
		return fmt.Errorf("failed to retrieve run records: %w", err)
	}

	// Retrieve all gate execution records
	gateRecords, err := store.GetAllGateRecords()
	if err != nil {
		return fmt.Errorf("failed to retrieve gate execution records: %w", err)
	}

	// Convert to Parquet format
	parquetRuns := parquet.ConvertRunRecords(runRecords)
	parquetGates := parquet.ConvertGateRecords(gateRecords)

	// Write run records to Parquet
	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteGateRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write run records: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	// Write gate execution records to Parquet
	gatesFile := outputFile + ".gate_executions.parquet"
	if err := parquet.WriteGateExecutionsParquet(parquetGates, gatesFile); err != nil {
		return fmt.Errorf("failed to write gate execution records: %w", err)
	}
	fmt.Printf("Exported %d gate execution records to: %s\n", len(parquetGates), gatesFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
