// Package parquet provides data structures and functions for exporting the
// gate run artifact log to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/qualgate/qualgate/schema"
)

// GateRun represents a single orchestrator run with metadata.
// This struct maps to the qualgate_runs database table.
type GateRun struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable, stored as TIMESTAMP with nanosecond precision)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RequestedScope is the scope mode the caller asked for
	RequestedScope string `parquet:"requested_scope,snappy"`

	// EffectiveScope is the scope mode that was actually evaluated
	EffectiveScope string `parquet:"effective_scope,snappy"`

	// FileCount is the number of files in scope for this run
	FileCount int32 `parquet:"file_count,snappy"`

	// OverallPass records whether every gate passed (nullable for unfinished runs)
	OverallPass *bool `parquet:"overall_pass,optional,snappy"`
}

// GateExecution represents one gate invocation within a run.
// This struct maps to the qualgate_gate_executions database table.
type GateExecution struct {
	// RunID references the parent run
	RunID int64 `parquet:"run_id,snappy"`

	// GateID identifies the gate that ran
	GateID string `parquet:"gate_id,snappy"`

	// CommandLine is the full command that was executed
	CommandLine string `parquet:"command_line,snappy"`

	// ExitCode is the subprocess exit code
	ExitCode int32 `parquet:"exit_code,snappy"`

	// RawOutput captures combined stdout and stderr
	RawOutput string `parquet:"raw_output,snappy"`

	// DurationMs is the gate wall-clock duration in milliseconds
	DurationMs int64 `parquet:"duration_ms,snappy"`

	// RecordedAt is when the execution record was stored
	RecordedAt time.Time `parquet:"recorded_at,snappy"`
}

// WriteGateRunsParquet writes a slice of GateRun structs to a Parquet file.
func WriteGateRunsParquet(data []GateRun, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the GateRun struct tags
	writer := parquet.NewGenericWriter[GateRun](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteGateExecutionsParquet writes a slice of GateExecution structs to a Parquet file.
func WriteGateExecutionsParquet(data []GateExecution, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the GateExecution struct tags
	writer := parquet.NewGenericWriter[GateExecution](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertRunRecords converts schema.ArtifactRunRecord to GateRun for Parquet export.
func ConvertRunRecords(records []schema.ArtifactRunRecord) []GateRun {
	result := make([]GateRun, len(records))
	for i, record := range records {
		result[i] = GateRun{
			RunID:          record.RunID,
			StartTime:      record.StartTime,
			EndTime:        record.EndTime,
			RequestedScope: record.RequestedScope,
			EffectiveScope: record.EffectiveScope,
			FileCount:      int32(record.FileCount),
			OverallPass:    record.OverallPass,
		}
	}
	return result
}

// ConvertGateRecords converts schema.ArtifactGateRecord to GateExecution for Parquet export.
func ConvertGateRecords(records []schema.ArtifactGateRecord) []GateExecution {
	result := make([]GateExecution, len(records))
	for i, record := range records {
		result[i] = GateExecution{
			RunID:       record.RunID,
			GateID:      record.GateID,
			CommandLine: record.CommandLine,
			ExitCode:    int32(record.ExitCode),
			RawOutput:   record.RawOutput,
			DurationMs:  record.DurationMs,
			RecordedAt:  record.RecordedAt,
		}
	}
	return result
}
