// Package artifactlog stores per-run execution artifacts: which commands
// ran, how they exited and what they printed. This detail is useful for
// debugging gate behavior but is deliberately kept out of the agent-facing
// response payload.
package artifactlog

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"  // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib"  // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"     // SQLite driver
	"github.com/qualgate/qualgate/internal/contract"
	"github.com/qualgate/qualgate/schema"
)

// Table names for the artifact log.
const (
	runsTable           = "qualgate_runs"
	gateExecutionsTable = "qualgate_gate_executions"
)

// ArtifactStoreImpl handles durable artifact storage using various database
// backends.
type ArtifactStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.ArtifactStore = &ArtifactStoreImpl{} // Compile-time check

// NewArtifactStore initializes and returns a new artifact store for the
// given backend. The NoneBackend returns a no-op store.
func NewArtifactStore(backend schema.DatabaseBackend, connStr string) (contract.ArtifactStore, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetArtifactDBFilePath()
		}
		db, err = sql.Open("sqlite3", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite artifact log at %q: %w. Ensure the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		db, err = sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL artifact log: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL artifact log: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.NoneBackend:
		return &ArtifactStoreImpl{db: nil, backend: backend}, nil

	default:
		return nil, fmt.Errorf("unsupported artifact backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	store := &ArtifactStoreImpl{db: db, backend: backend}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// ensureSchema creates the artifact tables when they do not exist yet.
// Versioned changes beyond the initial shape go through Migrate.
func (s *ArtifactStoreImpl) ensureSchema() error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT PRIMARY KEY,
				start_time TIMESTAMP NOT NULL,
				end_time TIMESTAMP NULL,
				requested_scope VARCHAR(16) NOT NULL,
				effective_scope VARCHAR(16) NOT NULL,
				file_count INT NOT NULL,
				overall_pass BOOLEAN NULL
			)`, runsTable),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				gate_id VARCHAR(64) NOT NULL,
				command_line TEXT NOT NULL,
				exit_code INT NOT NULL,
				raw_output TEXT NOT NULL,
				duration_ms BIGINT NOT NULL,
				recorded_at TIMESTAMP NOT NULL
			)`, gateExecutionsTable),
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create artifact tables: %w", err)
		}
	}
	return nil
}

// BeginRun implements the ArtifactStore interface. Run IDs are generated
// client-side so the schema stays portable across backends.
func (s *ArtifactStoreImpl) BeginRun(startTime time.Time, requestedScope, effectiveScope string, fileCount int) (int64, error) {
	if s.db == nil {
		return 0, nil
	}
	runID := startTime.UnixNano()
	query := s.rebind(fmt.Sprintf(
		`INSERT INTO %s (run_id, start_time, requested_scope, effective_scope, file_count) VALUES (?, ?, ?, ?, ?)`, runsTable))
	if _, err := s.db.Exec(query, runID, s.formatTime(startTime), requestedScope, effectiveScope, fileCount); err != nil {
		return 0, fmt.Errorf("failed to insert run record: %w", err)
	}
	return runID, nil
}

// RecordGateExecution implements the ArtifactStore interface.
func (s *ArtifactStoreImpl) RecordGateExecution(runID int64, gateID, commandLine string, exitCode int, rawOutput string, durationMs int64) error {
	if s.db == nil {
		return nil
	}
	query := s.rebind(fmt.Sprintf(
		`INSERT INTO %s (run_id, gate_id, command_line, exit_code, raw_output, duration_ms, recorded_at) VALUES (?, ?, ?, ?, ?, ?, ?)`, gateExecutionsTable))
	if _, err := s.db.Exec(query, runID, gateID, commandLine, exitCode, rawOutput, durationMs, s.formatTime(time.Now())); err != nil {
		return fmt.Errorf("failed to insert gate execution record: %w", err)
	}
	return nil
}

// EndRun implements the ArtifactStore interface.
func (s *ArtifactStoreImpl) EndRun(runID int64, endTime time.Time, overallPass bool) error {
	if s.db == nil {
		return nil
	}
	query := s.rebind(fmt.Sprintf(
		`UPDATE %s SET end_time = ?, overall_pass = ? WHERE run_id = ?`, runsTable))
	if _, err := s.db.Exec(query, s.formatTime(endTime), overallPass, runID); err != nil {
		return fmt.Errorf("failed to update run record: %w", err)
	}
	return nil
}

// GetAllRunRecords implements the ArtifactStore interface.
func (s *ArtifactStoreImpl) GetAllRunRecords() ([]schema.ArtifactRunRecord, error) {
	if s.db == nil {
		return nil, nil
	}
	query := fmt.Sprintf(
		`SELECT run_id, start_time, end_time, requested_scope, effective_scope, file_count, overall_pass FROM %s ORDER BY run_id`, runsTable)
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query run records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.ArtifactRunRecord
	for rows.Next() {
		var rec schema.ArtifactRunRecord
		var start, end sql.NullString
		var pass sql.NullBool
		if s.backend == schema.SQLiteBackend {
			if err := rows.Scan(&rec.RunID, &start, &end, &rec.RequestedScope, &rec.EffectiveScope, &rec.FileCount, &pass); err != nil {
				return nil, fmt.Errorf("failed to scan run record: %w", err)
			}
			rec.StartTime = parseStoredTime(start.String)
			if end.Valid {
				t := parseStoredTime(end.String)
				rec.EndTime = &t
			}
		} else {
			var startT time.Time
			var endT sql.NullTime
			if err := rows.Scan(&rec.RunID, &startT, &endT, &rec.RequestedScope, &rec.EffectiveScope, &rec.FileCount, &pass); err != nil {
				return nil, fmt.Errorf("failed to scan run record: %w", err)
			}
			rec.StartTime = startT
			if endT.Valid {
				rec.EndTime = &endT.Time
			}
		}
		if pass.Valid {
			v := pass.Bool
			rec.OverallPass = &v
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetAllGateRecords implements the ArtifactStore interface.
func (s *ArtifactStoreImpl) GetAllGateRecords() ([]schema.ArtifactGateRecord, error) {
	if s.db == nil {
		return nil, nil
	}
	query := fmt.Sprintf(
		`SELECT run_id, gate_id, command_line, exit_code, raw_output, duration_ms, recorded_at FROM %s ORDER BY run_id, recorded_at`, gateExecutionsTable)
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query gate execution records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.ArtifactGateRecord
	for rows.Next() {
		var rec schema.ArtifactGateRecord
		if s.backend == schema.SQLiteBackend {
			var recorded string
			if err := rows.Scan(&rec.RunID, &rec.GateID, &rec.CommandLine, &rec.ExitCode, &rec.RawOutput, &rec.DurationMs, &recorded); err != nil {
				return nil, fmt.Errorf("failed to scan gate execution record: %w", err)
			}
			rec.RecordedAt = parseStoredTime(recorded)
		} else {
			if err := rows.Scan(&rec.RunID, &rec.GateID, &rec.CommandLine, &rec.ExitCode, &rec.RawOutput, &rec.DurationMs, &rec.RecordedAt); err != nil {
				return nil, fmt.Errorf("failed to scan gate execution record: %w", err)
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetStatus implements the ArtifactStore interface.
func (s *ArtifactStoreImpl) GetStatus() (schema.ArtifactStatus, error) {
	status := schema.ArtifactStatus{Backend: s.backend, TableSizes: map[string]int64{}}
	if s.db == nil {
		return status, nil
	}
	status.Connected = true

	row := s.db.QueryRow(fmt.Sprintf(`SELECT COUNT(*) FROM %s`, runsTable))
	if err := row.Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to count runs: %w", err)
	}
	status.TableSizes[runsTable] = status.TotalRuns

	var gateRows int64
	row = s.db.QueryRow(fmt.Sprintf(`SELECT COUNT(*) FROM %s`, gateExecutionsTable))
	if err := row.Scan(&gateRows); err != nil {
		return status, fmt.Errorf("failed to count gate executions: %w", err)
	}
	status.TableSizes[gateExecutionsTable] = gateRows

	if status.TotalRuns > 0 {
		var lastID, oldestID int64
		if err := s.db.QueryRow(fmt.Sprintf(`SELECT MAX(run_id), MIN(run_id) FROM %s`, runsTable)).Scan(&lastID, &oldestID); err != nil {
			return status, fmt.Errorf("failed to read run id bounds: %w", err)
		}
		status.LastRunID = lastID
		status.LastRunTime = time.Unix(0, lastID)
		status.OldestRunTime = time.Unix(0, oldestID)
	}
	return status, nil
}

// Clear implements the ArtifactStore interface.
func (s *ArtifactStoreImpl) Clear() error {
	if s.db == nil {
		return nil
	}
	for _, table := range []string{gateExecutionsTable, runsTable} {
		if _, err := s.db.Exec(fmt.Sprintf(`DELETE FROM %s`, table)); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// Close implements the ArtifactStore interface.
func (s *ArtifactStoreImpl) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *ArtifactStoreImpl) rebind(query string) string {
	if s.backend != schema.PostgreSQLBackend {
		return query
	}
	var out []byte
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			out = append(out, fmt.Sprintf("$%d", n)...)
			continue
		}
		out = append(out, query[i])
	}
	return string(out)
}

// formatTime normalizes timestamps for storage. SQLite has no native
// timestamp type, so it gets RFC3339 text.
func (s *ArtifactStoreImpl) formatTime(t time.Time) any {
	if s.backend == schema.SQLiteBackend {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return t
}

func parseStoredTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
