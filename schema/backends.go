package schema

import "time"

// DatabaseBackend identifies the storage backend for the artifact log.
type DatabaseBackend string

// Supported artifact log backends.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ParseDatabaseBackend validates a raw backend string. Empty input means
// artifact logging stays disabled.
func ParseDatabaseBackend(s string) (DatabaseBackend, bool) {
	switch DatabaseBackend(s) {
	case SQLiteBackend, MySQLBackend, PostgreSQLBackend, NoneBackend:
		return DatabaseBackend(s), true
	case "":
		return NoneBackend, true
	default:
		return "", false
	}
}

// ArtifactStatus holds status information about the artifact log store.
type ArtifactStatus struct {
	Backend       DatabaseBackend
	Connected     bool
	TotalRuns     int64
	LastRunID     int64
	LastRunTime   time.Time
	OldestRunTime time.Time
	TableSizes    map[string]int64
}
