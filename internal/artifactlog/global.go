package artifactlog

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/qualgate/qualgate/internal/contract"
	"github.com/qualgate/qualgate/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &ArtifactStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// ArtifactStoreManager holds the process-wide artifact store.
type ArtifactStoreManager struct {
	sync.Mutex
	store contract.ArtifactStore
}

var _ contract.ArtifactManager = &ArtifactStoreManager{} // Compile-time check

// GetArtifactStore returns the configured store, or nil when artifact
// logging is disabled.
func (m *ArtifactStoreManager) GetArtifactStore() contract.ArtifactStore {
	m.Lock()
	defer m.Unlock()
	return m.store
}

// InitArtifactLog initializes the global artifact manager. An empty backend
// disables artifact logging entirely.
func InitArtifactLog(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		if backend == "" || backend == schema.NoneBackend {
			return
		}
		store, err := NewArtifactStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize artifact log: %w", err)
			return
		}
		Manager.Lock()
		Manager.store = store
		Manager.Unlock()
	})

	// After once.Do, initErr will contain any error from the initialization block.
	return initErr
}

// CloseArtifactLog should be called on application shutdown.
func CloseArtifactLog() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.store != nil {
			_ = Manager.store.Close()
		}
	})
}

// ClearArtifacts removes all artifact data for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the artifact tables.
// For NoneBackend, it does nothing.
func ClearArtifacts(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			dbFilePath = contract.GetArtifactDBFilePath()
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend:
		return dropArtifactTables("mysql", connStr)

	case schema.PostgreSQLBackend:
		return dropArtifactTables("pgx", connStr)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported artifact backend for clearing: %s", backend)
	}
}

// dropArtifactTables connects to the SQL database and drops the artifact
// tables if they exist.
func dropArtifactTables(driverName, connStr string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	for _, table := range []string{gateExecutionsTable, runsTable} {
		if _, err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
