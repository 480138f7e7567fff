// Package contract provides interfaces and shared utilities for the qualgate CLI's internal architecture.
package contract

import (
	"context"
	"strings"
	"time"

	"github.com/qualgate/qualgate/schema"
)

// DiffEntry is one line of a name-status diff between two refs.
type DiffEntry struct {
	Status string // Git status letter (M, A, D, R100, ...)
	Path   string // Path at the target ref
}

// Deleted reports whether the entry describes a file removed between the
// base and target refs. Deleted files must never reach gate dispatch.
func (e DiffEntry) Deleted() bool {
	return strings.HasPrefix(e.Status, "D")
}

// GitClient defines the version-control operations needed for scope
// resolution and baseline tracking. This allows the core logic to be tested
// without a real git executable.
type GitClient interface {
	// Run executes a git command and returns the output. Its use should be
	// minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// GetRepoRoot returns the absolute path to the root of the Git
	// repository containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// GetHeadSHA returns the current HEAD commit hash of the repository.
	GetHeadSHA(ctx context.Context, repoPath string) (string, error)

	// GetCurrentBranch returns the checked-out branch name.
	GetCurrentBranch(ctx context.Context, repoPath string) (string, error)

	// GetDiffNameStatus returns the name-status entries between baseRef and
	// targetRef, including delete-status entries. Callers decide filtering.
	GetDiffNameStatus(ctx context.Context, repoPath string, baseRef, targetRef string) ([]DiffEntry, error)
}

// StateStore defines access to the persisted workflow state file. Baseline
// records live under a dedicated sub-key; sibling state owned by other
// features is preserved verbatim on every write.
type StateStore interface {
	// ParentBranch reads the top-level parent_branch key, or "" when unset.
	ParentBranch() (string, error)

	// LoadBaseline returns the baseline record for a branch. A missing
	// record comes back as a zero value, not an error.
	LoadBaseline(branch string) (schema.BaselineRecord, error)

	// SaveBaseline persists the baseline record for a branch.
	SaveBaseline(branch string, rec schema.BaselineRecord) error

	// ResetBaseline removes the baseline record for a branch.
	ResetBaseline(branch string) error
}

// ExecResult is the outcome of one external tool invocation.
type ExecResult struct {
	Argv     []string      // The resolved command line that actually ran
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// ToolRunner executes external analysis commands with environment-aware
// binary resolution. A non-zero exit is not an error; errors mean the
// process could not be launched at all.
type ToolRunner interface {
	Run(ctx context.Context, workdir string, argv []string) (ExecResult, error)
}

// ArtifactStore defines the interface for the run artifact log. Raw tool
// output and command invocations belong here and only here.
type ArtifactStore interface {
	// BeginRun creates a new run record and returns its unique ID.
	BeginRun(startTime time.Time, requestedScope, effectiveScope string, fileCount int) (int64, error)

	// RecordGateExecution stores one gate's raw execution detail.
	RecordGateExecution(runID int64, gateID, commandLine string, exitCode int, rawOutput string, durationMs int64) error

	// EndRun updates the run record with completion data.
	EndRun(runID int64, endTime time.Time, overallPass bool) error

	// GetAllRunRecords returns every run record, oldest first.
	GetAllRunRecords() ([]schema.ArtifactRunRecord, error)

	// GetAllGateRecords returns every gate execution record, oldest first.
	GetAllGateRecords() ([]schema.ArtifactGateRecord, error)

	// GetStatus returns status information about the artifact store.
	GetStatus() (schema.ArtifactStatus, error)

	// Clear removes all stored records.
	Clear() error

	// Close closes the underlying connection.
	Close() error
}

// ArtifactManager defines the interface for managing the artifact store.
// This allows the artifact layer to be mocked for testing.
type ArtifactManager interface {
	GetArtifactStore() ArtifactStore
}
