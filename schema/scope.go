package schema

import "fmt"

// ScopeMode determines which files are candidates for gate evaluation.
type ScopeMode string

// Supported scope modes.
const (
	AutoScope    ScopeMode = "auto"    // Changed-since-baseline plus known-failing files
	BranchScope  ScopeMode = "branch"  // Diff against the configured parent branch
	ProjectScope ScopeMode = "project" // Configured project-wide glob expansion
	FilesScope   ScopeMode = "files"   // Caller-supplied paths, directories expanded
)

// ParseScopeMode validates a raw scope string.
func ParseScopeMode(s string) (ScopeMode, error) {
	switch ScopeMode(s) {
	case AutoScope, BranchScope, ProjectScope, FilesScope:
		return ScopeMode(s), nil
	default:
		return "", fmt.Errorf("unrecognized scope %q. Must be auto, branch, project, or files", s)
	}
}

// ScopeRequest is the caller input for one gate run.
type ScopeRequest struct {
	Mode  ScopeMode
	Files []string // Required and non-empty only when Mode == FilesScope
}

// Validate rejects malformed requests before any gate executes.
func (r ScopeRequest) Validate() error {
	if _, err := ParseScopeMode(string(r.Mode)); err != nil {
		return err
	}
	if r.Mode == FilesScope && len(r.Files) == 0 {
		return fmt.Errorf("scope %q requires at least one file or directory path", FilesScope)
	}
	if r.Mode != FilesScope && len(r.Files) > 0 {
		return fmt.Errorf("file paths are only accepted with scope %q, got scope %q", FilesScope, r.Mode)
	}
	return nil
}
