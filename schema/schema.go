// Package schema has configs, models and shared constants for all parts of qualgate.
package schema

// Severity is the normalized severity of a single finding.
type Severity string

// Normalized severity levels reported by gates.
const (
	SeverityError       Severity = "error"
	SeverityWarning     Severity = "warning"
	SeverityInformation Severity = "information"
)

// Violation represents one normalized static-analysis finding.
// It is constructed fresh per gate run from parsed tool output, never persisted.
type Violation struct {
	File     string   `json:"file"`              // Workspace-relative POSIX path, never absolute
	Message  string   `json:"message"`           // Single line, no embedded newlines or NBSP
	Line     *int     `json:"line,omitempty"`    // 1-based; nil for file-level findings
	Col      *int     `json:"col,omitempty"`     // 1-based; nil for file-level findings
	Rule     string   `json:"rule,omitempty"`    // Stable linter rule code, if any
	Fixable  bool     `json:"fixable"`           // True when an automated fix is known to exist
	Severity Severity `json:"severity"`          // error, warning or information
}

// GateStatus is the tagged outcome of running one gate.
type GateStatus string

// Gate outcomes. Skipped means the gate's file subset was empty and no
// pass/fail judgement was made.
const (
	GatePassed  GateStatus = "passed"
	GateFailed  GateStatus = "failed"
	GateSkipped GateStatus = "skipped"
)

// GateResult holds the outcome of running one gate.
type GateResult struct {
	ID         string      `json:"id"`
	Status     GateStatus  `json:"status"`
	Violations []Violation `json:"violations"`
}

// FailingFiles returns the distinct set of files that carry at least one
// violation in this result, in first-seen order.
func (r GateResult) FailingFiles() []string {
	seen := make(map[string]bool, len(r.Violations))
	var files []string
	for _, v := range r.Violations {
		if v.File == "" || seen[v.File] {
			continue
		}
		seen[v.File] = true
		files = append(files, v.File)
	}
	return files
}
