package schema

import (
	"slices"
	"sort"
)

// BaselineRecord is the branch-scoped baseline tracking state persisted
// between runs. A zero record means no baseline has been established yet.
type BaselineRecord struct {
	// BaselineSHA is the last commit at which all gates passed. Empty until
	// a fully clean effectively-auto run establishes one.
	BaselineSHA string `json:"baseline_sha,omitempty"`

	// FailedFiles is the sorted set of files known to still be failing as of
	// the last effectively-auto run.
	FailedFiles []string `json:"failed_files"`
}

// HasBaseline reports whether a baseline commit has been established.
func (r BaselineRecord) HasBaseline() bool {
	return r.BaselineSHA != ""
}

// Clone returns a deep copy of the record.
func (r BaselineRecord) Clone() BaselineRecord {
	out := BaselineRecord{BaselineSHA: r.BaselineSHA}
	if r.FailedFiles != nil {
		out.FailedFiles = slices.Clone(r.FailedFiles)
	}
	return out
}

// MergeFailedFiles returns the union of the persisted failed set and the
// files that actually failed in the current run, sorted and deduplicated.
// The previous set is never replaced wholesale.
func (r BaselineRecord) MergeFailedFiles(newlyFailing []string) []string {
	seen := make(map[string]bool, len(r.FailedFiles)+len(newlyFailing))
	merged := make([]string, 0, len(r.FailedFiles)+len(newlyFailing))
	for _, f := range r.FailedFiles {
		if f != "" && !seen[f] {
			seen[f] = true
			merged = append(merged, f)
		}
	}
	for _, f := range newlyFailing {
		if f != "" && !seen[f] {
			seen[f] = true
			merged = append(merged, f)
		}
	}
	sort.Strings(merged)
	return merged
}
