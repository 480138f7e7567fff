package core

import (
	"strings"

	"github.com/qualgate/qualgate/internal/contract"
	"github.com/qualgate/qualgate/schema"
)

// messageSanitizer collapses characters that would break a single-line
// message: newlines become a visible separator, non-breaking spaces become
// plain spaces. Informational content is preserved, not dropped.
var messageSanitizer = strings.NewReplacer(
	"\r\n", "; ",
	"\n", "; ",
	"\r", "; ",
	" ", " ",
	" ", " ",
)

// NormalizeViolations is the one centralized point where every violation is
// brought to the shared contract, regardless of which parsing strategy
// produced it: workspace-relative forward-slash paths, single-line messages
// and canonical severities.
func NormalizeViolations(repoRoot string, violations []schema.Violation) []schema.Violation {
	out := make([]schema.Violation, len(violations))
	for i, v := range violations {
		v.File = contract.WorkspaceRelative(repoRoot, v.File)
		v.Message = strings.TrimSpace(messageSanitizer.Replace(v.Message))
		v.Severity = canonicalSeverity(v.Severity)
		out[i] = v
	}
	return out
}

// canonicalSeverity folds tool-specific severity spellings into the three
// normalized levels. Anything unrecognized is treated as an error rather
// than leaving the field unset.
func canonicalSeverity(s schema.Severity) schema.Severity {
	switch strings.ToLower(strings.TrimSpace(string(s))) {
	case "warning", "warn":
		return schema.SeverityWarning
	case "information", "info", "informational", "note", "hint":
		return schema.SeverityInformation
	default:
		return schema.SeverityError
	}
}
