package core

import (
	"encoding/json"
	"fmt"

	"github.com/qualgate/qualgate/schema"
)

// Status icons for the summary line. Nothing-to-check is deliberately
// distinct from the attention icon: a clean empty scope and a skip that
// deserves a human look must not read the same.
const (
	iconPass      = "✅"
	iconFail      = "❌"
	iconNothing   = "✨"
	iconAttention = "⚠️"
)

// BuildSummaryLine renders the single human-readable response line:
// {icon} {message} [{scope} · {n} files] — {duration}ms.
func BuildSummaryLine(result *schema.RunResult) string {
	icon, message := summarize(result)
	return fmt.Sprintf("%s %s [%s · %d files] — %dms",
		icon, message, result.EffectiveScope, len(result.Files), result.Duration.Milliseconds())
}

// BuildCompactPayload renders the agent-facing JSON payload: the overall
// pass flag and the per-gate tagged results, nothing more.
func BuildCompactPayload(result *schema.RunResult) ([]byte, error) {
	data, err := json.Marshal(result.Compact())
	if err != nil {
		return nil, fmt.Errorf("could not encode compact payload: %w", err)
	}
	return data, nil
}

func summarize(result *schema.RunResult) (icon, message string) {
	switch {
	case !result.Pass():
		total := 0
		failed := 0
		for _, g := range result.Gates {
			if g.Status == schema.GateFailed {
				failed++
				total += len(g.Violations)
			}
		}
		return iconFail, fmt.Sprintf("%d violation(s) across %d gate(s)", total, failed)
	case result.AllSkipped() && len(result.Files) == 0 && len(result.Warnings) == 0:
		return iconNothing, "nothing to check"
	case result.AllSkipped():
		return iconAttention, "no gate evaluated anything; review scope and warnings"
	case len(result.Warnings) > 0:
		return iconAttention, "all gates passed with warnings"
	default:
		return iconPass, "all gates passed"
	}
}
