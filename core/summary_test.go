package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qualgate/qualgate/schema"
)

func TestBuildSummaryLineFormat(t *testing.T) {
	result := &schema.RunResult{
		EffectiveScope: schema.BranchScope,
		Files:          []string{"a.py", "b.py"},
		Gates:          []schema.GateResult{{ID: "demo", Status: schema.GatePassed}},
		Duration:       1250 * time.Millisecond,
	}
	assert.Equal(t, "✅ all gates passed [branch · 2 files] — 1250ms", BuildSummaryLine(result))
}

func TestSummarizeBranches(t *testing.T) {
	t.Run("failure counts violations and gates", func(t *testing.T) {
		result := &schema.RunResult{Gates: []schema.GateResult{
			{ID: "a", Status: schema.GateFailed, Violations: []schema.Violation{{Message: "x"}, {Message: "y"}}},
			{ID: "b", Status: schema.GatePassed},
			{ID: "c", Status: schema.GateFailed, Violations: []schema.Violation{{Message: "z"}}},
		}}
		icon, message := summarize(result)
		assert.Equal(t, "❌", icon)
		assert.Equal(t, "3 violation(s) across 2 gate(s)", message)
	})

	t.Run("nothing to check", func(t *testing.T) {
		result := &schema.RunResult{Gates: []schema.GateResult{{ID: "a", Status: schema.GateSkipped}}}
		icon, message := summarize(result)
		assert.Equal(t, "✨", icon)
		assert.Equal(t, "nothing to check", message)
	})

	t.Run("all skipped with files needs attention", func(t *testing.T) {
		result := &schema.RunResult{
			Files: []string{"a.py"},
			Gates: []schema.GateResult{{ID: "a", Status: schema.GateSkipped}},
		}
		icon, _ := summarize(result)
		assert.Equal(t, "⚠️", icon)
	})

	t.Run("pass with warnings needs attention", func(t *testing.T) {
		result := &schema.RunResult{
			Files:    []string{"a.py"},
			Gates:    []schema.GateResult{{ID: "a", Status: schema.GatePassed}},
			Warnings: []string{"diff failed"},
		}
		icon, message := summarize(result)
		assert.Equal(t, "⚠️", icon)
		assert.Equal(t, "all gates passed with warnings", message)
	})

	t.Run("clean pass", func(t *testing.T) {
		result := &schema.RunResult{
			Files: []string{"a.py"},
			Gates: []schema.GateResult{{ID: "a", Status: schema.GatePassed}},
		}
		icon, message := summarize(result)
		assert.Equal(t, "✅", icon)
		assert.Equal(t, "all gates passed", message)
	})
}

func TestBuildCompactPayload(t *testing.T) {
	result := &schema.RunResult{
		Branch: "main",
		Gates: []schema.GateResult{
			{ID: "demo", Status: schema.GateFailed, Violations: []schema.Violation{
				{File: "a.py", Message: "broken", Rule: "demo", Severity: schema.SeverityError},
			}},
		},
		Warnings: []string{"internal warning"},
	}

	data, err := BuildCompactPayload(result)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(data, &payload))
	// Exactly the pass flag and the gate list; no branch, no warnings, no
	// raw output.
	assert.Len(t, payload, 2)
	assert.Equal(t, false, payload["pass"])
	assert.NotContains(t, string(data), "internal warning")
	assert.Contains(t, string(data), `"rule":"demo"`)
}
