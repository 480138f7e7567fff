package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunResultPass(t *testing.T) {
	assert.True(t, RunResult{}.Pass(), "no gates means nothing failed")
	assert.True(t, RunResult{Gates: []GateResult{
		{ID: "a", Status: GatePassed},
		{ID: "b", Status: GateSkipped},
	}}.Pass(), "skipped gates carry no judgement")
	assert.False(t, RunResult{Gates: []GateResult{
		{ID: "a", Status: GatePassed},
		{ID: "b", Status: GateFailed},
	}}.Pass())
}

func TestRunResultAllSkipped(t *testing.T) {
	assert.True(t, RunResult{}.AllSkipped())
	assert.True(t, RunResult{Gates: []GateResult{{Status: GateSkipped}}}.AllSkipped())
	assert.False(t, RunResult{Gates: []GateResult{{Status: GateSkipped}, {Status: GatePassed}}}.AllSkipped())
}

func TestRunResultFailingFiles(t *testing.T) {
	result := RunResult{Gates: []GateResult{
		{ID: "lint", Status: GateFailed, Violations: []Violation{
			{File: "a.py"}, {File: "b.py"}, {File: "a.py"},
		}},
		{ID: "types", Status: GateFailed, Violations: []Violation{
			{File: "b.py"}, {File: ""},
		}},
		{ID: "format", Status: GatePassed, Violations: []Violation{}},
	}}
	assert.Equal(t, []string{"a.py", "b.py"}, result.FailingFiles())
}

func TestCompactReportShape(t *testing.T) {
	line := 3
	result := RunResult{
		Branch: "feature/x",
		Files:  []string{"a.py"},
		Gates: []GateResult{{
			ID:     "lint",
			Status: GateFailed,
			Violations: []Violation{{
				File:     "a.py",
				Message:  "unused import",
				Line:     &line,
				Rule:     "F401",
				Fixable:  true,
				Severity: SeverityError,
			}},
		}},
		Warnings: []string{"should not leak"},
	}

	data, err := json.Marshal(result.Compact())
	require.NoError(t, err)
	payload := string(data)

	assert.Contains(t, payload, `"pass":false`)
	assert.Contains(t, payload, `"id":"lint"`)
	assert.Contains(t, payload, `"rule":"F401"`)
	// The compact payload carries exactly pass and gates; run metadata
	// stays out of it.
	assert.NotContains(t, payload, "feature/x")
	assert.NotContains(t, payload, "should not leak")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded, 2)
}

func TestCompactReportEmptyGates(t *testing.T) {
	data, err := json.Marshal(RunResult{}.Compact())
	require.NoError(t, err)
	assert.JSONEq(t, `{"pass":true,"gates":[]}`, string(data))
}

func TestViolationOmitsMissingPosition(t *testing.T) {
	data, err := json.Marshal(Violation{File: "a.py", Message: "m", Severity: SeverityError})
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"line"`)
	assert.NotContains(t, string(data), `"col"`)
}
