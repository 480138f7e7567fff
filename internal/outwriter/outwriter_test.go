package outwriter

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qualgate/qualgate/internal/contract"
	"github.com/qualgate/qualgate/schema"
)

func intp(v int) *int { return &v }

func TestStripLeadingIcon(t *testing.T) {
	assert.Equal(t, "all gates passed [auto · 2 files]", stripLeadingIcon("✅ all gates passed [auto · 2 files]"))
	assert.Equal(t, "nothing to check", stripLeadingIcon("✨ nothing to check"))
	// ASCII-led lines pass through untouched.
	assert.Equal(t, "all gates passed", stripLeadingIcon("all gates passed"))
	assert.Equal(t, "✅", stripLeadingIcon("✅"))
}

func TestLocation(t *testing.T) {
	assert.Equal(t, "a.py:3:8", location("a.py", intp(3), intp(8)))
	assert.Equal(t, "a.py:3", location("a.py", intp(3), nil))
	assert.Equal(t, "a.py", location("a.py", nil, nil))
	// A column without a line is meaningless and stays off the display.
	assert.Equal(t, "a.py", location("a.py", nil, intp(8)))
	assert.Equal(t, "-", location("", nil, nil))
}

func TestGetMaxTablePathWidth(t *testing.T) {
	assert.Equal(t, 70, GetMaxTablePathWidth(&contract.Config{Width: 400}))
	assert.Equal(t, 15, GetMaxTablePathWidth(&contract.Config{Width: 20}))
	assert.Equal(t, 55, GetMaxTablePathWidth(&contract.Config{Width: 100}))
}

func TestWriteRunText(t *testing.T) {
	result := &schema.RunResult{
		EffectiveScope: schema.AutoScope,
		Files:          []string{"a.py"},
		Gates: []schema.GateResult{
			{ID: "demo", Status: schema.GateFailed, Violations: []schema.Violation{
				{File: "a.py", Line: intp(3), Message: "broken", Rule: "demo", Severity: schema.SeverityError},
			}},
		},
		Warnings: []string{"diff degraded"},
	}
	cfg := &contract.Config{UseEmojis: false, UseColors: false}

	var buf bytes.Buffer
	require.NoError(t, writeRunText(result, cfg, &buf))

	out := buf.String()
	assert.Contains(t, out, "1 violation(s) across 1 gate(s)")
	assert.NotContains(t, out, "❌", "emoji stripped when disabled")
	assert.Contains(t, out, "diff degraded")
	assert.Contains(t, out, `"pass":false`)
}

func TestWriteJSONRoundtrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]any{"pass": true}))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, true, decoded["pass"])
}
