package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qualgate/qualgate/schema"
)

func gateByID(t *testing.T, id string) schema.GateSpec {
	t.Helper()
	for _, g := range schema.DefaultGateCatalog() {
		if g.ID == id {
			return g
		}
	}
	t.Fatalf("no gate %q in default catalog", id)
	return schema.GateSpec{}
}

func TestParseRuffLintJSON(t *testing.T) {
	raw := []byte(`[
  {
    "code": "F401",
    "filename": "/repo/app/models.py",
    "location": {"row": 3, "column": 8},
    "message": "os imported but unused",
    "fix": {"applicability": "safe"}
  },
  {
    "code": "E711",
    "filename": "/repo/app/views.py",
    "location": {"row": 12, "column": 4},
    "message": "Comparison to None should be cond is None",
    "fix": null
  }
]`)

	violations, err := ParseViolations(gateByID(t, "ruff-lint"), raw)
	require.NoError(t, err)
	require.Len(t, violations, 2)

	first := violations[0]
	assert.Equal(t, "/repo/app/models.py", first.File)
	assert.Equal(t, "F401", first.Rule)
	assert.Equal(t, "os imported but unused", first.Message)
	require.NotNil(t, first.Line)
	assert.Equal(t, 3, *first.Line)
	require.NotNil(t, first.Col)
	assert.Equal(t, 8, *first.Col)
	assert.True(t, first.Fixable, "non-null fix object means fixable")

	assert.False(t, violations[1].Fixable, "null fix means not fixable")
}

func TestParseRuffLintEmptyArray(t *testing.T) {
	violations, err := ParseViolations(gateByID(t, "ruff-lint"), []byte("[]"))
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestParseRuffFormatText(t *testing.T) {
	raw := []byte("Would reformat: app/models.py\nWould reformat: app/views.py\n2 files would be reformatted\n")

	violations, err := ParseViolations(gateByID(t, "ruff-format"), raw)
	require.NoError(t, err)
	require.Len(t, violations, 2)

	v := violations[0]
	assert.Equal(t, "app/models.py", v.File)
	assert.Equal(t, "format", v.Rule)
	assert.Equal(t, schema.Severity("warning"), v.Severity)
	// The defaults map interpolates the captured file name.
	assert.Equal(t, "would reformat app/models.py", v.Message)
	assert.True(t, v.Fixable)
	assert.Nil(t, v.Line)
}

func TestParseMypyText(t *testing.T) {
	raw := []byte(`app/models.py:10: error: Incompatible return value type (got "str", expected "int")  [return-value]
app/models.py:22:5: warning: Redundant cast to "int"  [redundant-cast]
app/views.py:7: note: Revealed type is "builtins.str"
Found 2 errors in 1 file (checked 2 source files)
`)

	violations, err := ParseViolations(gateByID(t, "mypy"), raw)
	require.NoError(t, err)
	require.Len(t, violations, 3)

	first := violations[0]
	assert.Equal(t, "app/models.py", first.File)
	require.NotNil(t, first.Line)
	assert.Equal(t, 10, *first.Line)
	assert.Nil(t, first.Col)
	assert.Equal(t, schema.Severity("error"), first.Severity)
	assert.Equal(t, "return-value", first.Rule)
	assert.Equal(t, `Incompatible return value type (got "str", expected "int")`, first.Message)

	second := violations[1]
	require.NotNil(t, second.Col)
	assert.Equal(t, 5, *second.Col)
	assert.Equal(t, schema.Severity("warning"), second.Severity)

	// A note line has no bracketed rule.
	assert.Empty(t, violations[2].Rule)
}

func TestParsePyrightJSON(t *testing.T) {
	raw := []byte(`{
  "version": "1.1.350",
  "generalDiagnostics": [
    {
      "file": "/repo/app/models.py",
      "severity": "error",
      "message": "Operator \"+\" not supported",
      "range": {"start": {"line": 9, "character": 0}, "end": {"line": 9, "character": 12}},
      "rule": "reportOperatorIssue"
    }
  ],
  "summary": {"errorCount": 1}
}`)

	violations, err := ParseViolations(gateByID(t, "pyright"), raw)
	require.NoError(t, err)
	require.Len(t, violations, 1)

	v := violations[0]
	assert.Equal(t, "/repo/app/models.py", v.File)
	assert.Equal(t, "reportOperatorIssue", v.Rule)
	// Pyright line numbers are 0-based on the wire.
	require.NotNil(t, v.Line)
	assert.Equal(t, 10, *v.Line)
	require.NotNil(t, v.Col)
	assert.Equal(t, 1, *v.Col)
}

func TestParseJSONFailures(t *testing.T) {
	gate := gateByID(t, "pyright")

	t.Run("invalid json", func(t *testing.T) {
		_, err := ParseViolations(gate, []byte("Traceback (most recent call last):"))
		assert.ErrorContains(t, err, "not valid JSON")
	})

	t.Run("pointer missing", func(t *testing.T) {
		_, err := ParseViolations(gate, []byte(`{"version": "1.1.350"}`))
		assert.ErrorContains(t, err, "not found")
	})

	t.Run("pointer addresses non-array", func(t *testing.T) {
		_, err := ParseViolations(gate, []byte(`{"generalDiagnostics": {}}`))
		assert.ErrorContains(t, err, "does not address an array")
	})
}

func TestParseTextNoMatches(t *testing.T) {
	violations, err := ParseViolations(gateByID(t, "mypy"), []byte("Success: no issues found in 2 source files\n"))
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestParseUnknownKind(t *testing.T) {
	gate := schema.GateSpec{ID: "bad", Parser: schema.ParserSpec{Kind: "csv"}}
	_, err := ParseViolations(gate, nil)
	assert.ErrorContains(t, err, "unrecognized parser kind")
}

func TestInterpolate(t *testing.T) {
	fields := map[string]string{"file": "a.py", "line": "3"}
	assert.Equal(t, "a.py at 3", interpolate("${file} at ${line}", fields))
	assert.Equal(t, "plain", interpolate("plain", fields))
	assert.Equal(t, "", interpolate("${missing}", fields))
}
