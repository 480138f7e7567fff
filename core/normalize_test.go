package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qualgate/qualgate/schema"
)

func TestNormalizeViolations(t *testing.T) {
	input := []schema.Violation{
		{File: "/repo/app/models.py", Message: "first line\nsecond line", Severity: "Error"},
		{File: "app/views.py", Message: "uses non-breaking space", Severity: "warn"},
		{File: "/repo/deep/pkg/mod.py", Message: "  padded  ", Severity: "note"},
	}

	out := NormalizeViolations("/repo", input)
	require.Len(t, out, 3)

	assert.Equal(t, "app/models.py", out[0].File)
	assert.Equal(t, "first line; second line", out[0].Message)
	assert.Equal(t, schema.SeverityError, out[0].Severity)

	assert.Equal(t, "app/views.py", out[1].File)
	assert.Equal(t, "uses non-breaking space", out[1].Message)
	assert.Equal(t, schema.SeverityWarning, out[1].Severity)

	assert.Equal(t, "deep/pkg/mod.py", out[2].File)
	assert.Equal(t, "padded", out[2].Message)
	assert.Equal(t, schema.SeverityInformation, out[2].Severity)

	// The input slice is left untouched.
	assert.Equal(t, "/repo/app/models.py", input[0].File)
}

func TestCanonicalSeverity(t *testing.T) {
	cases := map[string]schema.Severity{
		"error":         schema.SeverityError,
		"Error":         schema.SeverityError,
		"warning":       schema.SeverityWarning,
		"warn":          schema.SeverityWarning,
		"information":   schema.SeverityInformation,
		"info":          schema.SeverityInformation,
		"informational": schema.SeverityInformation,
		"note":          schema.SeverityInformation,
		"hint":          schema.SeverityInformation,
		"":              schema.SeverityError,
		"fatal":         schema.SeverityError,
	}
	for raw, want := range cases {
		assert.Equal(t, want, canonicalSeverity(schema.Severity(raw)), "severity %q", raw)
	}
}
