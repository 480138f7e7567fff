package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkspaceRelative(t *testing.T) {
	assert.Equal(t, "app/models.py", WorkspaceRelative("/repo", "/repo/app/models.py"))
	assert.Equal(t, "app/models.py", WorkspaceRelative("/repo", "app/models.py"))
	assert.Equal(t, "app/models.py", WorkspaceRelative("/repo", "./app/models.py"))
	assert.Equal(t, ".", WorkspaceRelative("/repo", "/repo"))

	// Absolute paths outside the root never pass through absolute.
	assert.Equal(t, "../elsewhere/x.py", WorkspaceRelative("/repo", "/elsewhere/x.py"))
	assert.Equal(t, "../venv/lib/typing.pyi", WorkspaceRelative("/repo", "/venv/lib/typing.pyi"))
}

func TestMatchesAny(t *testing.T) {
	patterns := []string{"src/**/*.py", "tools/*.py"}
	assert.True(t, MatchesAny("src/app/models.py", patterns))
	assert.True(t, MatchesAny("tools/gen.py", patterns))
	assert.False(t, MatchesAny("docs/readme.md", patterns))
	assert.False(t, MatchesAny("anything.py", nil))
	assert.False(t, MatchesAny("x.py", []string{"", "  "}))

	// An invalid pattern never matches; catalog validation rejects those.
	assert.False(t, MatchesAny("x.py", []string{"[invalid"}))
}

func TestHasExtension(t *testing.T) {
	assert.True(t, HasExtension("app/models.py", []string{".py"}))
	assert.True(t, HasExtension("APP/MODELS.PY", []string{".py"}))
	assert.False(t, HasExtension("app/models.pyi", []string{".py"}))
	assert.False(t, HasExtension("Makefile", []string{".py"}))
}

func TestTruncatePath(t *testing.T) {
	assert.Equal(t, "short.py", TruncatePath("short.py", 20))
	assert.Equal(t, "...p/deep/models.py", TruncatePath("src/app/deep/models.py", 19))
	assert.Equal(t, "py", TruncatePath("models.py", 2))
	assert.Equal(t, "models.py", TruncatePath("models.py", 0))
}
