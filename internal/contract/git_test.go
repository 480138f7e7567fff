package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNameStatus(t *testing.T) {
	out := []byte("M\tapp/models.py\nA\tapp/views.py\nD\tapp/legacy.py\nR100\tapp/old.py\tapp/new.py\nC75\tlib/a.py\tlib/b.py\n\n")
	entries := ParseNameStatus(out)
	require.Len(t, entries, 5)

	assert.Equal(t, DiffEntry{Status: "M", Path: "app/models.py"}, entries[0])
	assert.Equal(t, DiffEntry{Status: "A", Path: "app/views.py"}, entries[1])
	assert.Equal(t, DiffEntry{Status: "D", Path: "app/legacy.py"}, entries[2])
	assert.Equal(t, "app/new.py", entries[3].Path, "rename keeps the target-ref path")
	assert.Equal(t, "lib/b.py", entries[4].Path, "copy keeps the target-ref path")
}

func TestParseNameStatusEmpty(t *testing.T) {
	assert.Empty(t, ParseNameStatus(nil))
	assert.Empty(t, ParseNameStatus([]byte("\n\n")))
	assert.Empty(t, ParseNameStatus([]byte("garbage-without-tab")))
}

func TestDiffEntryDeleted(t *testing.T) {
	assert.True(t, DiffEntry{Status: "D"}.Deleted())
	assert.True(t, DiffEntry{Status: "D100"}.Deleted())
	assert.False(t, DiffEntry{Status: "M"}.Deleted())
	assert.False(t, DiffEntry{Status: "R100"}.Deleted())
}

func TestNewLocalGitClientTimeoutFallback(t *testing.T) {
	c := NewLocalGitClient(0)
	assert.Equal(t, DefaultGitTimeout, c.timeout)
}
