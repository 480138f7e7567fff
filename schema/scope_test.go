package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScopeMode(t *testing.T) {
	for _, valid := range []string{"auto", "branch", "project", "files"} {
		mode, err := ParseScopeMode(valid)
		require.NoError(t, err)
		assert.Equal(t, ScopeMode(valid), mode)
	}

	_, err := ParseScopeMode("everything")
	assert.Error(t, err)
	_, err = ParseScopeMode("")
	assert.Error(t, err)
}

func TestScopeRequestValidate(t *testing.T) {
	t.Run("files scope requires paths", func(t *testing.T) {
		err := ScopeRequest{Mode: FilesScope}.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one file")
	})

	t.Run("paths rejected outside files scope", func(t *testing.T) {
		err := ScopeRequest{Mode: BranchScope, Files: []string{"a.py"}}.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "only accepted with scope")
	})

	t.Run("valid combinations", func(t *testing.T) {
		assert.NoError(t, ScopeRequest{Mode: AutoScope}.Validate())
		assert.NoError(t, ScopeRequest{Mode: ProjectScope}.Validate())
		assert.NoError(t, ScopeRequest{Mode: FilesScope, Files: []string{"a.py"}}.Validate())
	})

	t.Run("unknown mode", func(t *testing.T) {
		assert.Error(t, ScopeRequest{Mode: "repo"}.Validate())
	})
}
