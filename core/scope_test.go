package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qualgate/qualgate/internal/contract"
	"github.com/qualgate/qualgate/schema"
)

// scopeFixture builds a workspace on disk plus mocked collaborators so
// resolution runs against real files but scripted git and state.
type scopeFixture struct {
	cfg   *contract.Config
	git   *contract.MockGitClient
	state *contract.MockStateStore
}

func newScopeFixture(t *testing.T, files ...string) *scopeFixture {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x = 1\n"), 0o644))
	}
	return &scopeFixture{
		cfg: &contract.Config{
			RepoRoot:       root,
			ProjectGlobs:   []string{"**/*.py"},
			FallbackParent: "main",
			Gates:          schema.DefaultGateCatalog(),
		},
		git:   &contract.MockGitClient{},
		state: &contract.MockStateStore{},
	}
}

func (f *scopeFixture) resolve(t *testing.T, req schema.ScopeRequest) *ResolvedScope {
	t.Helper()
	res, err := NewScopeResolver(f.cfg, f.git, f.state).Resolve(context.Background(), req)
	require.NoError(t, err)
	return res
}

func TestResolveProjectScope(t *testing.T) {
	f := newScopeFixture(t,
		"app/models.py", "app/views.py", "tools/gen.py",
		"README.md", ".venv/lib/site.py", ".git/hooks/x.py")

	res := f.resolve(t, schema.ScopeRequest{Mode: schema.ProjectScope})

	assert.Equal(t, schema.ProjectScope, res.Effective)
	assert.Equal(t, []string{"app/models.py", "app/views.py", "tools/gen.py"}, res.Files)
	assert.Empty(t, res.Warnings)
}

func TestResolveBranchScope(t *testing.T) {
	f := newScopeFixture(t)
	f.state.On("ParentBranch").Return("develop", nil)
	f.git.On("GetDiffNameStatus", context.Background(), f.cfg.RepoRoot, "develop", "HEAD").
		Return([]contract.DiffEntry{
			{Status: "M", Path: "app/models.py"},
			{Status: "A", Path: "app/new.py"},
			{Status: "D", Path: "app/gone.py"},
			{Status: "M", Path: "docs/notes.md"},
		}, nil)

	res := f.resolve(t, schema.ScopeRequest{Mode: schema.BranchScope})

	assert.Equal(t, []string{"app/models.py", "app/new.py"}, res.Files)
	f.git.AssertExpectations(t)
	f.state.AssertExpectations(t)
}

func TestResolveBranchScopeFallbackParent(t *testing.T) {
	f := newScopeFixture(t)
	f.state.On("ParentBranch").Return("", nil)
	f.git.On("GetDiffNameStatus", context.Background(), f.cfg.RepoRoot, "main", "HEAD").
		Return([]contract.DiffEntry{{Status: "M", Path: "a.py"}}, nil)

	res := f.resolve(t, schema.ScopeRequest{Mode: schema.BranchScope})
	assert.Equal(t, []string{"a.py"}, res.Files)
}

func TestResolveBranchScopeDiffFailureDegrades(t *testing.T) {
	f := newScopeFixture(t)
	f.state.On("ParentBranch").Return("main", nil)
	f.git.On("GetDiffNameStatus", context.Background(), f.cfg.RepoRoot, "main", "HEAD").
		Return(nil, errors.New("fatal: bad revision"))

	res := f.resolve(t, schema.ScopeRequest{Mode: schema.BranchScope})

	assert.Empty(t, res.Files)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "diff main..HEAD failed")
}

func TestResolveFilesScope(t *testing.T) {
	f := newScopeFixture(t, "app/models.py", "app/sub/util.py", "app/readme.txt")

	t.Run("explicit file", func(t *testing.T) {
		res := f.resolve(t, schema.ScopeRequest{Mode: schema.FilesScope, Files: []string{"app/models.py"}})
		assert.Equal(t, []string{"app/models.py"}, res.Files)
	})

	t.Run("directory expands recursively", func(t *testing.T) {
		res := f.resolve(t, schema.ScopeRequest{Mode: schema.FilesScope, Files: []string{"app"}})
		assert.Equal(t, []string{"app/models.py", "app/sub/util.py"}, res.Files)
	})

	t.Run("missing path warns", func(t *testing.T) {
		res := f.resolve(t, schema.ScopeRequest{Mode: schema.FilesScope, Files: []string{"ghost.py"}})
		assert.Empty(t, res.Files)
		require.Len(t, res.Warnings, 1)
		assert.Contains(t, res.Warnings[0], "does not exist")
	})

	t.Run("unrecognized extension warns", func(t *testing.T) {
		res := f.resolve(t, schema.ScopeRequest{Mode: schema.FilesScope, Files: []string{"app/readme.txt"}})
		assert.Empty(t, res.Files)
		require.Len(t, res.Warnings, 1)
	})

	t.Run("duplicates collapse", func(t *testing.T) {
		res := f.resolve(t, schema.ScopeRequest{
			Mode:  schema.FilesScope,
			Files: []string{"app/models.py", "app/models.py", "app"},
		})
		assert.Equal(t, []string{"app/models.py", "app/sub/util.py"}, res.Files)
	})
}

func TestResolveAutoScopeWithBaseline(t *testing.T) {
	f := newScopeFixture(t, "app/flaky.py")
	f.git.On("GetCurrentBranch", context.Background(), f.cfg.RepoRoot).Return("feature/x", nil)
	f.git.On("GetHeadSHA", context.Background(), f.cfg.RepoRoot).Return("headsha", nil)
	f.state.On("LoadBaseline", "feature/x").Return(schema.BaselineRecord{
		BaselineSHA: "base123",
		FailedFiles: []string{"app/flaky.py"},
	}, nil)
	f.git.On("GetDiffNameStatus", context.Background(), f.cfg.RepoRoot, "base123", "HEAD").
		Return([]contract.DiffEntry{
			{Status: "M", Path: "app/models.py"},
			{Status: "D", Path: "app/flawed.py"},
		}, nil)

	res := f.resolve(t, schema.ScopeRequest{Mode: schema.AutoScope})

	assert.Equal(t, schema.AutoScope, res.Effective)
	assert.True(t, res.EffectivelyAuto())
	assert.Equal(t, "feature/x", res.Branch)
	assert.Equal(t, "headsha", res.HeadSHA)
	assert.False(t, res.Degraded)
	// Union of the baseline diff and the carried-over failed set.
	assert.Equal(t, []string{"app/flaky.py", "app/models.py"}, res.Files)
}

func TestResolveAutoScopePrunesDeletedCarriedFiles(t *testing.T) {
	f := newScopeFixture(t, "app/flaky.py")
	f.git.On("GetCurrentBranch", context.Background(), f.cfg.RepoRoot).Return("main", nil)
	f.git.On("GetHeadSHA", context.Background(), f.cfg.RepoRoot).Return("headsha", nil)
	f.state.On("LoadBaseline", "main").Return(schema.BaselineRecord{
		BaselineSHA: "base123",
		FailedFiles: []string{"app/flaky.py", "app/removed.py"},
	}, nil)
	f.git.On("GetDiffNameStatus", context.Background(), f.cfg.RepoRoot, "base123", "HEAD").
		Return([]contract.DiffEntry{}, nil)

	res := f.resolve(t, schema.ScopeRequest{Mode: schema.AutoScope})

	// A carried failure with no file left on disk must not reach gates.
	assert.Equal(t, []string{"app/flaky.py"}, res.Files)
}

func TestResolveAutoScopeDiffFailureMarksDegraded(t *testing.T) {
	f := newScopeFixture(t)
	f.git.On("GetCurrentBranch", context.Background(), f.cfg.RepoRoot).Return("main", nil)
	f.git.On("GetHeadSHA", context.Background(), f.cfg.RepoRoot).Return("headsha", nil)
	f.state.On("LoadBaseline", "main").Return(schema.BaselineRecord{BaselineSHA: "base123"}, nil)
	f.git.On("GetDiffNameStatus", context.Background(), f.cfg.RepoRoot, "base123", "HEAD").
		Return(nil, errors.New("fatal: bad object base123"))

	res := f.resolve(t, schema.ScopeRequest{Mode: schema.AutoScope})

	assert.Empty(t, res.Files)
	assert.True(t, res.Degraded)
	require.Len(t, res.Warnings, 1)
}

func TestResolveAutoScopeLoadBaselineFailureMarksDegraded(t *testing.T) {
	f := newScopeFixture(t)
	f.git.On("GetCurrentBranch", context.Background(), f.cfg.RepoRoot).Return("main", nil)
	f.git.On("GetHeadSHA", context.Background(), f.cfg.RepoRoot).Return("headsha", nil)
	f.state.On("LoadBaseline", "main").Return(schema.BaselineRecord{}, errors.New("state file is not valid JSON"))

	res := f.resolve(t, schema.ScopeRequest{Mode: schema.AutoScope})

	assert.Empty(t, res.Files)
	assert.True(t, res.Degraded)
}

func TestResolveAutoScopeNoBaselineFallsBackToProject(t *testing.T) {
	f := newScopeFixture(t, "app/models.py")
	f.git.On("GetCurrentBranch", context.Background(), f.cfg.RepoRoot).Return("main", nil)
	f.git.On("GetHeadSHA", context.Background(), f.cfg.RepoRoot).Return("headsha", nil)
	f.state.On("LoadBaseline", "main").Return(schema.BaselineRecord{}, nil)

	res := f.resolve(t, schema.ScopeRequest{Mode: schema.AutoScope})

	assert.Equal(t, schema.ProjectScope, res.Effective)
	// The fallback run stays eligible to establish the first baseline.
	assert.True(t, res.EffectivelyAuto())
	assert.Equal(t, []string{"app/models.py"}, res.Files)
}

func TestResolveAutoScopeEmptyUnionStaysEmpty(t *testing.T) {
	f := newScopeFixture(t, "app/models.py")
	f.git.On("GetCurrentBranch", context.Background(), f.cfg.RepoRoot).Return("main", nil)
	f.git.On("GetHeadSHA", context.Background(), f.cfg.RepoRoot).Return("headsha", nil)
	f.state.On("LoadBaseline", "main").Return(schema.BaselineRecord{BaselineSHA: "base123"}, nil)
	f.git.On("GetDiffNameStatus", context.Background(), f.cfg.RepoRoot, "base123", "HEAD").
		Return([]contract.DiffEntry{}, nil)

	res := f.resolve(t, schema.ScopeRequest{Mode: schema.AutoScope})

	// No changes and no carried failures means nothing to check, not a
	// fall-through to project scope.
	assert.Equal(t, schema.AutoScope, res.Effective)
	assert.Empty(t, res.Files)
}

func TestResolveAutoScopeGitFailureDegrades(t *testing.T) {
	f := newScopeFixture(t, "app/models.py")
	f.git.On("GetCurrentBranch", context.Background(), f.cfg.RepoRoot).
		Return("", errors.New("not a repository"))

	res := f.resolve(t, schema.ScopeRequest{Mode: schema.AutoScope})

	assert.Empty(t, res.Files)
	assert.True(t, res.Degraded)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "could not determine current branch")
}

func TestResolveRejectsMalformedRequest(t *testing.T) {
	f := newScopeFixture(t)
	_, err := NewScopeResolver(f.cfg, f.git, f.state).
		Resolve(context.Background(), schema.ScopeRequest{Mode: schema.FilesScope})
	assert.Error(t, err)
}

func TestDedupeSorted(t *testing.T) {
	assert.Equal(t, []string{"a.py", "b.py"}, dedupeSorted([]string{"b.py", "a.py", "b.py", ""}))
	assert.Empty(t, dedupeSorted(nil))
}
