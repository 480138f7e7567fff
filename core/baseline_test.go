package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qualgate/qualgate/internal/contract"
	"github.com/qualgate/qualgate/schema"
)

func passingResult() *schema.RunResult {
	return &schema.RunResult{Gates: []schema.GateResult{{ID: "demo", Status: schema.GatePassed}}}
}

func failingResult(files ...string) *schema.RunResult {
	violations := make([]schema.Violation, len(files))
	for i, f := range files {
		violations[i] = schema.Violation{File: f, Message: "broken"}
	}
	return &schema.RunResult{Gates: []schema.GateResult{
		{ID: "demo", Status: schema.GateFailed, Violations: violations},
	}}
}

func TestBaselineNonAutoRunsNeverWrite(t *testing.T) {
	for _, mode := range []schema.ScopeMode{schema.BranchScope, schema.ProjectScope, schema.FilesScope} {
		state := &contract.MockStateStore{}
		scope := &ResolvedScope{Requested: mode, Effective: mode, Branch: "main", HeadSHA: "abc"}

		require.NoError(t, NewBaselineUpdater(state).Apply(scope, passingResult()))
		require.NoError(t, NewBaselineUpdater(state).Apply(scope, failingResult("a.py")))
		state.AssertNotCalled(t, "SaveBaseline")
	}
}

func TestBaselineDegradedGitNeverWrites(t *testing.T) {
	state := &contract.MockStateStore{}
	scope := &ResolvedScope{Requested: schema.AutoScope, Effective: schema.AutoScope, Degraded: true}

	require.NoError(t, NewBaselineUpdater(state).Apply(scope, passingResult()))
	state.AssertNotCalled(t, "SaveBaseline")
}

func TestBaselineDegradedResolutionNeverWrites(t *testing.T) {
	// Branch and HEAD resolved fine but the baseline diff (or the state
	// load) failed: the run saw an incomplete candidate set and its pass
	// proves nothing. Without the guard this would advance the SHA past
	// commits no gate ever checked.
	state := &contract.MockStateStore{}
	scope := &ResolvedScope{
		Requested: schema.AutoScope,
		Effective: schema.AutoScope,
		Branch:    "main",
		HeadSHA:   "head456",
		Baseline:  schema.BaselineRecord{BaselineSHA: "base123", FailedFiles: []string{"a.py"}},
		Degraded:  true,
	}

	require.NoError(t, NewBaselineUpdater(state).Apply(scope, passingResult()))
	require.NoError(t, NewBaselineUpdater(state).Apply(scope, failingResult("a.py")))
	state.AssertNotCalled(t, "SaveBaseline")
}

func TestBaselinePassAdvancesToHead(t *testing.T) {
	state := &contract.MockStateStore{}
	state.On("SaveBaseline", "main", schema.BaselineRecord{
		BaselineSHA: "head456",
		FailedFiles: []string{},
	}).Return(nil)

	scope := &ResolvedScope{
		Requested: schema.AutoScope,
		Effective: schema.AutoScope,
		Branch:    "main",
		HeadSHA:   "head456",
		Baseline:  schema.BaselineRecord{BaselineSHA: "old123", FailedFiles: []string{"a.py"}},
	}
	require.NoError(t, NewBaselineUpdater(state).Apply(scope, passingResult()))
	state.AssertExpectations(t)
}

func TestBaselineFirstRunEstablishesOnPass(t *testing.T) {
	state := &contract.MockStateStore{}
	state.On("SaveBaseline", "main", schema.BaselineRecord{
		BaselineSHA: "head456",
		FailedFiles: []string{},
	}).Return(nil)

	// The project-scope fallback run is still requested-auto and may
	// anchor the first baseline when it passes.
	scope := &ResolvedScope{
		Requested: schema.AutoScope,
		Effective: schema.ProjectScope,
		Branch:    "main",
		HeadSHA:   "head456",
	}
	require.NoError(t, NewBaselineUpdater(state).Apply(scope, passingResult()))
	state.AssertExpectations(t)
}

func TestBaselineFirstRunFailureStaysUnanchored(t *testing.T) {
	state := &contract.MockStateStore{}
	scope := &ResolvedScope{
		Requested: schema.AutoScope,
		Effective: schema.ProjectScope,
		Branch:    "main",
		HeadSHA:   "head456",
	}
	require.NoError(t, NewBaselineUpdater(state).Apply(scope, failingResult("a.py")))
	state.AssertNotCalled(t, "SaveBaseline")
}

func TestBaselineFailureMergesFailedFiles(t *testing.T) {
	state := &contract.MockStateStore{}
	state.On("SaveBaseline", "main", schema.BaselineRecord{
		BaselineSHA: "old123",
		FailedFiles: []string{"a.py", "b.py", "z.py"},
	}).Return(nil)

	scope := &ResolvedScope{
		Requested: schema.AutoScope,
		Effective: schema.AutoScope,
		Branch:    "main",
		HeadSHA:   "head456",
		Baseline:  schema.BaselineRecord{BaselineSHA: "old123", FailedFiles: []string{"z.py", "a.py"}},
	}
	require.NoError(t, NewBaselineUpdater(state).Apply(scope, failingResult("b.py", "a.py")))

	// The SHA must not move on a failing run; only the failed set grows.
	state.AssertExpectations(t)
}

func TestBaselineSaveErrorPropagates(t *testing.T) {
	state := &contract.MockStateStore{}
	state.On("SaveBaseline", "main", schema.BaselineRecord{
		BaselineSHA: "head456",
		FailedFiles: []string{},
	}).Return(assert.AnError)

	scope := &ResolvedScope{
		Requested: schema.AutoScope,
		Effective: schema.AutoScope,
		Branch:    "main",
		HeadSHA:   "head456",
	}
	assert.Error(t, NewBaselineUpdater(state).Apply(scope, passingResult()))
}
