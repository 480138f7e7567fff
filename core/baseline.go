package core

import (
	"github.com/qualgate/qualgate/internal/contract"
	"github.com/qualgate/qualgate/schema"
)

// BaselineUpdater is the single write path for baseline state. The
// effective-scope guard lives here, at the boundary, so no transition can
// be reached by a run that merely re-derived intent from context.
type BaselineUpdater struct {
	state contract.StateStore
}

// NewBaselineUpdater creates an updater over the given state store.
func NewBaselineUpdater(state contract.StateStore) *BaselineUpdater {
	return &BaselineUpdater{state: state}
}

// Apply persists the outcome of a completed run. Runs under branch, project
// or files scope leave the persisted state untouched regardless of their
// own pass/fail outcome. The write happens exactly once, after all gates
// have completed; nothing is mutated incrementally per gate.
func (u *BaselineUpdater) Apply(scope *ResolvedScope, result *schema.RunResult) error {
	if !scope.EffectivelyAuto() {
		return nil
	}
	if scope.Degraded {
		// Resolution could not see the full change set. A pass over an
		// incomplete candidate list proves nothing, so advancing the SHA
		// or clearing the failed set here would record an unverified
		// clean state that no future auto run would ever re-check.
		return nil
	}
	if scope.Branch == "" || scope.HeadSHA == "" {
		// Git already failed during resolution and was surfaced there; a
		// degraded run must not guess at a baseline anchor.
		return nil
	}

	if result.Pass() {
		// All gates passed: the baseline advances to HEAD and the failed
		// set clears. This is also how the very first baseline gets
		// established after the project-scope fallback run.
		return u.state.SaveBaseline(scope.Branch, schema.BaselineRecord{
			BaselineSHA: scope.HeadSHA,
			FailedFiles: []string{},
		})
	}

	if !scope.Baseline.HasBaseline() {
		// First ever run failed. We stay in the no-baseline state until a
		// clean run occurs, so the next auto run re-evaluates the whole
		// project instead of anchoring a baseline on a known-dirty tree.
		return nil
	}

	// At least one gate failed: the baseline SHA is unchanged and the
	// failed set grows by the files that actually failed in this run.
	rec := scope.Baseline.Clone()
	rec.FailedFiles = rec.MergeFailedFiles(result.FailingFiles())
	return u.state.SaveBaseline(scope.Branch, rec)
}
