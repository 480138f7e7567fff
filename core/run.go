package core

import (
	"context"
	"time"

	"github.com/qualgate/qualgate/internal/contract"
	"github.com/qualgate/qualgate/schema"
)

// Orchestrator wires the resolver, executor and baseline updater into the
// single run_quality_gates entry point. Gates execute sequentially; the
// run is atomic-or-abandoned with exactly one state write at the end.
type Orchestrator struct {
	cfg       *contract.Config
	git       contract.GitClient
	state     contract.StateStore
	runner    contract.ToolRunner
	artifacts contract.ArtifactStore // nil disables artifact logging
}

// NewOrchestrator creates an orchestrator. artifacts may be nil when the
// artifact log backend is disabled.
func NewOrchestrator(cfg *contract.Config, git contract.GitClient, state contract.StateStore, runner contract.ToolRunner, artifacts contract.ArtifactStore) *Orchestrator {
	return &Orchestrator{cfg: cfg, git: git, state: state, runner: runner, artifacts: artifacts}
}

// Run validates the request, resolves the scope, executes every applicable
// gate and applies the baseline transition. Input validation failures
// return an error before any gate executes; every later failure mode
// degrades into the result instead of aborting the run.
func (o *Orchestrator) Run(ctx context.Context, req schema.ScopeRequest) (*schema.RunResult, error) {
	start := time.Now()

	resolver := NewScopeResolver(o.cfg, o.git, o.state)
	resolved, err := resolver.Resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &schema.RunResult{
		RequestedScope: resolved.Requested,
		EffectiveScope: resolved.Effective,
		Branch:         resolved.Branch,
		Files:          resolved.Files,
		Warnings:       resolved.Warnings,
		StartedAt:      start,
	}

	runID := o.beginArtifactRun(start, resolved)

	for _, gate := range o.cfg.Gates {
		exec := ExecuteGate(ctx, o.cfg, o.runner, gate, resolved.Files)
		result.Gates = append(result.Gates, exec.Result)
		result.Warnings = append(result.Warnings, exec.Warnings...)
		o.recordArtifact(runID, gate.ID, exec)
	}

	result.Duration = time.Since(start)

	if err := NewBaselineUpdater(o.state).Apply(resolved, result); err != nil {
		result.Warnings = append(result.Warnings, "baseline state was not updated: "+err.Error())
	}

	o.endArtifactRun(runID, result)
	return result, nil
}

// beginArtifactRun opens a run record in the artifact log. Artifact log
// trouble is never fatal to the run itself.
func (o *Orchestrator) beginArtifactRun(start time.Time, resolved *ResolvedScope) int64 {
	if o.artifacts == nil {
		return 0
	}
	runID, err := o.artifacts.BeginRun(start, string(resolved.Requested), string(resolved.Effective), len(resolved.Files))
	if err != nil {
		contract.LogWarn("could not open artifact run record", err)
		return 0
	}
	return runID
}

func (o *Orchestrator) recordArtifact(runID int64, gateID string, exec GateExecution) {
	if o.artifacts == nil || runID == 0 {
		return
	}
	if exec.Result.Status == schema.GateSkipped {
		// A skipped gate never executed anything worth archiving.
		return
	}
	if err := o.artifacts.RecordGateExecution(runID, gateID, exec.CommandLine, exec.ExitCode, exec.RawOutput, exec.DurationMs); err != nil {
		contract.LogWarn("could not record gate execution artifact", err)
	}
}

func (o *Orchestrator) endArtifactRun(runID int64, result *schema.RunResult) {
	if o.artifacts == nil || runID == 0 {
		return
	}
	if err := o.artifacts.EndRun(runID, time.Now(), result.Pass()); err != nil {
		contract.LogWarn("could not close artifact run record", err)
	}
}
