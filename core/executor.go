package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/qualgate/qualgate/internal/contract"
	"github.com/qualgate/qualgate/schema"
)

// GateExecution pairs the agent-facing GateResult with the raw execution
// detail destined for the artifact log. The two never mix: command lines
// and raw output stay out of the response payload.
type GateExecution struct {
	Result      schema.GateResult
	CommandLine string
	ExitCode    int
	RawOutput   string
	DurationMs  int64
	Warnings    []string
}

// ExecuteGate runs one gate over its applicable subset of the candidate
// files. An empty subset short-circuits to a skipped result with no
// pass/fail judgement. Subprocess failures surface as a single synthetic
// violation, never as a crash of the whole run.
func ExecuteGate(ctx context.Context, cfg *contract.Config, runner contract.ToolRunner, gate schema.GateSpec, candidates []string) GateExecution {
	exec := GateExecution{
		Result: schema.GateResult{ID: gate.ID, Violations: []schema.Violation{}},
	}

	subset := gateSubset(gate, candidates)
	if len(subset) == 0 {
		exec.Result.Status = schema.GateSkipped
		return exec
	}

	argv := append(append([]string{}, gate.Command...), subset...)
	res, err := runner.Run(ctx, cfg.RepoRoot, argv)
	exec.CommandLine = strings.Join(res.Argv, " ")
	if exec.CommandLine == "" {
		exec.CommandLine = strings.Join(argv, " ")
	}
	exec.ExitCode = res.ExitCode
	exec.DurationMs = res.Duration.Milliseconds()
	exec.RawOutput = string(res.Stdout)
	if len(res.Stderr) > 0 {
		exec.RawOutput += "\n--- stderr ---\n" + string(res.Stderr)
	}

	if err != nil {
		exec.Result.Status = schema.GateFailed
		exec.Result.Violations = []schema.Violation{syntheticViolation(fmt.Sprintf("gate command could not run: %v", err))}
		return exec
	}

	violations, parseErr := ParseViolations(gate, res.Stdout)
	if parseErr != nil {
		// Degrading to an empty list can mask real findings; that is an
		// accepted risk of config-declared parsing, so make it loud.
		exec.Warnings = append(exec.Warnings, fmt.Sprintf("gate %q output did not match its parser config: %v", gate.ID, parseErr))
		violations = nil
	}
	violations = NormalizeViolations(cfg.RepoRoot, violations)

	switch {
	case len(violations) > 0:
		exec.Result.Status = schema.GateFailed
		exec.Result.Violations = violations
	case res.ExitCode != 0:
		exec.Result.Status = schema.GateFailed
		exec.Result.Violations = []schema.Violation{syntheticViolation(fmt.Sprintf("gate exited with code %d and no parseable findings", res.ExitCode))}
	default:
		exec.Result.Status = schema.GatePassed
	}
	return exec
}

// gateSubset applies the gate's extension and include/exclude scoping to
// the resolved candidate list.
func gateSubset(gate schema.GateSpec, candidates []string) []string {
	var subset []string
	for _, f := range candidates {
		if !contract.HasExtension(f, gate.Extensions) {
			continue
		}
		if len(gate.Include) > 0 && !contract.MatchesAny(f, gate.Include) {
			continue
		}
		if len(gate.Exclude) > 0 && contract.MatchesAny(f, gate.Exclude) {
			continue
		}
		subset = append(subset, f)
	}
	return subset
}

func syntheticViolation(message string) schema.Violation {
	return schema.Violation{
		Message:  message,
		Rule:     "gate-error",
		Severity: schema.SeverityError,
	}
}
