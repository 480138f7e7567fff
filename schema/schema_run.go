package schema

import "time"

// RunResult holds everything produced by one orchestrator run. The compact
// payload and summary line are derived from it; raw subprocess detail never
// lives here (it belongs to the artifact log).
type RunResult struct {
	RequestedScope ScopeMode
	EffectiveScope ScopeMode
	Branch         string
	Files          []string
	Gates          []GateResult
	Warnings       []string
	Duration       time.Duration
	StartedAt      time.Time
}

// Pass reports whether no gate failed. Skipped gates carry no judgement and
// do not count against the run.
func (r RunResult) Pass() bool {
	for _, g := range r.Gates {
		if g.Status == GateFailed {
			return false
		}
	}
	return true
}

// AllSkipped reports whether every gate was skipped (or no gates ran at all).
func (r RunResult) AllSkipped() bool {
	for _, g := range r.Gates {
		if g.Status != GateSkipped {
			return false
		}
	}
	return true
}

// FailingFiles returns the distinct files that failed any gate in this run.
func (r RunResult) FailingFiles() []string {
	seen := make(map[string]bool)
	var files []string
	for _, g := range r.Gates {
		if g.Status != GateFailed {
			continue
		}
		for _, f := range g.FailingFiles() {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	return files
}

// CompactReport is the agent-facing JSON payload: exactly an overall pass
// flag and the per-gate results, nothing else.
type CompactReport struct {
	Pass  bool         `json:"pass"`
	Gates []GateResult `json:"gates"`
}

// Compact builds the CompactReport for this run.
func (r RunResult) Compact() CompactReport {
	gates := r.Gates
	if gates == nil {
		gates = []GateResult{}
	}
	return CompactReport{Pass: r.Pass(), Gates: gates}
}
