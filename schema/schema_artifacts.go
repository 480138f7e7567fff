package schema

import "time"

// ArtifactRunRecord is one orchestrator run as stored in the artifact log.
type ArtifactRunRecord struct {
	RunID          int64
	StartTime      time.Time
	EndTime        *time.Time
	RequestedScope string
	EffectiveScope string
	FileCount      int
	OverallPass    *bool
}

// ArtifactGateRecord is one gate execution as stored in the artifact log.
// This is the only place raw subprocess output and command invocations are
// kept; they never appear in the agent-facing payload.
type ArtifactGateRecord struct {
	RunID       int64
	GateID      string
	CommandLine string
	ExitCode    int
	RawOutput   string
	DurationMs  int64
	RecordedAt  time.Time
}
